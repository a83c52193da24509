package config

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModePaper Mode = "paper"
	ModeLive  Mode = "live"
)

const (
	SourceJupiter = "jupiter"
	SourceAlpaca  = "alpaca"
)

// WSOLMint is the wrapped SOL mint used to query the Jupiter price API.
const WSOLMint = "So11111111111111111111111111111111111111112"

type Config struct {
	Mode            Mode          `yaml:"mode"`
	Source          string        `yaml:"source"`
	Symbol          string        `yaml:"symbol"`
	Mint            string        `yaml:"mint"`
	BuyTriggerUSD   float64       `yaml:"buyTriggerUSD"`
	SellTriggerUSD  float64       `yaml:"sellTriggerUSD"`
	SizePct         float64       `yaml:"sizePct"`
	BatchSize       int           `yaml:"batchSize"`
	PollInterval    time.Duration `yaml:"pollInterval"`
	WindowSize      int           `yaml:"windowSize"`
	QtyPrecision    int32         `yaml:"qtyPrecision"`
	OrderRetries    int           `yaml:"orderRetries"`
	MaxNotional     float64       `yaml:"maxNotional"`
	Cooldown        time.Duration `yaml:"cooldown"`
	KillSwitch      bool          `yaml:"killSwitch"`
	DecisionsPath   string        `yaml:"decisionsPath"`
	DecisionsMaxMB  int           `yaml:"decisionsMaxMB"`
	HTTPAddr        string        `yaml:"httpAddr"`
	AlpacaBaseURL   string        `yaml:"alpacaBaseURL"`
	AlpacaDataURL   string        `yaml:"alpacaDataURL"`
	JupiterPriceURL string        `yaml:"jupiterPriceURL"`
	APIKey          string        `yaml:"apiKey"`
	APISecret       string        `yaml:"apiSecret"`
	JupiterAPIKey   string        `yaml:"jupiterAPIKey"`
}

func Default() Config {
	return Config{
		Mode:            ModePaper,
		Source:          SourceJupiter,
		Symbol:          "SOL/USD",
		Mint:            WSOLMint,
		BuyTriggerUSD:   0.02,
		SellTriggerUSD:  0.03,
		SizePct:         0.005,
		BatchSize:       10,
		PollInterval:    2 * time.Second,
		WindowSize:      30,
		QtyPrecision:    9,
		OrderRetries:    1,
		MaxNotional:     1000,
		DecisionsPath:   "decisions.ndjson",
		AlpacaBaseURL:   "https://paper-api.alpaca.markets",
		JupiterPriceURL: "https://api.jup.ag/price/v3",
	}
}

// Load builds the configuration with precedence flags > env > config file > defaults.
func Load() (Config, error) {
	cfg := Default()

	loadDotEnvIfPresent(".env")

	configPath := configPathFromArgs(os.Args[1:])
	if configPath != "" {
		if err := loadFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	var mode string
	flag.String("config", configPath, "path to YAML config file")
	flag.StringVar(&mode, "mode", string(cfg.Mode), "run mode: paper or live")
	flag.StringVar(&cfg.Source, "source", cfg.Source, "price source: jupiter or alpaca")
	flag.StringVar(&cfg.Symbol, "symbol", cfg.Symbol, "traded symbol")
	flag.StringVar(&cfg.Mint, "mint", cfg.Mint, "token mint for the Jupiter price source")
	flag.Float64Var(&cfg.BuyTriggerUSD, "buy-trigger", cfg.BuyTriggerUSD, "USD drop from reference that fires a buy step")
	flag.Float64Var(&cfg.SellTriggerUSD, "sell-trigger", cfg.SellTriggerUSD, "USD rise from reference that fires a sell step")
	flag.Float64Var(&cfg.SizePct, "size-pct", cfg.SizePct, "buy size fraction")
	flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "hands per batch notification")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "price polling interval")
	flag.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "number of recent prices kept for stats")
	var precision int
	flag.IntVar(&precision, "qty-precision", int(cfg.QtyPrecision), "decimal places of the traded asset")
	flag.IntVar(&cfg.OrderRetries, "order-retries", cfg.OrderRetries, "retries for retryable order failures")
	flag.Float64Var(&cfg.MaxNotional, "max-notional", cfg.MaxNotional, "max notional per order")
	flag.DurationVar(&cfg.Cooldown, "cooldown", cfg.Cooldown, "minimum spacing between buy orders")
	flag.BoolVar(&cfg.KillSwitch, "kill-switch", cfg.KillSwitch, "if true, never place orders")
	flag.StringVar(&cfg.DecisionsPath, "decisions-path", cfg.DecisionsPath, "path to decisions log")
	flag.IntVar(&cfg.DecisionsMaxMB, "decisions-max-mb", cfg.DecisionsMaxMB, "rotate the decisions log past this size, 0 to disable")
	flag.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "address for /metrics and /status, empty to disable")
	flag.StringVar(&cfg.AlpacaBaseURL, "alpaca-base-url", cfg.AlpacaBaseURL, "Alpaca trading base URL")
	flag.StringVar(&cfg.AlpacaDataURL, "alpaca-data-url", cfg.AlpacaDataURL, "Alpaca market data URL, empty for the SDK default")
	flag.StringVar(&cfg.JupiterPriceURL, "jupiter-price-url", cfg.JupiterPriceURL, "Jupiter price API URL")
	flag.Parse()

	cfg.Mode = Mode(mode)
	cfg.QtyPrecision = int32(precision)

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func configPathFromArgs(args []string) string {
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func validate(cfg Config) error {
	if cfg.Mode != ModePaper && cfg.Mode != ModeLive {
		return fmt.Errorf("invalid mode: %s", cfg.Mode)
	}
	if cfg.Source != SourceJupiter && cfg.Source != SourceAlpaca {
		return fmt.Errorf("invalid source: %s", cfg.Source)
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		if cfg.Mode == ModeLive || cfg.Source == SourceAlpaca {
			return fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required for live mode and the alpaca source")
		}
	}
	if cfg.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if cfg.Source == SourceJupiter && cfg.Mint == "" {
		return fmt.Errorf("mint is required for the jupiter source")
	}
	if !positiveFinite(cfg.BuyTriggerUSD) {
		return fmt.Errorf("buy-trigger must be > 0")
	}
	if !positiveFinite(cfg.SellTriggerUSD) {
		return fmt.Errorf("sell-trigger must be > 0")
	}
	if !positiveFinite(cfg.SizePct) || cfg.SizePct > 1 {
		return fmt.Errorf("size-pct must be in (0, 1]")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be > 0")
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be > 0")
	}
	if cfg.WindowSize <= 0 {
		return fmt.Errorf("window must be > 0")
	}
	if cfg.QtyPrecision < 0 || cfg.QtyPrecision > 18 {
		return fmt.Errorf("qty-precision must be between 0 and 18")
	}
	if cfg.OrderRetries < 0 {
		return fmt.Errorf("order-retries must be >= 0")
	}
	if !positiveFinite(cfg.MaxNotional) {
		return fmt.Errorf("max-notional must be > 0")
	}
	if cfg.Cooldown < 0 {
		return fmt.Errorf("cooldown must be >= 0")
	}
	if cfg.DecisionsMaxMB < 0 {
		return fmt.Errorf("decisions-max-mb must be >= 0")
	}
	return nil
}

// DecisionsMaxBytes is the rotation threshold for the decisions log.
func (c Config) DecisionsMaxBytes() int64 {
	return int64(c.DecisionsMaxMB) << 20
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
