package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidateConfigRejectsInvalidValues(t *testing.T) {
	cfg := Default()
	cfg.BuyTriggerUSD = 0

	if err := validate(cfg); err == nil {
		t.Fatalf("expected validation error for buy-trigger")
	}
}

func TestValidateConfigRequiresCredentialsInLiveMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeLive

	if err := validate(cfg); err == nil {
		t.Fatalf("expected validation error for missing credentials")
	}

	cfg.APIKey = "key"
	cfg.APISecret = "secret"
	if err := validate(cfg); err != nil {
		t.Fatalf("expected live config with credentials to be valid, got %v", err)
	}
}

func TestValidateConfigRejectsSizePctAboveOne(t *testing.T) {
	cfg := Default()
	cfg.SizePct = 1.5

	if err := validate(cfg); err == nil {
		t.Fatalf("expected validation error for size-pct")
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("expected defaults to be valid, got %v", err)
	}
}

func TestDecisionsMaxBytes(t *testing.T) {
	cfg := Default()
	if cfg.DecisionsMaxBytes() != 0 {
		t.Fatalf("expected rotation disabled by default, got %d", cfg.DecisionsMaxBytes())
	}
	cfg.DecisionsMaxMB = 5
	if got := cfg.DecisionsMaxBytes(); got != 5<<20 {
		t.Fatalf("expected %d bytes, got %d", 5<<20, got)
	}
	cfg.DecisionsMaxMB = -1
	if err := validate(cfg); err == nil {
		t.Fatalf("expected validation error for decisions-max-mb")
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	configContents := `mode: paper
buyTriggerUSD: 0.5
sellTriggerUSD: 0.43
sizePct: 0.1333
batchSize: 4
pollInterval: 5s
`
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SELL_TRIGGER_USD", "0.7")
	t.Setenv("BATCH_SIZE", "6")

	resetFlags := resetFlagSet(t)
	defer resetFlags()

	os.Args = []string{
		"cmd",
		"--config", configPath,
		"--batch-size", "8",
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.BuyTriggerUSD != 0.5 {
		t.Fatalf("expected buy trigger from file, got %v", cfg.BuyTriggerUSD)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("expected poll interval from file, got %v", cfg.PollInterval)
	}
	if cfg.SellTriggerUSD != 0.7 {
		t.Fatalf("expected sell trigger from env, got %v", cfg.SellTriggerUSD)
	}
	if cfg.BatchSize != 8 {
		t.Fatalf("expected batch size from CLI, got %d", cfg.BatchSize)
	}
	if cfg.SizePct != 0.1333 {
		t.Fatalf("expected size pct from file, got %v", cfg.SizePct)
	}
}

func TestLoadConfigRejectsBadEnvNumber(t *testing.T) {
	t.Setenv("BUY_TRIGGER_USD", "lots")

	resetFlags := resetFlagSet(t)
	defer resetFlags()
	os.Args = []string{"cmd"}

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed BUY_TRIGGER_USD")
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	cases := map[string][]string{
		"a.yaml": {"--config", "a.yaml"},
		"b.yaml": {"-mode", "paper", "-config=b.yaml"},
		"":       {"--mode", "paper"},
	}
	for want, args := range cases {
		if got := configPathFromArgs(args); got != want {
			t.Fatalf("args %v: expected %q, got %q", args, want, got)
		}
	}
}

func resetFlagSet(t *testing.T) func() {
	t.Helper()
	originalArgs := os.Args
	originalCommandLine := flag.CommandLine
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	return func() {
		flag.CommandLine = originalCommandLine
		os.Args = originalArgs
	}
}
