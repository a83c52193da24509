package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

func loadDotEnvIfPresent(path string) {
	if err := loadDotEnv(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring %s: %v", path, err)
	}
}

// loadDotEnv sets KEY=VALUE pairs from path without overriding variables that
// are already present in the environment.
func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func applyEnv(cfg *Config) error {
	if v := envString("MODE"); v != "" {
		cfg.Mode = Mode(v)
	}
	if v := envString("PRICE_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := envString("SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := envString("APCA_API_KEY_ID"); v != "" {
		cfg.APIKey = v
	}
	if v := envString("APCA_API_SECRET_KEY"); v != "" {
		cfg.APISecret = v
	}
	if v := envString("JUP_API_KEY"); v != "" {
		cfg.JupiterAPIKey = v
	}

	var err error
	if cfg.BuyTriggerUSD, err = envFloat("BUY_TRIGGER_USD", cfg.BuyTriggerUSD); err != nil {
		return err
	}
	if cfg.SellTriggerUSD, err = envFloat("SELL_TRIGGER_USD", cfg.SellTriggerUSD); err != nil {
		return err
	}
	if cfg.SizePct, err = envFloat("BUY_SIZE_PCT", cfg.SizePct); err != nil {
		return err
	}
	if cfg.BatchSize, err = envInt("BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}
	if cfg.PollInterval, err = envDuration("POLL_INTERVAL", cfg.PollInterval); err != nil {
		return err
	}
	return nil
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envFloat(key string, def float64) (float64, error) {
	v := envString(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, def int) (int, error) {
	v := envString(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := envString(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
