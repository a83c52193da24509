package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"handbot/internal/broker"
	"handbot/internal/config"
	"handbot/internal/engine"
	"handbot/internal/md"
	"handbot/internal/metrics"
	"handbot/internal/state"
)

const reconcileInterval = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	log.Printf("fixed triggers: buy=$%.4f sell=$%.4f size=%.2f%% batch=%d",
		cfg.BuyTriggerUSD, cfg.SellTriggerUSD, cfg.SizePct*100, cfg.BatchSize)
	log.Printf("jupiter api key loaded: %v", cfg.JupiterAPIKey != "")

	runID := generateRunID()
	decisions, err := engine.NewDecisionLogger(cfg.DecisionsPath, runID, engine.WithMaxBytes(cfg.DecisionsMaxBytes()))
	if err != nil {
		log.Fatalf("decision logger error: %v", err)
	}
	defer func() {
		if err := decisions.Close(); err != nil {
			log.Printf("failed to close decision logger: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		log.Fatalf("metrics error: %v", err)
	}

	store := state.NewStore(cfg.Symbol)
	executor, reader := newExecutor(cfg)
	source := newSource(cfg)
	engineImpl := engine.New(cfg, executor, store, decisions, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Printf("shutdown signal received")
		cancel()
	}()

	if cfg.HTTPAddr != "" {
		srv := newServer(cfg.HTTPAddr, registry, store)
		go serve(ctx, srv)
	}

	if reader != nil {
		go engine.ReconcileLoop(ctx, reader, store, cfg.Symbol, reconcileInterval)
	}

	log.Printf("starting bot run=%s mode=%s source=%s symbol=%s executor=%s interval=%s",
		runID, cfg.Mode, cfg.Source, cfg.Symbol, executor.Name(), cfg.PollInterval)
	if err := engineImpl.Run(ctx, source); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("price loop stopped: %v", err)
	}

	log.Printf("bot shutdown complete")
}

func newExecutor(cfg config.Config) (broker.Executor, engine.AccountReader) {
	if cfg.Mode == config.ModeLive {
		client := broker.NewAlpaca(cfg.APIKey, cfg.APISecret, cfg.AlpacaBaseURL, cfg.QtyPrecision)
		return client, client
	}
	return broker.NewPaper(cfg.QtyPrecision), nil
}

func newSource(cfg config.Config) md.Source {
	if cfg.Source == config.SourceAlpaca {
		return md.NewAlpacaSource(cfg.APIKey, cfg.APISecret, cfg.AlpacaDataURL, cfg.Symbol)
	}
	return md.NewJupiterSource(cfg.JupiterPriceURL, cfg.Mint, cfg.Symbol, cfg.JupiterAPIKey)
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	return timestamp + "-" + uuid.New().String()[:8]
}
