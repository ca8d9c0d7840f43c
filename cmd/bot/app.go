package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"ETFSwitch/internal/broker"
	"ETFSwitch/internal/collector"
	"ETFSwitch/internal/config"
	"ETFSwitch/internal/notifier"
	"ETFSwitch/internal/rebalance"
	"ETFSwitch/internal/recorder"
	"ETFSwitch/internal/store"
)

// app holds the components built from configuration for one process.
type app struct {
	cfg      *config.Config
	store    *store.SQLiteStore
	recorder recorder.Recorder
	telegram *notifier.TelegramNotifier
	service  *rebalance.Service
}

func loadConfig(validate bool) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation: %w", err)
		}
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return store.Open(cfg.Database.SQLitePath)
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.Provider == config.ProviderYahoo {
		return collector.NewYahooFetcher(cfg.DataSource.SymbolSuffix, cfg.Proxy)
	}
	return collector.NewNaverFetcher(cfg.Proxy)
}

// newApp wires the rebalance service. out overrides the notification sink;
// when nil, Telegram is used if configured and the log otherwise.
func newApp(out rebalance.Notifier) (*app, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: st}

	var rec recorder.Recorder
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		rec = recorder.NewNoopRecorder()
	} else {
		rec = sr
	}
	a.recorder = rec

	if cfg.TelegramEnabled() {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}
	if out == nil {
		if a.telegram != nil {
			out = &notifier.Retrying{Telegram: a.telegram, MaxRetries: 3}
		} else {
			out = notifier.Console{}
		}
	}

	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	planner := rebalance.NewPlanner(fetcher, cfg.Allocation.PrefetchWorkers)

	kis := broker.NewKIS(broker.KISConfig{
		BaseURL:     cfg.KIS.BaseURL,
		Account:     cfg.KIS.Account,
		ProductCode: cfg.KIS.ProductCode,
		AppKey:      cfg.KIS.AppKey,
		AppSecret:   cfg.KIS.AppSecret,
		BalanceRows: cfg.KIS.BalanceRows,
	}, cfg.Proxy)

	a.service = rebalance.NewService(cfg.KIS.Account, cfg.Allocation.SlotCapital, kis, st, st, planner, out, rec)
	return a, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
	if err := a.store.Close(); err != nil {
		log.Printf("[WARN] close store: %v", err)
	}
}

// stdoutNotifier prints notifications for interactive commands.
type stdoutNotifier struct{}

func (stdoutNotifier) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintln(os.Stdout, text+"\n")
	return err
}
