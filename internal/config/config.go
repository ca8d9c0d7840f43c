package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID"`
	} `yaml:"telegram" envconfig:"TELEGRAM"`
	KIS struct {
		BaseURL     string `yaml:"base_url" envconfig:"BASE_URL"`
		Account     string `yaml:"cano" envconfig:"CANO"`
		ProductCode string `yaml:"product_code" envconfig:"PRODUCT_CODE"`
		AppKey      string `yaml:"app_key" envconfig:"APP_KEY"`
		AppSecret   string `yaml:"app_secret" envconfig:"APP_SECRET"`
		BalanceRows []int  `yaml:"balance_rows" envconfig:"BALANCE_ROWS"`
	} `yaml:"kis" envconfig:"KIS"`
	DataSource struct {
		Provider     string `yaml:"provider" envconfig:"PROVIDER"`
		SymbolSuffix string `yaml:"symbol_suffix" envconfig:"SYMBOL_SUFFIX"`
	} `yaml:"data_source" envconfig:"DATA_SOURCE"`
	Allocation struct {
		SlotCapital     float64 `yaml:"slot_capital" envconfig:"SLOT_CAPITAL"`
		PrefetchWorkers int     `yaml:"prefetch_workers" envconfig:"PREFETCH_WORKERS"`
	} `yaml:"allocation" envconfig:"ALLOCATION"`
	Schedule struct {
		RebalanceCron string `yaml:"rebalance_cron" envconfig:"REBALANCE_CRON"`
	} `yaml:"schedule" envconfig:"SCHEDULE"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database" envconfig:"DATABASE"`
	Proxy  string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
	DryRun bool   `yaml:"dry_run" envconfig:"DRY_RUN"`
}

const (
	ProviderNaver = "naver"
	ProviderYahoo = "yahoo"
)

// Load reads config from a YAML file, then .env, then environment variable overrides.
// Nested keys are prefixed by their section, e.g. KIS_APP_KEY or TELEGRAM_CHAT_ID;
// a bare SQLITE_PATH is also accepted.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.KIS.BaseURL == "" {
		c.KIS.BaseURL = "https://openapi.koreainvestment.com:9443"
	}
	if c.KIS.ProductCode == "" {
		c.KIS.ProductCode = "01"
	}
	if len(c.KIS.BalanceRows) == 0 {
		c.KIS.BalanceRows = []int{0, 6, 16}
	}
	c.DataSource.Provider = strings.ToLower(strings.TrimSpace(c.DataSource.Provider))
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderNaver
	}
	if c.DataSource.Provider == ProviderYahoo && c.DataSource.SymbolSuffix == "" {
		c.DataSource.SymbolSuffix = ".KS"
	}
	if c.Allocation.SlotCapital == 0 {
		c.Allocation.SlotCapital = 10_000_000
	}
	if c.Allocation.PrefetchWorkers == 0 {
		c.Allocation.PrefetchWorkers = 4
	}
	if c.Schedule.RebalanceCron == "" {
		c.Schedule.RebalanceCron = "0 10 9 * * 1"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/etf_switch.db"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.KIS.Account == "" {
		return fmt.Errorf("kis.cano is required")
	}
	if c.KIS.AppKey == "" || c.KIS.AppSecret == "" {
		return fmt.Errorf("kis.app_key and kis.app_secret are required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.DataSource.Provider {
	case ProviderNaver, ProviderYahoo:
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Allocation.SlotCapital <= 0 {
		return fmt.Errorf("allocation.slot_capital must be positive")
	}
	if c.Allocation.PrefetchWorkers < 1 {
		return fmt.Errorf("allocation.prefetch_workers must be at least 1")
	}
	for _, r := range c.KIS.BalanceRows {
		if r < 0 {
			return fmt.Errorf("kis.balance_rows: negative row %d", r)
		}
	}
	return nil
}

// TelegramEnabled reports whether notifications go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}
