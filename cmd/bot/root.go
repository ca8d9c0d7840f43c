package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "etfswitch",
	Short: "Momentum/risk ETF switching for a KIS brokerage account",
	Long: `etfswitch ranks a universe of ETFs by momentum, sizes a target book by
inverse risk and trades the account towards it: positions no longer targeted
are sold, newly targeted ones are bought, held targets are left alone.

Configuration is read from configs/config.yaml (or $CONFIG_PATH), .env and
environment variables such as KIS_APP_KEY or TELEGRAM_BOT_TOKEN.`,
	SilenceUsage: true,
}

var configPath string

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to YAML config")
}
