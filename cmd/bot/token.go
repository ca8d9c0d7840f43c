package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage brokerage access tokens",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the access token for an account",
	Long: `Store a KIS access token issued elsewhere. The account defaults to
the configured kis.cano.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenSet,
}

var tokenAccount string

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)

	tokenSetCmd.Flags().StringVarP(&tokenAccount, "account", "a", "", "account number (default: kis.cano)")
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	account := tokenAccount
	if account == "" {
		account = cfg.KIS.Account
	}
	if account == "" {
		return fmt.Errorf("no account: pass --account or set kis.cano")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetAccessToken(cmd.Context(), account, args[0]); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Printf("token stored for account %s\n", account)
	return nil
}
