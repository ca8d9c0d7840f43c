package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rebalance the account once",
	Long: `Run one full rebalance: read capital and holdings, rank the candidate
universe, then submit sells followed by buys. Every step is reported through
Telegram when configured.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the target book and order intents without trading",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

var runDryRun bool

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)

	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "report the plan but submit no orders")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	dryRun := runDryRun || a.cfg.DryRun
	_, err = a.service.Run(ctx, dryRun)
	return err
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(stdoutNotifier{})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.service.Run(ctx, true)
	if err != nil {
		return err
	}
	log.Printf("[INFO] plan %s: %d sells, %d buys", report.RunID, len(report.Plan.Sells), len(report.Plan.Buys))
	return nil
}
