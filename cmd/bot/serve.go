package main

import (
	"log"
	"os"

	"ETFSwitch/internal/scheduler"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rebalance on schedule and answer Telegram commands",
	Long: `Serve registers the rebalance cron task and, when Telegram is configured,
polls for operator commands (/plan, /run, /holdings, /help) until SIGINT or
SIGTERM. Set RUN_ON_START=true to rebalance once immediately.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("[INFO] etfswitch starting...")
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.NewScheduler(ctx, a.service, a.cfg.DryRun)
	if err := sched.Register(a.cfg.Schedule.RebalanceCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	} else {
		log.Println("[WARN] Telegram not configured, commands disabled")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing rebalance now")
		go sched.RunNow()
	}

	log.Printf("[INFO] etfswitch is running (cron %q). Press Ctrl+C to stop.", a.cfg.Schedule.RebalanceCron)
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}
