package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"ETFSwitch/internal/notifier"
	"ETFSwitch/internal/rebalance"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron rebalance task and operator commands.
type Scheduler struct {
	Cron    *cron.Cron
	Service *rebalance.Service
	DryRun  bool
	Ctx     context.Context

	// running guards against overlapping rebalances.
	running sync.Mutex
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, svc *rebalance.Service, dryRun bool) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Service: svc,
		DryRun:  dryRun,
		Ctx:     ctx,
	}
}

// Register adds the periodic rebalance task.
func (s *Scheduler) Register(rebalanceCron string) error {
	if _, err := s.Cron.AddFunc(rebalanceCron, s.rebalanceTask); err != nil {
		return fmt.Errorf("register rebalance task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the rebalance immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.rebalanceTask()
}

func (s *Scheduler) rebalanceTask() {
	s.rebalance(s.Ctx, s.DryRun)
}

// rebalance runs one pass unless another is in progress. It reports whether it ran.
func (s *Scheduler) rebalance(ctx context.Context, dryRun bool) bool {
	if !s.running.TryLock() {
		log.Println("[WARN] rebalance already running, skipped")
		return false
	}
	defer s.running.Unlock()

	log.Printf("[INFO] running rebalance task (dry run %v)", dryRun)
	if _, err := s.Service.Run(ctx, dryRun); err != nil {
		log.Printf("[ERROR] rebalance task: %v", err)
	}
	return true
}

// HandleCommand processes a user command and returns a reply. Run results
// are delivered by the service's own notifications, so those commands reply
// only when they could not start.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	cmd := strings.Fields(command)
	if len(cmd) == 0 {
		return helpText
	}
	// Commands may be addressed as /run@botname in groups.
	name, _, _ := strings.Cut(cmd[0], "@")

	switch name {
	case "/plan":
		if !s.rebalance(ctx, true) {
			return "⏳ A rebalance is already running."
		}
		return ""
	case "/run":
		if !s.rebalance(ctx, s.DryRun) {
			return "⏳ A rebalance is already running."
		}
		return ""
	case "/holdings":
		holdings, err := s.Service.Holdings(ctx)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatHoldings(holdings)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /plan - compute the target book without trading\n" +
	"• /run - rebalance now\n" +
	"• /holdings - list current positions\n" +
	"• /help - this message"
