package rebalance

import (
	"context"
	"fmt"
	"log"
	"time"

	"ETFSwitch/internal/id"
	"ETFSwitch/internal/model"
	"ETFSwitch/internal/notifier"
	"ETFSwitch/internal/recorder"
)

// CandidateSource lists the tradable universe.
type CandidateSource interface {
	ListCandidates(ctx context.Context) ([]model.Candidate, error)
}

// TokenSource looks up the brokerage access token of an account.
type TokenSource interface {
	AccessToken(ctx context.Context, account string) (string, error)
}

// Notifier delivers progress messages to the operator.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Report summarizes one rebalance run.
type Report struct {
	RunID string
	Plan  *Plan
	Sells []model.OrderResult
	Buys  []model.OrderResult
}

// Service runs a complete rebalance: it reads the account, plans the target
// book, submits sells before buys and reports every step.
type Service struct {
	Account     string
	SlotCapital float64

	Broker     Broker
	Candidates CandidateSource
	Tokens     TokenSource
	Planner    *Planner
	Executor   *Executor
	Notifier   Notifier
	Recorder   recorder.Recorder
	Now        func() time.Time
}

// NewService wires a Service. rec may be nil.
func NewService(account string, slotCapital float64, broker Broker, candidates CandidateSource, tokens TokenSource,
	planner *Planner, n Notifier, rec recorder.Recorder) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		Account:     account,
		SlotCapital: slotCapital,
		Broker:      broker,
		Candidates:  candidates,
		Tokens:      tokens,
		Planner:     planner,
		Executor:    NewExecutor(broker),
		Notifier:    n,
		Recorder:    rec,
		Now:         time.Now,
	}
}

// Run executes one rebalance. With dryRun the plan is reported but no order
// is submitted. Any failure before order submission ends the run, is notified
// and returned.
func (s *Service) Run(ctx context.Context, dryRun bool) (*Report, error) {
	report := &Report{RunID: id.New()}
	started := s.Now()
	log.Printf("[INFO] rebalance %s started (dry run %v)", report.RunID, dryRun)
	s.notify(ctx, notifier.FormatRunStart(dryRun))

	plan, err := s.plan(ctx)
	if err != nil {
		log.Printf("[ERROR] rebalance %s: %v", report.RunID, err)
		s.notify(ctx, notifier.FormatError(err))
		s.recordRun(&recorder.RunRecord{RunID: report.RunID, StartedAt: started, DryRun: dryRun, Error: err.Error()})
		return report, err
	}
	report.Plan = plan

	s.recordRun(&recorder.RunRecord{
		RunID:     report.RunID,
		StartedAt: started,
		Capital:   plan.Capital,
		Limit:     plan.Limit,
		DryRun:    dryRun,
		Book:      plan.Book,
		Sells:     len(plan.Sells),
		Buys:      len(plan.Buys),
	})
	s.notify(ctx, notifier.FormatPlan(plan.Capital, plan.Limit, plan.Book))

	if dryRun {
		s.notify(ctx, notifier.FormatIntents(model.SideSell, plan.Sells))
		s.notify(ctx, notifier.FormatIntents(model.SideBuy, plan.Buys))
		return report, nil
	}

	report.Sells = s.execute(ctx, report.RunID, model.SideSell, plan.Sells)
	report.Buys = s.execute(ctx, report.RunID, model.SideBuy, plan.Buys)
	log.Printf("[INFO] rebalance %s finished: %d sells, %d buys", report.RunID, len(report.Sells), len(report.Buys))
	return report, nil
}

// Holdings authorizes against the broker and returns the current positions.
func (s *Service) Holdings(ctx context.Context) ([]model.Holding, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	return s.Broker.Holdings(ctx)
}

func (s *Service) authorize(ctx context.Context) error {
	token, err := s.Tokens.AccessToken(ctx, s.Account)
	if err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	s.Broker.Authorize(token)
	return nil
}

func (s *Service) plan(ctx context.Context) (*Plan, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	capital, err := s.Broker.AvailableCapital(ctx)
	if err != nil {
		return nil, fmt.Errorf("available capital: %w", err)
	}
	s.notify(ctx, notifier.FormatCapital(capital))

	holdings, err := s.Broker.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("holdings: %w", err)
	}
	candidates, err := s.Candidates.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidates: %w", err)
	}
	return s.Planner.Plan(ctx, candidates, holdings, capital, s.SlotCapital)
}

func (s *Service) execute(ctx context.Context, runID string, side model.Side, intents []model.OrderIntent) []model.OrderResult {
	results := s.Executor.Execute(ctx, intents)
	for i := range results {
		if err := s.Recorder.RecordOrder(&recorder.OrderEvent{RunID: runID, Result: results[i]}); err != nil {
			log.Printf("[ERROR] record order: %v", err)
		}
	}
	s.notify(ctx, notifier.FormatOrders(side, results))
	return results
}

func (s *Service) recordRun(run *recorder.RunRecord) {
	if err := s.Recorder.RecordRun(run); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(ctx, text); err != nil {
		log.Printf("[WARN] notify: %v", err)
	}
}
