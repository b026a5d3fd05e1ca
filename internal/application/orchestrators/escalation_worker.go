package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carelink/internal/adapters/clock"
	"carelink/internal/adapters/servicenow"
	"carelink/internal/domain/checkin"
	"carelink/internal/domain/elder"
	"carelink/internal/domain/escalation"
	"carelink/internal/domain/schedule"
)

// GatewayForWorker defines the gateway surface needed by a scheduler pass.
type GatewayForWorker interface {
	ListElders(ctx context.Context) ([]elder.Elder, error)
	ListTodaysCheckins(ctx context.Context) ([]checkin.Entry, error)
	AppendCheckin(ctx context.Context, entry servicenow.NewEntry) error
}

// WorkerDeps holds dependencies for the escalation scheduler.
type WorkerDeps struct {
	Gateway  GatewayForWorker
	Clock    clock.Clock
	Registry *schedule.Registry
	Tracker  *escalation.Tracker
	// Alert wiring, passed through to the evaluator.
	Alerts EscalationDeps
}

// WorkerConfig carries the scheduler's tuning knobs.
type WorkerConfig struct {
	// Interval between passes. The next tick is also the only retry
	// mechanism for a failed pass.
	Interval time.Duration
	// RetryFailedWrites leaves a pair unmarked when its escalation write
	// fails, so the next tick inside the grace window retries it. The
	// default (false) marks the pair regardless, which forfeits that day's
	// attempt but cannot flood the store with repeated writes.
	RetryFailedWrites bool
}

// RunEscalationPass executes one evaluation pass across all elders and the
// windows currently in their grace period.
// PRE: Tracker is touched only from the worker goroutine
// POST: Every eligible (window, elder) pair got at most one evaluation
func RunEscalationPass(ctx context.Context, deps WorkerDeps, cfg WorkerConfig) error {
	date, minutes := deps.Clock.Now()
	deps.Tracker.ResetIfNewDay(date)

	active := deps.Registry.InGrace(minutes)
	if len(active) == 0 {
		// Nothing to evaluate outside grace periods; no remote calls.
		return nil
	}

	// One fetch per pass, shared across all per-elder evaluations.
	elders, err := deps.Gateway.ListElders(ctx)
	if err != nil {
		return fmt.Errorf("escalation pass: %w", err)
	}
	logs, err := deps.Gateway.ListTodaysCheckins(ctx)
	if err != nil {
		return fmt.Errorf("escalation pass: %w", err)
	}

	nowTimestamp := fmt.Sprintf("%s %s:00", date, schedule.FormatClock(minutes))
	evalDeps := deps.Alerts
	evalDeps.Gateway = deps.Gateway

	evaluated := 0
	escalated := 0
	for _, e := range elders {
		if !e.Trackable() {
			// Nameless records cannot be matched against logs.
			continue
		}
		for _, window := range active {
			if deps.Tracker.IsProcessed(window.Name, e.Name) {
				continue
			}
			outcome, err := EvaluateMissedCheckin(ctx, evalDeps, e, logs, window, nowTimestamp)
			if err != nil {
				slog.Error("escalation_evaluation_failed", "elder", e.Name, "window", window.Name, "error", err.Error())
				if cfg.RetryFailedWrites {
					continue
				}
			}
			deps.Tracker.MarkProcessed(window.Name, e.Name)
			evaluated++
			if outcome == escalation.OutcomeEscalated && err == nil {
				escalated++
			}
		}
	}

	slog.Info("escalation_pass_complete", "date", date, "time", schedule.FormatClock(minutes),
		"active_windows", len(active), "evaluated", evaluated, "escalated", escalated)
	return nil
}

// StartEscalationWorker starts a background goroutine that runs an
// evaluation pass on a fixed interval until stopCh is closed. Passes never
// overlap: each runs to completion on the worker goroutine before the next
// tick is observed, which is what keeps the tracker single-writer.
func StartEscalationWorker(deps WorkerDeps, cfg WorkerConfig, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := RunEscalationPass(ctx, deps, cfg); err != nil {
					slog.Error("escalation_pass_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("escalation_worker_stopped")
				return
			}
		}
	}()
}
