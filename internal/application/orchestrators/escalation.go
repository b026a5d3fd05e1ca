package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	emailAdapter "carelink/internal/adapters/email"
	"carelink/internal/adapters/servicenow"
	"carelink/internal/domain/checkin"
	"carelink/internal/domain/elder"
	"carelink/internal/domain/escalation"
	"carelink/internal/domain/schedule"
)

// GatewayForEscalation defines the gateway surface needed by the evaluator.
type GatewayForEscalation interface {
	AppendCheckin(ctx context.Context, entry servicenow.NewEntry) error
}

// EscalationDeps holds dependencies for missed-check-in evaluation.
type EscalationDeps struct {
	Gateway GatewayForEscalation
	// Alerts is optional; when set, an alert email is sent to AlertEmail
	// after an escalation is recorded. Alert failures are logged only.
	Alerts     emailAdapter.Sender
	AlertEmail string
}

// EvaluateMissedCheckin decides whether an elder missed a session window and
// records a "missed" log entry when they did. nowTimestamp is the civil
// timestamp written onto a new entry.
// PRE: todaysLogs are scoped to the current civil day
// POST: Returns the outcome; a gateway write happens only for OutcomeEscalated
// INVARIANT: paused elders never produce a write
func EvaluateMissedCheckin(ctx context.Context, deps EscalationDeps, e elder.Elder, todaysLogs []checkin.Entry, window schedule.Window, nowTimestamp string) (escalation.Outcome, error) {
	if e.Paused {
		return escalation.OutcomeSkippedPaused, nil
	}

	name := strings.TrimSpace(e.Name)
	sessionName := strings.ToLower(window.Name)

	var mine []checkin.Entry
	for _, entry := range todaysLogs {
		if strings.TrimSpace(entry.ElderName) == name {
			mine = append(mine, entry)
		}
	}

	// A prior escalation for this window already exists.
	for _, entry := range mine {
		if entry.Status.Kind == checkin.KindMissed && entry.Status.Session == sessionName {
			return escalation.OutcomeSkippedEscalated, nil
		}
	}

	// Any single check-in inside the window suffices. Entries without a
	// usable timestamp never qualify.
	for _, entry := range mine {
		if entry.Status.Kind != checkin.KindCheckedIn {
			continue
		}
		minutes, ok := entry.MinutesOfDay()
		if !ok {
			continue
		}
		if window.Contains(minutes) {
			return escalation.OutcomeSafe, nil
		}
	}

	newEntry := servicenow.NewEntry{
		ElderRef:  e.SysID,
		ElderName: name,
		Status:    checkin.MissedStatus(window.Name),
		Timestamp: nowTimestamp,
	}
	if err := deps.Gateway.AppendCheckin(ctx, newEntry); err != nil {
		return escalation.OutcomeEscalated, fmt.Errorf("record missed entry for %s/%s: %w", name, window.Name, err)
	}

	slog.Info("escalation_recorded", "elder", name, "window", window.Name)
	sendEscalationAlert(ctx, deps, e, window, nowTimestamp)
	return escalation.OutcomeEscalated, nil
}

// sendEscalationAlert notifies the caregiver inbox about a missed session.
// Failures never affect the evaluation outcome or tracking.
func sendEscalationAlert(ctx context.Context, deps EscalationDeps, e elder.Elder, window schedule.Window, nowTimestamp string) {
	if deps.Alerts == nil || deps.AlertEmail == "" {
		return
	}
	req := emailAdapter.SendRequest{
		To:      []string{deps.AlertEmail},
		Subject: fmt.Sprintf("Missed %s check-in: %s", window.Name, e.Name),
		HTML: fmt.Sprintf("<p>%s did not check in during the %s session (%s–%s) as of %s.</p>",
			e.Name, window.Name, schedule.FormatClock(window.Start), schedule.FormatClock(window.End), nowTimestamp),
	}
	if _, err := deps.Alerts.Send(ctx, req); err != nil {
		slog.Error("escalation_alert_failed", "elder", e.Name, "window", window.Name, "error", err.Error())
	}
}
