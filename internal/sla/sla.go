// Package sla computes dwell time and overdue state for submissions and
// deadlines. Windows are rolling days counted from the last status change.
package sla

import (
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

const day = 24 * time.Hour

// Table maps a status to the maximum days a submission may stay in it.
// Statuses missing from the table never become overdue.
type Table map[domain.SubmissionStatus]int

// DefaultTable returns the standard SLA windows.
func DefaultTable() Table {
	return Table{
		domain.StatusNew:          7,
		domain.StatusUnderReview:  21,
		domain.StatusRevision:     14,
		domain.StatusAccepted:     30,
		domain.StatusInProduction: 14,
	}
}

// Validate rejects terminal statuses and negative windows.
func (t Table) Validate() error {
	for status, days := range t {
		if !status.Valid() {
			return fmt.Errorf("unknown status %q in SLA table", status)
		}
		if status.IsTerminal() {
			return fmt.Errorf("terminal status %s cannot carry an SLA", status)
		}
		if days < 0 {
			return fmt.Errorf("SLA for %s must not be negative", status)
		}
	}
	return nil
}

// MaxDays returns the window for status.
func (t Table) MaxDays(status domain.SubmissionStatus) (int, bool) {
	if status.IsTerminal() {
		return 0, false
	}
	days, ok := t[status]
	return days, ok
}

// DaysSince returns whole elapsed days, floored and never negative.
func DaysSince(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}
	return int(now.Sub(from) / day)
}

// State is the derived SLA state of a submission.
type State struct {
	DaysInCurrentStatus int
	IsOverdue           bool
}

// Evaluate derives the SLA state of sub at now. Overdue is sticky: once set
// it stays set until a status change resets the window, even if the table
// has since been relaxed.
func (t Table) Evaluate(sub domain.Submission, now time.Time) State {
	days := DaysSince(sub.LastStatusChangeAt, now)
	overdue := sub.IsOverdue
	if limit, ok := t.MaxDays(sub.Status); ok && days > limit {
		overdue = true
	}
	return State{DaysInCurrentStatus: days, IsOverdue: overdue}
}

// Apply writes the evaluated state onto sub and reports whether it changed.
func (t Table) Apply(sub *domain.Submission, now time.Time) bool {
	st := t.Evaluate(*sub, now)
	changed := st.DaysInCurrentStatus != sub.DaysInCurrentStatus || st.IsOverdue != sub.IsOverdue
	sub.DaysInCurrentStatus = st.DaysInCurrentStatus
	sub.IsOverdue = st.IsOverdue
	return changed
}

// RefreshDeadline recomputes the cached overdue flag of d. It reports whether
// the cache changed and whether the deadline just became overdue.
func RefreshDeadline(d *domain.Deadline, now time.Time) (changed, newlyOverdue bool) {
	overdue := d.Overdue(now)
	if overdue == d.IsOverdue {
		return false, false
	}
	d.IsOverdue = overdue
	return true, overdue
}
