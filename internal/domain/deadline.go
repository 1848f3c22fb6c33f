package domain

import (
	"fmt"
	"time"
)

type Deadline struct {
	ID           string
	SubmissionID string
	RoundNo      int
	Type         DeadlineType
	AssignedTo   string
	DueDate      time.Time
	CompletedAt  *time.Time
	CompletedBy  string
	SupersededAt *time.Time
	IsOverdue    bool
	CreatedAt    time.Time
}

// IsOpen reports whether the deadline is neither completed nor superseded.
func (d *Deadline) IsOpen() bool {
	return d.CompletedAt == nil && d.SupersededAt == nil
}

// Overdue derives the overdue flag at now. The cached IsOverdue field is
// refreshed from this on every tracker tick.
func (d *Deadline) Overdue(now time.Time) bool {
	return d.IsOpen() && d.DueDate.Before(now)
}

func (d *Deadline) Complete(by string, now time.Time) error {
	if d.SupersededAt != nil {
		return fmt.Errorf("deadline was superseded")
	}
	if d.CompletedAt != nil {
		return fmt.Errorf("deadline already completed")
	}
	d.CompletedAt = &now
	d.CompletedBy = by
	d.IsOverdue = false
	return nil
}

// Supersede closes an open deadline that no longer applies. No-op otherwise.
func (d *Deadline) Supersede(now time.Time) bool {
	if !d.IsOpen() {
		return false
	}
	d.SupersededAt = &now
	d.IsOverdue = false
	return true
}
