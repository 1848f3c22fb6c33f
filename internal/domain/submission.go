package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Submission struct {
	ID               string
	Code             string
	Title            string
	Abstract         string
	Keywords         []string
	AuthorID         string
	HandlingEditorID string
	Status           SubmissionStatus
	SecurityLevel    SecurityLevel
	CurrentRound     int
	RevisionNote     string

	// SLA state, owned by the deadline tracker.
	LastStatusChangeAt  time.Time
	DaysInCurrentStatus int
	IsOverdue           bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields an author must supply.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if s.AuthorID == "" {
		return fmt.Errorf("author is required")
	}
	if !s.SecurityLevel.Valid() {
		return fmt.Errorf("unknown security level %q", s.SecurityLevel)
	}
	return nil
}

// CanAuthorEdit reports whether the owning author may change the manuscript.
func (s *Submission) CanAuthorEdit(userID string) bool {
	if userID != s.AuthorID {
		return false
	}
	return s.Status == StatusNew || s.Status == StatusRevision
}

// ChangeStatus moves the submission to next and restarts its SLA window.
func (s *Submission) ChangeStatus(next SubmissionStatus, now time.Time) {
	s.Status = next
	s.LastStatusChangeAt = now
	s.DaysInCurrentStatus = 0
	s.IsOverdue = false
	s.UpdatedAt = now
}

// Snapshot is the compact view written to the audit log.
func (s *Submission) Snapshot() map[string]any {
	return map[string]any{
		"status":         string(s.Status),
		"round":          s.CurrentRound,
		"security_level": string(s.SecurityLevel),
	}
}

// NormalizeKeywords trims, lowercases and de-duplicates a keyword list.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SubmissionCode formats the human-facing code, e.g. JRN-2026-0007.
func SubmissionCode(year, seq int) string {
	return fmt.Sprintf("JRN-%d-%04d", year, seq)
}
