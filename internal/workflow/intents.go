package workflow

import (
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// AuditIntent asks the executor to write one audit record.
type AuditIntent struct {
	ActorID   string
	Action    string
	ObjectRef string
	Before    map[string]any
	After     map[string]any
}

// DeadlineIntent asks the executor to schedule a new deadline.
type DeadlineIntent struct {
	Type       domain.DeadlineType
	RoundNo    int
	AssignedTo string
	DueDate    time.Time
}

// DeadlineFilter selects open deadlines of a submission. Empty fields match anything.
type DeadlineFilter struct {
	Types      []domain.DeadlineType
	AssignedTo string
	RoundNo    int
}

// Matches reports whether an open deadline is selected by the filter.
func (f DeadlineFilter) Matches(d *domain.Deadline) bool {
	if !d.IsOpen() {
		return false
	}
	if f.AssignedTo != "" && d.AssignedTo != f.AssignedTo {
		return false
	}
	if f.RoundNo != 0 && d.RoundNo != f.RoundNo {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if d.Type == t {
			return true
		}
	}
	return false
}

// NotificationIntent targets either a single user or every user holding Role.
type NotificationIntent struct {
	UserID  string
	Role    domain.Role
	Type    domain.NotificationType
	Title   string
	Message string
	Link    string
}

// Intents are the declarative side effects of a workflow step, executed in
// order: complete, supersede, create, notify, audit.
type Intents struct {
	CompleteDeadlines  []DeadlineFilter
	SupersedeDeadlines []DeadlineFilter
	CreateDeadlines    []DeadlineIntent
	Notifications      []NotificationIntent
	Audit              []AuditIntent
}

// Merge appends other's intents after i's.
func (i *Intents) Merge(other Intents) {
	i.CompleteDeadlines = append(i.CompleteDeadlines, other.CompleteDeadlines...)
	i.SupersedeDeadlines = append(i.SupersedeDeadlines, other.SupersedeDeadlines...)
	i.CreateDeadlines = append(i.CreateDeadlines, other.CreateDeadlines...)
	i.Notifications = append(i.Notifications, other.Notifications...)
	i.Audit = append(i.Audit, other.Audit...)
}

// Empty reports whether nothing needs executing.
func (i Intents) Empty() bool {
	return len(i.CompleteDeadlines) == 0 && len(i.SupersedeDeadlines) == 0 &&
		len(i.CreateDeadlines) == 0 && len(i.Notifications) == 0 && len(i.Audit) == 0
}
