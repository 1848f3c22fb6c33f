package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/google/uuid"
)

// Sinks are the audit and notification targets of one transaction.
type Sinks struct {
	Audit    AuditSink
	Notifier Notifier
}

// SinkFactory builds sinks bound to a transaction; now stamps every record
// written through them.
type SinkFactory func(tx db.DBTX, now time.Time) Sinks

// SQLiteSinks writes to the audit_log table and the notifications outbox
// inside the caller's transaction, so they roll back with it.
func SQLiteSinks(tx db.DBTX, now time.Time) Sinks {
	return Sinks{
		Audit:    &sqlAuditSink{repo: repository.NewSQLiteAuditRepo(tx), now: now},
		Notifier: &sqlNotifier{repo: repository.NewSQLiteNotificationRepo(tx), now: now},
	}
}

type sqlAuditSink struct {
	repo repository.AuditRepo
	now  time.Time
}

func (s *sqlAuditSink) Record(ctx context.Context, actorID, action, objectRef string, before, after map[string]any) error {
	return s.repo.Append(ctx, &domain.AuditEntry{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		ObjectRef: objectRef,
		Before:    before,
		After:     after,
		CreatedAt: s.now,
	})
}

type sqlNotifier struct {
	repo repository.NotificationRepo
	now  time.Time
}

func (n *sqlNotifier) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, link string) error {
	return n.repo.Create(ctx, &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: n.now,
	})
}

type loggingNotifier struct {
	next   Notifier
	logger *slog.Logger
}

// LoggingNotifier returns a decorator that logs each notification after the
// wrapped notifier accepted it.
func LoggingNotifier(logger *slog.Logger) func(Notifier) Notifier {
	return func(next Notifier) Notifier {
		return &loggingNotifier{next: next, logger: logger}
	}
}

func (n *loggingNotifier) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, link string) error {
	if err := n.next.Notify(ctx, userID, typ, title, message, link); err != nil {
		n.logger.ErrorContext(ctx, "notification_failed", "user_id", userID, "type", string(typ), "error", err.Error())
		return err
	}
	n.logger.InfoContext(ctx, "notification_queued", "user_id", userID, "type", string(typ), "title", title, "link", link)
	return nil
}
