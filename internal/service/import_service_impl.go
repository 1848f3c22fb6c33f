package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/importer"
	"github.com/alexanderramin/folio/internal/workflow"
)

// mastheadLockKey serializes imports so the bootstrap check and the inserts
// see the same directory.
const mastheadLockKey = "masthead"

type importService struct {
	core
}

func NewImportService(conn db.DBTX, uow db.UnitOfWork, locker *db.KeyedLocker, opts ...Option) ImportService {
	return &importService{core: newCore(conn, uow, locker, opts)}
}

// ImportMasthead creates every user in the file in one transaction. An
// empty directory may be bootstrapped by anyone; afterwards only an ADMIN
// may import. Existing IDs abort the whole import.
func (s *importService) ImportMasthead(ctx context.Context, req contract.ImportMastheadRequest) (out *contract.ImportResult, err error) {
	fields := map[string]any{"actor_id": req.ActorID, "path": req.Path}
	ctx, finish := s.instrument(ctx, "import_masthead", fields)
	defer func() { finish(err) }()
	now := s.clock(req.Now)

	schema, err := importer.LoadMasthead(req.Path)
	if err != nil {
		return nil, workflow.Validation(fmt.Sprintf("loading masthead: %v", err), nil)
	}
	if errs := importer.ValidateMasthead(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	users := importer.Convert(schema, now)

	err = db.WithinLockedTx(ctx, s.uow, s.locker, mastheadLockKey, func(ctx context.Context, tx db.DBTX) error {
		st := s.store(tx, now)
		existing, err := st.users.List(ctx)
		if err != nil {
			return err
		}
		actorID := req.ActorID
		if len(existing) > 0 {
			actor, err := st.actor(ctx, req.ActorID)
			if err != nil {
				return err
			}
			if actor.Role != domain.RoleAdmin {
				return workflow.Unauthorized("only an admin may import users",
					map[string]string{"role": string(actor.Role)})
			}
		} else if actorID == "" {
			actorID = "bootstrap"
		}

		taken := make(map[string]bool, len(existing))
		for _, u := range existing {
			taken[u.ID] = true
		}
		for _, u := range users {
			if taken[u.ID] {
				return workflow.Validation(fmt.Sprintf("user %s already exists", u.ID), map[string]string{"id": u.ID})
			}
			if err := st.users.Create(ctx, u); err != nil {
				return fmt.Errorf("creating user %q: %w", u.ID, err)
			}
			after := map[string]any{"name": u.Name, "role": string(u.Role)}
			if err := st.sinks.Audit.Record(ctx, actorID, domain.AuditActionImportUser, domain.UserRef(u.ID), nil, after); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, "masthead", domain.Action(domain.AuditActionImportUser), err, now)
		return nil, err
	}
	fields["imported"] = len(users)
	return &contract.ImportResult{Users: users}, nil
}

func formatValidationErrors(errs []error) error {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, "  - "+e.Error())
	}
	return workflow.Validation(
		fmt.Sprintf("masthead validation failed (%d errors):\n%s", len(errs), strings.Join(lines, "\n")),
		nil,
	)
}
