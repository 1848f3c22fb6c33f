package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/domain"
)

// ValidateMasthead checks the masthead before conversion and returns every
// problem found rather than stopping at the first.
func ValidateMasthead(schema *MastheadImport) []error {
	var errs []error

	defaultRole := ""
	if d := schema.Defaults; d != nil {
		if d.Role != "" && !domain.ValidRoles[normalizeRole(d.Role)] {
			errs = append(errs, fmt.Errorf("defaults.role: unknown role %q", d.Role))
		}
		if d.EmailDomain != "" && strings.Contains(d.EmailDomain, "@") {
			errs = append(errs, fmt.Errorf("defaults.email_domain: %q must not contain @", d.EmailDomain))
		}
		defaultRole = d.Role
	}

	if len(schema.Users) == 0 {
		errs = append(errs, fmt.Errorf("users: at least one user is required"))
	}

	seen := make(map[string]int)
	for i, u := range schema.Users {
		prefix := fmt.Sprintf("users[%d]", i)
		if strings.TrimSpace(u.ID) == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if first, dup := seen[u.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id %q duplicates users[%d]", prefix, u.ID, first))
		} else {
			seen[u.ID] = i
		}
		if strings.TrimSpace(u.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		role := domain.CoalesceStr(u.Role, defaultRole)
		switch {
		case role == "":
			errs = append(errs, fmt.Errorf("%s.role is required (no default role set)", prefix))
		case !domain.ValidRoles[normalizeRole(role)]:
			errs = append(errs, fmt.Errorf("%s.role: unknown role %q", prefix, role))
		}
		if u.Email != "" && !strings.Contains(u.Email, "@") {
			errs = append(errs, fmt.Errorf("%s.email: %q is not an address", prefix, u.Email))
		}
	}

	return errs
}

func normalizeRole(r string) domain.Role {
	return domain.Role(strings.ToUpper(strings.TrimSpace(r)))
}
