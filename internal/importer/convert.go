package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// Convert turns a validated masthead into users stamped with now. Missing
// roles take the default role; missing emails are derived from the default
// email domain when one is set.
func Convert(schema *MastheadImport, now time.Time) []*domain.User {
	var defaults DefaultsImport
	if schema.Defaults != nil {
		defaults = *schema.Defaults
	}

	users := make([]*domain.User, 0, len(schema.Users))
	for _, u := range schema.Users {
		email := strings.TrimSpace(u.Email)
		if email == "" && defaults.EmailDomain != "" {
			email = strings.ToLower(u.ID) + "@" + defaults.EmailDomain
		}
		users = append(users, &domain.User{
			ID:        strings.TrimSpace(u.ID),
			Name:      strings.TrimSpace(u.Name),
			Email:     email,
			Role:      normalizeRole(domain.CoalesceStr(u.Role, defaults.Role)),
			CreatedAt: now.UTC().Truncate(time.Second),
		})
	}
	return users
}
