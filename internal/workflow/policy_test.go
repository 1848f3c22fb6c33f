package workflow

import (
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCapability_FollowsLadder(t *testing.T) {
	tests := []struct {
		role   domain.Role
		action domain.Action
		want   bool
	}{
		{domain.RoleEditor, domain.ActionSendToReview, true},
		{domain.RoleEditor, domain.ActionAccept, false},
		{domain.RoleManagingEditor, domain.ActionAccept, true},
		{domain.RoleManagingEditor, domain.ActionPublish, false},
		{domain.RoleEditorInChief, domain.ActionPublish, true},
		{domain.RoleAdmin, domain.ActionPublish, true},
		{domain.RoleAuthor, domain.ActionDeskReject, false},
		{domain.RoleReviewer, domain.ActionRecordDecision, false},
		{domain.RoleSecurityAuditor, domain.ActionRecordDecision, true},
		{domain.RoleSecurityAuditor, domain.ActionReject, false},
		{domain.RoleAdmin, domain.Action("archive"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultCapability(tt.role, tt.action))
		})
	}
}
