package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyYAML_MatchesDefaults(t *testing.T) {
	p, err := ParsePolicy([]byte(DefaultPolicyYAML))
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestParsePolicy_OverridesOnlyGivenKeys(t *testing.T) {
	p, err := ParsePolicy([]byte(`
accept_target: ACCEPTED
sla_days:
  UNDER_REVIEW: 30
deadline_offsets_days:
  EDITOR_DECISION: 3
`))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, p.AcceptTarget)
	assert.Equal(t, 30, p.SLADays[domain.StatusUnderReview])
	assert.Equal(t, 7, p.SLADays[domain.StatusNew])
	assert.Equal(t, 3, p.DeadlineOffsets[domain.DeadlineEditorDecision])
	assert.Equal(t, 21, p.DeadlineOffsets[domain.DeadlineInitialReview])

	settings := p.Settings()
	assert.Equal(t, domain.StatusAccepted, settings.AcceptTarget)
	days, ok := p.Table().MaxDays(domain.StatusUnderReview)
	assert.True(t, ok)
	assert.Equal(t, 30, days)
}

func TestParsePolicy_EmptyIsDefault(t *testing.T) {
	p, err := ParsePolicy(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestParsePolicy_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":     "grace_days: 3\n",
		"terminal status":   "sla_days:\n  PUBLISHED: 3\n",
		"unknown status":    "sla_days:\n  LIMBO: 3\n",
		"negative sla":      "sla_days:\n  NEW: -1\n",
		"unknown deadline":  "deadline_offsets_days:\n  COFFEE: 1\n",
		"negative offset":   "deadline_offsets_days:\n  PRODUCTION: -2\n",
		"bad accept target": "accept_target: PUBLISHED\n",
		"malformed":         "sla_days: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sla_days:\n  REVISION: 10\n"), 0o600))
	p, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 10, p.SLADays[domain.StatusRevision])

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWithAcceptTarget(t *testing.T) {
	p, err := DefaultPolicy().WithAcceptTarget("ACCEPTED")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, p.AcceptTarget)

	p, err = DefaultPolicy().WithAcceptTarget("")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProduction, p.AcceptTarget)

	_, err = DefaultPolicy().WithAcceptTarget("REJECTED")
	assert.Error(t, err)
}
