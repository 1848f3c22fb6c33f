package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/sla"
	"github.com/alexanderramin/folio/internal/workflow"
	"gopkg.in/yaml.v3"
)

// Policy is the journal's editorial policy: SLA windows, deadline offsets
// and where an accepted manuscript goes.
type Policy struct {
	AcceptTarget    domain.SubmissionStatus         `yaml:"accept_target"`
	SLADays         map[domain.SubmissionStatus]int `yaml:"sla_days"`
	DeadlineOffsets map[domain.DeadlineType]int     `yaml:"deadline_offsets_days"`
}

// DefaultPolicyYAML documents the file format with the built-in values.
const DefaultPolicyYAML = `# folio editorial policy
accept_target: IN_PRODUCTION   # or ACCEPTED to require start_production

# Maximum days a submission may sit in a status before it is overdue.
sla_days:
  NEW: 7
  UNDER_REVIEW: 21
  REVISION: 14
  ACCEPTED: 30
  IN_PRODUCTION: 14

# Days from creation until a deadline of each type is due.
deadline_offsets_days:
  INITIAL_REVIEW: 21
  RE_REVIEW: 14
  REVISION_SUBMIT: 14
  EDITOR_DECISION: 7
  PRODUCTION: 14
  PUBLICATION: 30
`

func DefaultPolicy() Policy {
	return Policy{
		AcceptTarget:    domain.StatusInProduction,
		SLADays:         sla.DefaultTable(),
		DeadlineOffsets: workflow.DefaultDeadlineOffsets(),
	}
}

// LoadPolicy reads path over the defaults. An empty path yields the defaults.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return Policy{}, fmt.Errorf("policy file %s: %w", path, err)
	}
	return p, nil
}

// ParsePolicy decodes YAML over the defaults. Keys in the file replace the
// matching defaults; unknown fields are rejected.
func ParsePolicy(data []byte) (Policy, error) {
	var file Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("parsing policy: %w", err)
	}

	p := DefaultPolicy()
	if file.AcceptTarget != "" {
		p.AcceptTarget = file.AcceptTarget
	}
	for status, days := range file.SLADays {
		p.SLADays[status] = days
	}
	for typ, days := range file.DeadlineOffsets {
		p.DeadlineOffsets[typ] = days
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.AcceptTarget != domain.StatusInProduction && p.AcceptTarget != domain.StatusAccepted {
		return fmt.Errorf("accept_target must be IN_PRODUCTION or ACCEPTED, got %q", p.AcceptTarget)
	}
	if err := sla.Table(p.SLADays).Validate(); err != nil {
		return err
	}
	for typ, days := range p.DeadlineOffsets {
		if !typ.Valid() {
			return fmt.Errorf("unknown deadline type %q", typ)
		}
		if days < 0 {
			return fmt.Errorf("deadline offset for %s must not be negative", typ)
		}
	}
	return nil
}

// WithAcceptTarget overrides the accept target when v is set, e.g. from
// FOLIO_ACCEPT_TARGET.
func (p Policy) WithAcceptTarget(v string) (Policy, error) {
	if v == "" {
		return p, nil
	}
	p.AcceptTarget = domain.SubmissionStatus(v)
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Settings() workflow.Settings {
	return workflow.Settings{AcceptTarget: p.AcceptTarget, DeadlineOffsets: p.DeadlineOffsets}
}

func (p Policy) Table() sla.Table {
	return sla.Table(p.SLADays)
}
