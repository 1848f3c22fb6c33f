// Package importer loads a journal masthead (users and their roles) from a
// YAML or JSON file.
package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MastheadImport is the top-level structure of a masthead file.
type MastheadImport struct {
	Defaults *DefaultsImport `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Users    []UserImport    `yaml:"users" json:"users"`
}

// DefaultsImport holds values that cascade to users that omit them.
type DefaultsImport struct {
	Role        string `yaml:"role,omitempty" json:"role,omitempty"`
	EmailDomain string `yaml:"email_domain,omitempty" json:"email_domain,omitempty"`
}

type UserImport struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	Role  string `yaml:"role,omitempty" json:"role,omitempty"`
}

// LoadMasthead reads a masthead file. JSON is accepted as a YAML subset.
func LoadMasthead(path string) (*MastheadImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMasthead(data)
}

// ParseMasthead decodes a masthead document, rejecting unknown keys.
func ParseMasthead(data []byte) (*MastheadImport, error) {
	var schema MastheadImport
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing masthead: %w", err)
	}
	return &schema, nil
}
