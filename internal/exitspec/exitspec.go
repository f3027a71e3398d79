// Package exitspec classifies application exit codes into human-readable
// specs. The table is loaded once at process start and is read-only for the
// process lifetime.
package exitspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// PositiveFallbackCode classifies exit codes above zero that are
	// unknown to the table.
	PositiveFallbackCode int32 = 255
	// NegativeFallbackCode classifies exit codes at or below zero that are
	// unknown to the table.
	NegativeFallbackCode int32 = -8000
)

// Entry is the static classification of one exit code.
type Entry struct {
	// Code is the application exit code
	Code int32 `json:"code" yaml:"code"`

	// Phrase is the short name of the classification
	Phrase string `json:"phrase" yaml:"phrase"`

	// Issuer identifies who emitted the code
	Issuer string `json:"issuer,omitempty" yaml:"issuer,omitempty"`

	// Causer identifies who caused the exit
	Causer string `json:"causer,omitempty" yaml:"causer,omitempty"`

	// Type of the exit, such as Transient or Permanent
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Stage of the container lifecycle the exit happened in
	Stage string `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Behavior describes the platform reaction
	Behavior string `json:"behavior,omitempty" yaml:"behavior,omitempty"`

	// Reason describes likely causes
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Solution lists suggested user actions
	Solution []string `json:"solution,omitempty" yaml:"solution,omitempty"`
}

// Table is an injected, read-only exit code lookup.
type Table struct {
	entries map[int32]Entry
}

// Load reads the exit spec YAML file at path and builds the lookup table.
func Load(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exit spec file %s: %w", path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse exit spec file %s: %w", path, err)
	}
	return New(entries)
}

// New builds the lookup table from entries. The two fallback codes must be
// present or every unknown code would be left without a classification.
func New(entries []Entry) (*Table, error) {
	table := Table{entries: make(map[int32]Entry, len(entries))}
	for _, entry := range entries {
		table.entries[entry.Code] = entry
	}
	for _, code := range []int32{PositiveFallbackCode, NegativeFallbackCode} {
		if _, ok := table.entries[code]; !ok {
			return nil, fmt.Errorf("exit spec is missing the fallback entry for code %d", code)
		}
	}
	return &table, nil
}

// Resolve returns the classification of code. A nil code means the job has
// not completed and resolves to nil; any non-nil code resolves to a non-nil
// entry, falling back to the positive or negative fallback bucket with the
// code field overwritten to the actual code.
func (table *Table) Resolve(code *int32) *Entry {
	if code == nil {
		return nil
	}
	if entry, ok := table.entries[*code]; ok {
		return &entry
	}
	var fallback Entry
	if *code > 0 {
		fallback = table.entries[PositiveFallbackCode]
	} else {
		fallback = table.entries[NegativeFallbackCode]
	}
	fallback.Code = *code
	return &fallback
}
