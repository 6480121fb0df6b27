// Package model defines the core data types for regulatory-network viewing.
package model

import "fmt"

// EdgeRecord is a single regulator->target edge from the input file.
// Records are immutable once loaded.
type EdgeRecord struct {
	Regulator     string  // systematic TF id
	Target        string  // systematic gene id
	RegulatorName string  // optional common name, "" when absent
	TargetName    string  // optional common name, "" when absent
	Confidence    float64 // edge weight, expected in [0,1]
}

// Role classifies a rendered node by how it participates in the subgraph.
// It is derived from set membership at render time, never stored.
type Role int

const (
	RoleTF Role = iota
	RoleTarget
	RoleBoth // appears both as a selected regulator and as a target
)

// String returns a human-readable label for the role.
func (r Role) String() string {
	switch r {
	case RoleTF:
		return "TF"
	case RoleTarget:
		return "Target"
	case RoleBoth:
		return "TF+Target"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Glyph returns the single-cell marker used for the node in terminal views.
func (r Role) Glyph() string {
	switch r {
	case RoleTF:
		return "◆"
	case RoleBoth:
		return "◈"
	default:
		return "●"
	}
}

// Outcome reports what a render attempt produced.
type Outcome int

const (
	OutcomeNotReady Outcome = iota // one or both selections empty
	OutcomeEmpty                   // ready, but zero edges pass the threshold
	OutcomeRendered
)

// String returns a human-readable label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotReady:
		return "not-ready"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRendered:
		return "rendered"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// SpecialTF is a pre-declared regulator that has no edges in the data but
// should still appear (disabled) in the TF checklist.
type SpecialTF struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}
