package guard

import "github.com/regulomics/grnscope/pkg/network"

// Command is a user action dispatched through the guard's transition
// function. UI bindings are thin adapters translating raw input events into
// these values; nothing else mutates the selection.
type Command interface{ isCommand() }

// ToggleTF checks or unchecks a single transcription factor.
type ToggleTF struct {
	ID       string
	Selected bool
}

// ToggleGene checks or unchecks a single target gene.
type ToggleGene struct {
	ID       string
	Selected bool
}

// SetThreshold moves the confidence threshold.
type SetThreshold struct {
	Value float64
}

// SelectAll checks every selectable id of the given kind.
type SelectAll struct {
	Kind network.Kind
}

// ClearAll unchecks every id of the given kind.
type ClearAll struct {
	Kind network.Kind
}

// SelectTFWithTargets checks a TF together with all of its direct targets as
// one bulk action (shift-click on a TF node).
type SelectTFWithTargets struct {
	ID string
}

// Confirm accepts the parked change ("proceed anyway").
type Confirm struct{}

// Cancel reverts exactly the parked change.
type Cancel struct{}

// Reset clears both selections, restores the initial threshold, and clears
// the rendered graph.
type Reset struct{}

func (ToggleTF) isCommand()            {}
func (ToggleGene) isCommand()          {}
func (SetThreshold) isCommand()        {}
func (SelectAll) isCommand()           {}
func (ClearAll) isCommand()            {}
func (SelectTFWithTargets) isCommand() {}
func (Confirm) isCommand()             {}
func (Cancel) isCommand()              {}
func (Reset) isCommand()               {}
