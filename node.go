package slotstore

import (
	"maps"
	"slices"
	"time"
)

// Node is the payload stored at a position.
//
// Only Parameters (and the Position/BaseValue fields) carry meaning for the
// store; everything else is passed through untouched. A node is published as
// a whole: the store keeps its own deep copy and hands out deep copies.
type Node struct {
	Position      int               `json:"position"`
	BaseValue     float64           `json:"base_value"`
	SemanticIndex map[string]string `json:"semantic_index,omitempty"`
	Attributes    Attributes        `json:"attributes"`
}

// Attributes is the attribute bundle of a node.
type Attributes struct {
	// Properties are free-form string attributes.
	Properties map[string]string `json:"properties,omitempty"`
	// Parameters are numeric attributes; ScanByAttribute filters on them.
	Parameters map[string]float64 `json:"parameters,omitempty"`
	State      State              `json:"state"`
	Dynamics   Dynamics           `json:"dynamics"`
}

// State holds the activity flags of a node.
type State struct {
	Active       bool      `json:"active"`
	LastTouched  time.Time `json:"last_touched"`
	UsageCount   uint64    `json:"usage_count"`
	ContextStack []string  `json:"context_stack,omitempty"`
}

// Dynamics describes how a node evolves.
type Dynamics struct {
	EvolutionRate      float64   `json:"evolution_rate"`
	StabilityIndex     float64   `json:"stability_index"`
	InteractionHistory []string  `json:"interaction_history,omitempty"`
	LearningHistory    []float64 `json:"learning_history,omitempty"`
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	out.SemanticIndex = maps.Clone(n.SemanticIndex)
	out.Attributes.Properties = maps.Clone(n.Attributes.Properties)
	out.Attributes.Parameters = maps.Clone(n.Attributes.Parameters)
	out.Attributes.State.ContextStack = slices.Clone(n.Attributes.State.ContextStack)
	out.Attributes.Dynamics.InteractionHistory = slices.Clone(n.Attributes.Dynamics.InteractionHistory)
	out.Attributes.Dynamics.LearningHistory = slices.Clone(n.Attributes.Dynamics.LearningHistory)
	return out
}

// Parameter returns the named numeric parameter.
func (n Node) Parameter(name string) (float64, bool) {
	v, ok := n.Attributes.Parameters[name]
	return v, ok
}

// Property returns the named string property.
func (n Node) Property(name string) (string, bool) {
	v, ok := n.Attributes.Properties[name]
	return v, ok
}

// Touched returns a copy of n marked as used at now.
func (n Node) Touched(now time.Time) Node {
	out := n.Clone()
	out.Attributes.State.Active = true
	out.Attributes.State.LastTouched = now
	out.Attributes.State.UsageCount++
	return out
}

// inRange reports whether the named parameter lies in [lo, hi].
// NaN never matches.
func (n Node) inRange(name string, lo, hi float64) bool {
	v, ok := n.Parameter(name)
	return ok && v >= lo && v <= hi
}
