// Package codec centralizes how slotstore values are rendered as bytes.
//
// The store itself never serializes anything; codecs are used by tooling
// (the CLI, stress reports) to emit nodes, anchors and reports.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is named.
var Default Codec = GoJSON{}

// Names lists the codecs ByName resolves, in display order.
func Names() []string {
	return []string{"indent", "json", "go-json"}
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "indent":
		return Indented{Base: Default}, true
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and tooling. A nil codec means Default.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
