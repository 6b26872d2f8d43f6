package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is the standard-library JSON codec.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// Indented pretty-prints the output of Base with two-space indentation.
// Base must produce JSON.
type Indented struct {
	Base Codec
}

func (c Indented) Marshal(v any) ([]byte, error) {
	b, err := c.Base.Marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Indented) Unmarshal(data []byte, v any) error { return c.Base.Unmarshal(data, v) }

func (Indented) Name() string { return "indent" }
