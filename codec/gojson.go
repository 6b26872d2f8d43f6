package codec

import gojson "github.com/goccy/go-json"

// GoJSON is backed by github.com/goccy/go-json. Unlike JSON it leaves
// '<', '>' and '&' unescaped, which keeps CLI output readable.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (GoJSON) Name() string { return "go-json" }
