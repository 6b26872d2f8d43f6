package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotstore"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("gob")
	assert.False(t, ok)
}

func TestCodecs_Node(t *testing.T) {
	n := slotstore.Node{
		Position:  5,
		BaseValue: 5.5,
		Attributes: slotstore.Attributes{
			Properties: map[string]string{"label": "five"},
			Parameters: map[string]float64{"ethos": 0.8},
		},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}, Indented{Base: JSON{}}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(n)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"ethos":`)

			var got slotstore.Node
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, n.Attributes.Parameters, got.Attributes.Parameters)
			assert.Equal(t, n.Position, got.Position)
		})
	}
}

func TestGoJSON_NoHTMLEscape(t *testing.T) {
	v := map[string]string{"range": "0.2<x<0.6"}

	b, err := GoJSON{}.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"range":"0.2<x<0.6"}`, string(b))

	type labeled struct {
		Label string   `json:"label"`
		Tags  []string `json:"tags"`
		Ref   *string  `json:"ref"`
	}
	ref := "a&b"
	b, err = GoJSON{}.Marshal(labeled{Label: "<node>", Tags: []string{"x>y"}, Ref: &ref})
	require.NoError(t, err)
	assert.Equal(t, `{"label":"<node>","tags":["x>y"],"ref":"a&b"}`, string(b))

	b, err = JSON{}.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"range":"0.2\u003cx\u003c0.6"}`, string(b))
}

func TestIndented(t *testing.T) {
	b, err := Indented{Base: GoJSON{}}.Marshal(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))

	_, err = Indented{Base: JSON{}}.Marshal(make(chan int))
	assert.Error(t, err)
}

func TestMustMarshal(t *testing.T) {
	b := MustMarshal(nil, map[string]int{"a": 1})
	assert.JSONEq(t, `{"a":1}`, string(b))

	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
