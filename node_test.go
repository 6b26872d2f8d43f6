package slotstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNode_Clone(t *testing.T) {
	n := Node{
		Position:      1,
		BaseValue:     1.5,
		SemanticIndex: map[string]string{"k": "v"},
		Attributes: Attributes{
			Properties: map[string]string{"p": "q"},
			Parameters: map[string]float64{"ethos": 0.1},
			State: State{
				Active:       true,
				UsageCount:   3,
				ContextStack: []string{"a"},
			},
			Dynamics: Dynamics{
				InteractionHistory: []string{"x"},
				LearningHistory:    []float64{0.5},
			},
		},
	}

	c := n.Clone()
	assert.Equal(t, n, c)

	c.SemanticIndex["k"] = "changed"
	c.Attributes.Properties["p"] = "changed"
	c.Attributes.Parameters["ethos"] = 9
	c.Attributes.State.ContextStack[0] = "changed"
	c.Attributes.Dynamics.InteractionHistory[0] = "changed"
	c.Attributes.Dynamics.LearningHistory[0] = 9

	assert.Equal(t, "v", n.SemanticIndex["k"])
	assert.Equal(t, "q", n.Attributes.Properties["p"])
	assert.Equal(t, 0.1, n.Attributes.Parameters["ethos"])
	assert.Equal(t, "a", n.Attributes.State.ContextStack[0])
	assert.Equal(t, "x", n.Attributes.Dynamics.InteractionHistory[0])
	assert.Equal(t, 0.5, n.Attributes.Dynamics.LearningHistory[0])
}

func TestNode_CloneZero(t *testing.T) {
	assert.Equal(t, Node{}, Node{}.Clone())
}

func TestNode_Accessors(t *testing.T) {
	n := Node{Attributes: Attributes{
		Properties: map[string]string{"label": "x"},
		Parameters: map[string]float64{"ethos": 0.8},
	}}

	v, ok := n.Parameter("ethos")
	assert.True(t, ok)
	assert.Equal(t, 0.8, v)

	_, ok = n.Parameter("missing")
	assert.False(t, ok)

	p, ok := n.Property("label")
	assert.True(t, ok)
	assert.Equal(t, "x", p)

	assert.True(t, n.inRange("ethos", 0.7, 0.9))
	assert.False(t, n.inRange("ethos", 0.0, 0.5))
	assert.False(t, n.inRange("missing", 0, 1))
}

func TestNode_Touched(t *testing.T) {
	at := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	n := Node{Attributes: Attributes{State: State{UsageCount: 1}}}

	touched := n.Touched(at)
	assert.True(t, touched.Attributes.State.Active)
	assert.Equal(t, at, touched.Attributes.State.LastTouched)
	assert.Equal(t, uint64(2), touched.Attributes.State.UsageCount)

	// Original untouched.
	assert.False(t, n.Attributes.State.Active)
	assert.Equal(t, uint64(1), n.Attributes.State.UsageCount)
}
