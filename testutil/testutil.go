package testutil

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/hupe1980/slotstore"
)

// RNG is a seeded, goroutine-safe source of test data. Two RNGs with the
// same seed produce the same sequence.
type RNG struct {
	mu   sync.Mutex
	seed int64
	rand *rand.Rand
}

func NewRNG(seed int64) *RNG {
	r := &RNG{seed: seed}
	r.rand = rand.New(rand.NewPCG(uint64(seed), pcgStream))
	return r
}

const pcgStream = 0x5107

// Reset rewinds r to the start of its sequence.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(uint64(r.seed), pcgStream))
}

func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a value in [0, n). It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Position returns a random valid position.
func (r *RNG) Position() int {
	return r.Intn(slotstore.NumPositions)
}

// Node returns a random node for position with every attribute populated.
func (r *RNG) Node(position int) slotstore.Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctxDepth := 1 + r.rand.IntN(3)
	stack := make([]string, ctxDepth)
	for i := range stack {
		stack[i] = fmt.Sprintf("ctx-%d", r.rand.IntN(100))
	}

	learning := make([]float64, 1+r.rand.IntN(4))
	for i := range learning {
		learning[i] = r.rand.Float64()
	}

	return slotstore.Node{
		Position:  position,
		BaseValue: float64(position) + r.rand.Float64(),
		SemanticIndex: map[string]string{
			"topic": fmt.Sprintf("topic-%d", r.rand.IntN(10)),
		},
		Attributes: slotstore.Attributes{
			Properties: map[string]string{
				"label": fmt.Sprintf("node-%d", r.rand.IntN(1000)),
			},
			Parameters: map[string]float64{
				"ethos":  r.rand.Float64(),
				"pathos": r.rand.Float64(),
				"logos":  r.rand.Float64(),
			},
			State: slotstore.State{
				Active:       r.rand.IntN(2) == 0,
				LastTouched:  time.Unix(int64(r.rand.IntN(1<<30)), 0).UTC(),
				UsageCount:   uint64(r.rand.IntN(100)),
				ContextStack: stack,
			},
			Dynamics: slotstore.Dynamics{
				EvolutionRate:      r.rand.Float64(),
				StabilityIndex:     r.rand.Float64(),
				InteractionHistory: []string{fmt.Sprintf("i-%d", r.rand.IntN(100))},
				LearningHistory:    learning,
			},
		},
	}
}

// StampedNode returns a node whose fields are all derived from a single
// stamp (writer, seq). A node assembled from two different stamped nodes
// fails Consistent.
func StampedNode(writer, seq, position int) slotstore.Node {
	stamp := Stamp(writer, seq)
	s := strconv.FormatInt(stamp, 10)
	f := float64(stamp)

	return slotstore.Node{
		Position:  position,
		BaseValue: f,
		SemanticIndex: map[string]string{
			"stamp": s,
		},
		Attributes: slotstore.Attributes{
			Properties: map[string]string{
				"stamp":  s,
				"writer": strconv.Itoa(writer),
			},
			Parameters: map[string]float64{
				"stamp":  f,
				"writer": float64(writer),
				"seq":    float64(seq),
				"ethos":  float64(seq%10) / 10,
			},
			State: slotstore.State{
				Active:       true,
				LastTouched:  time.Unix(stamp, 0).UTC(),
				UsageCount:   uint64(stamp),
				ContextStack: []string{s},
			},
			Dynamics: slotstore.Dynamics{
				EvolutionRate:      f,
				StabilityIndex:     f,
				InteractionHistory: []string{s},
				LearningHistory:    []float64{f},
			},
		},
	}
}

// Stamp combines writer and seq into one value.
func Stamp(writer, seq int) int64 {
	return int64(writer)<<32 | int64(uint32(seq))
}

// Consistent reports whether every field of n derives from the same stamp.
func Consistent(n slotstore.Node) bool {
	stamp := int64(n.BaseValue)
	s := strconv.FormatInt(stamp, 10)
	f := float64(stamp)
	a := n.Attributes

	writer, seq := int(stamp>>32), int(uint32(stamp))

	switch {
	case n.SemanticIndex["stamp"] != s,
		a.Properties["stamp"] != s,
		a.Properties["writer"] != strconv.Itoa(writer),
		a.Parameters["stamp"] != f,
		a.Parameters["writer"] != float64(writer),
		a.Parameters["seq"] != float64(seq),
		a.Parameters["ethos"] != float64(seq%10)/10,
		a.State.LastTouched.Unix() != stamp,
		a.State.UsageCount != uint64(stamp),
		len(a.State.ContextStack) != 1 || a.State.ContextStack[0] != s,
		a.Dynamics.EvolutionRate != f,
		a.Dynamics.StabilityIndex != f,
		len(a.Dynamics.InteractionHistory) != 1 || a.Dynamics.InteractionHistory[0] != s,
		len(a.Dynamics.LearningHistory) != 1 || a.Dynamics.LearningHistory[0] != f:
		return false
	}
	return true
}
