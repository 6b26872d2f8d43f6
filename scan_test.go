package slotstore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotstore"
)

func nodeWith(position int, params map[string]float64) slotstore.Node {
	return slotstore.Node{
		Position:  position,
		BaseValue: float64(position),
		Attributes: slotstore.Attributes{
			Parameters: params,
		},
	}
}

func TestScanByAttribute(t *testing.T) {
	s := slotstore.New("scan")

	_, err := s.Insert(5, nodeWith(5, map[string]float64{"ethos": 0.8}))
	require.NoError(t, err)
	_, err = s.Insert(2, nodeWith(2, map[string]float64{"pathos": 0.8}))
	require.NoError(t, err)
	_, err = s.Insert(7, nodeWith(7, map[string]float64{"ethos": 0.3}))
	require.NoError(t, err)

	t.Run("in range", func(t *testing.T) {
		got := s.ScanByAttribute("ethos", 0.7, 0.9)
		require.Len(t, got, 1)
		assert.Equal(t, 5, got[0].Position)
	})

	t.Run("out of range", func(t *testing.T) {
		got := s.ScanByAttribute("ethos", 0.0, 0.5)
		require.Len(t, got, 1)
		assert.Equal(t, 7, got[0].Position, "only the 0.3 node")
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		got := s.ScanByAttribute("ethos", 0.8, 0.8)
		require.Len(t, got, 1)
		assert.Equal(t, 5, got[0].Position)
	})

	t.Run("missing attribute excluded", func(t *testing.T) {
		got := s.ScanByAttribute("ethos", math.Inf(-1), math.Inf(1))
		require.Len(t, got, 2)
		assert.Equal(t, 5, got[0].Position)
		assert.Equal(t, 7, got[1].Position)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		assert.Empty(t, s.ScanByAttribute("logos", 0, 1))
	})

	t.Run("inverted range", func(t *testing.T) {
		assert.Empty(t, s.ScanByAttribute("ethos", 0.9, 0.7))
	})

	t.Run("positions bitmap", func(t *testing.T) {
		bm := s.ScanPositions("ethos", 0, 1)
		assert.Equal(t, []uint32{5, 7}, bm.ToArray())
		assert.True(t, s.ScanPositions("ethos", 2, 3).IsEmpty())
	})
}

func TestScanByAttribute_SeesLatest(t *testing.T) {
	s := slotstore.New("scan-latest")

	_, err := s.Insert(5, nodeWith(5, map[string]float64{"ethos": 0.8}))
	require.NoError(t, err)
	tok := s.Snapshot()

	// Overwrite without the parameter.
	_, err = s.Insert(5, nodeWith(5, nil))
	require.NoError(t, err)

	assert.Empty(t, s.ScanByAttribute("ethos", 0.7, 0.9))

	then, err := s.ScanByAttributeAt(tok, "ethos", 0.7, 0.9)
	require.NoError(t, err)
	require.Len(t, then, 1)
	assert.Equal(t, 0.8, then[0].Attributes.Parameters["ethos"])
}

func TestScanByAttribute_NaN(t *testing.T) {
	s := slotstore.New("scan-nan")

	_, err := s.Insert(1, nodeWith(1, map[string]float64{"ethos": math.NaN()}))
	require.NoError(t, err)

	assert.Empty(t, s.ScanByAttribute("ethos", math.Inf(-1), math.Inf(1)))
}

func TestScanByAttribute_ReturnsCopies(t *testing.T) {
	s := slotstore.New("scan-copies")

	_, err := s.Insert(3, nodeWith(3, map[string]float64{"ethos": 0.5}))
	require.NoError(t, err)

	got := s.ScanByAttribute("ethos", 0, 1)
	require.Len(t, got, 1)
	got[0].Attributes.Parameters["ethos"] = 42

	again := s.ScanByAttribute("ethos", 0, 1)
	require.Len(t, again, 1)
	assert.Equal(t, 0.5, again[0].Attributes.Parameters["ethos"])
}
