package slotstore

import "github.com/RoaringBitmap/roaring/v2"

// ScanByAttribute returns the current nodes whose parameter name lies in
// [lo, hi], in position order. Nodes without the parameter are skipped.
//
// Each position is read independently; the result is not an atomic cut
// across positions.
func (s *Store) ScanByAttribute(name string, lo, hi float64) []Node {
	start := s.clock.Now()

	var out []Node
	for p := range s.chains {
		n, ok := s.chains[p].Head(&s.seq)
		if ok && n.inRange(name, lo, hi) {
			out = append(out, n.Clone())
		}
	}

	s.metrics.RecordScan(len(out), s.clock.Now().Sub(start))
	s.logger.LogScan(name, lo, hi, len(out))
	return out
}

// ScanByAttributeAt is ScanByAttribute over the values visible at token.
func (s *Store) ScanByAttributeAt(token Token, name string, lo, hi float64) ([]Node, error) {
	start := s.clock.Now()

	var out []Node
	for p := 0; p < NumPositions; p++ {
		n, ok, err := s.findAsOf("scan_by_attribute_at", token, p)
		if err != nil {
			return nil, err
		}
		if ok && n.inRange(name, lo, hi) {
			out = append(out, n.Clone())
		}
	}

	s.metrics.RecordScan(len(out), s.clock.Now().Sub(start))
	s.logger.LogScan(name, lo, hi, len(out))
	return out, nil
}

// ScanPositions returns the positions whose current node has parameter name
// in [lo, hi].
func (s *Store) ScanPositions(name string, lo, hi float64) *roaring.Bitmap {
	start := s.clock.Now()

	bm := roaring.New()
	for p := range s.chains {
		n, ok := s.chains[p].Head(&s.seq)
		if ok && n.inRange(name, lo, hi) {
			bm.Add(uint32(p))
		}
	}

	matched := int(bm.GetCardinality())
	s.metrics.RecordScan(matched, s.clock.Now().Sub(start))
	s.logger.LogScan(name, lo, hi, matched)
	return bm
}
