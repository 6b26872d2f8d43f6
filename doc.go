// Package slotstore provides a lock-free, versioned, in-memory store of ten
// fixed positions.
//
// A Store belongs to one subject. Many goroutines can insert and read
// concurrently while others take snapshot tokens and read history as of
// those tokens. No operation takes a lock or blocks.
//
// # Quick Start
//
//	s := slotstore.New("subject")
//
//	v, err := s.Insert(5, slotstore.Node{
//	    Position:  5,
//	    BaseValue: 5,
//	    Attributes: slotstore.Attributes{
//	        Parameters: map[string]float64{"ethos": 0.8},
//	    },
//	})
//
//	n, ok, err := s.Get(5)
//
// # Snapshots
//
// A snapshot token is a copy of the global version counter. Reads against a
// token are deterministic: inserts that complete after the token was taken
// are never visible through it.
//
//	tok := s.Snapshot()
//	// ... concurrent inserts ...
//	n, ok, err := s.GetFromSnapshot(tok, 5)
//
// # Consistency Model
//
//   - Inserts to the same position are linearizable.
//   - Inserts to different positions are not ordered relative to each other.
//   - Reads never observe a partially written node.
//   - Scans and views read each position independently; they are not an
//     atomic cut across positions.
//
// # History Retention
//
// Every insert adds a revision. History is never dropped automatically; call
// TrimBefore to release revisions only reachable through old tokens. Reads
// with a trimmed token fail with ErrSnapshotTrimmed.
//
// # Anchors
//
// Positions 3, 6 and 9 carry an immutable AnchorRecord computed at
// construction, available through GetAnchor. Anchor records are independent
// of the values inserted at those positions.
package slotstore
