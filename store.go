package slotstore

import (
	"iter"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/slotstore/clock"
	"github.com/hupe1980/slotstore/internal/anchor"
	"github.com/hupe1980/slotstore/internal/chain"
)

// NumPositions is the fixed number of positions of every Store.
const NumPositions = 10

// AnchorPositions are the positions that carry an immutable anchor record.
var AnchorPositions = anchor.Positions

type (
	// AnchorRecord is the immutable precomputed record of an anchor position.
	AnchorRecord = anchor.Record
	// Point is a 2D coordinate of an anchor record.
	Point = anchor.Point
	// Property is a named descriptive property of an anchor record.
	Property = anchor.Property
)

// Token is an opaque snapshot token: the value of the global version
// counter at the time Snapshot was called.
type Token uint64

// Version returns the counter value the token was taken at.
func (t Token) Version() uint64 { return uint64(t) }

// Revision is one retained historical value of a position.
type Revision struct {
	Version   uint64    `json:"version"`
	WrittenAt time.Time `json:"written_at"`
	Node      Node      `json:"node"`
}

// Stats is a point-in-time summary of a Store.
type Stats struct {
	ID            string
	Subject       string
	CreatedAt     time.Time
	Version       uint64
	TrimWatermark uint64
	// ChainDepth is the number of retained revisions per position.
	ChainDepth [NumPositions]int
	// Written is the number of positions that have at least one revision.
	Written int
}

// Store is a concurrent positional store of NumPositions slots.
//
// All methods are safe for concurrent use. No method takes a lock: single
// position writes are linearized by a CAS on that position's chain head, and
// reads never block. Reads that span positions (scans, views) are an
// interleaving of independent per-position reads, not an atomic cut.
type Store struct {
	id        uuid.UUID
	subject   string
	createdAt time.Time

	seq       chain.Sequence
	watermark atomic.Uint64
	chains    [NumPositions]chain.Chain[Node]
	anchors   *anchor.Table

	metrics MetricsCollector
	logger  *Logger
	clock   clock.Clock
}

// New creates an empty store for subject and builds its anchor table.
// The returned store is ready to be shared between goroutines.
func New(subject string, optFns ...Option) *Store {
	opts := applyOptions(optFns)

	s := &Store{
		id:      uuid.New(),
		subject: subject,
		anchors: anchor.New(),
		metrics: opts.metrics,
		clock:   opts.clock,
	}
	s.createdAt = s.clock.Now()
	s.logger = opts.logger.WithSubject(subject, s.id.String())

	s.logger.Info("store created", "positions", NumPositions, "anchors", len(AnchorPositions))
	return s
}

// ID returns the random instance ID of the store.
func (s *Store) ID() string { return s.id.String() }

// Subject returns the subject name the store was created for.
func (s *Store) Subject() string { return s.subject }

// Insert publishes node at position and returns the version assigned to it.
//
// The store keeps a deep copy of node. When Insert returns, the node is
// visible to every subsequent Get, Snapshot and GetFromSnapshot on any
// goroutine. Insert only fails for an invalid position, in which case the
// store is left unchanged.
func (s *Store) Insert(position int, node Node) (uint64, error) {
	start := s.clock.Now()

	if err := checkPosition("insert", position); err != nil {
		s.metrics.RecordInsert(s.clock.Now().Sub(start), 0, err)
		s.logger.LogInsert(position, 0, 0, err)
		return 0, err
	}

	version, retries := s.chains[position].Prepend(&s.seq, node.Clone(), start)

	s.metrics.RecordInsert(s.clock.Now().Sub(start), retries, nil)
	s.logger.LogInsert(position, version, retries, nil)
	return version, nil
}

// Get returns the current node at position.
// The boolean is false if the position has never been written.
func (s *Store) Get(position int) (Node, bool, error) {
	if err := checkPosition("get", position); err != nil {
		s.metrics.RecordGet(false, err)
		return Node{}, false, err
	}

	n, ok := s.chains[position].Head(&s.seq)
	s.metrics.RecordGet(ok, nil)
	if !ok {
		return Node{}, false, nil
	}
	return n.Clone(), true, nil
}

// Snapshot returns a token for historically consistent reads.
func (s *Store) Snapshot() Token {
	return Token(s.seq.Current())
}

// GetFromSnapshot returns the newest node at position whose version is not
// greater than token. For a fixed token and position the answer never
// changes, regardless of concurrent inserts.
//
// It fails with ErrSnapshotTrimmed if history for token was released by
// TrimBefore.
func (s *Store) GetFromSnapshot(token Token, position int) (Node, bool, error) {
	n, ok, err := s.findAsOf("get_from_snapshot", token, position)
	s.metrics.RecordSnapshotRead(ok, err)
	if err != nil || !ok {
		return Node{}, false, err
	}
	return n.Clone(), true, nil
}

// findAsOf is GetFromSnapshot without copying and metrics.
func (s *Store) findAsOf(op string, token Token, position int) (Node, bool, error) {
	if err := checkPosition(op, position); err != nil {
		return Node{}, false, err
	}
	if w := s.watermark.Load(); uint64(token) < w {
		s.logger.LogTrimmedRead(op, token, w)
		return Node{}, false, trimmedError(token, w)
	}

	n, ok := s.chains[position].FindAsOf(&s.seq, uint64(token))

	// A trim that raced with the walk may have cut the entry we were
	// looking for; it raises the watermark before cutting anything.
	if w := s.watermark.Load(); uint64(token) < w {
		s.logger.LogTrimmedRead(op, token, w)
		return Node{}, false, trimmedError(token, w)
	}
	return n, ok, nil
}

// Slot is one position yielded by View.
type Slot struct {
	Position int
	Node     Node
}

// View iterates the positions visible at token in position order.
// Positions without a value at token are skipped. If the token is or becomes
// trimmed, View yields a single ErrSnapshotTrimmed error and stops.
//
//	for slot, err := range s.View(tok) {
//	    if err != nil {
//	        return err
//	    }
//	    use(slot.Position, slot.Node)
//	}
func (s *Store) View(token Token) iter.Seq2[Slot, error] {
	return func(yield func(Slot, error) bool) {
		for p := 0; p < NumPositions; p++ {
			n, ok, err := s.findAsOf("view", token, p)
			if err != nil {
				yield(Slot{}, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(Slot{Position: p, Node: n.Clone()}, nil) {
				return
			}
		}
	}
}

// GetAnchor returns the anchor record of position.
// The boolean is false for positions that are not anchor positions.
func (s *Store) GetAnchor(position int) (AnchorRecord, bool, error) {
	if err := checkPosition("get_anchor", position); err != nil {
		return AnchorRecord{}, false, err
	}
	r, ok := s.anchors.Get(position)
	return r, ok, nil
}

// Anchors returns all anchor records in position order.
func (s *Store) Anchors() []AnchorRecord {
	return s.anchors.All()
}

// History returns the retained revisions of position, newest first.
func (s *Store) History(position int) ([]Revision, error) {
	if err := checkPosition("history", position); err != nil {
		return nil, err
	}

	revs := s.chains[position].Revisions(&s.seq)
	out := make([]Revision, 0, len(revs))
	for _, r := range revs {
		out = append(out, Revision{
			Version:   r.Version,
			WrittenAt: r.WrittenAt,
			Node:      r.Value.Clone(),
		})
	}
	return out, nil
}

// TrimBefore releases history that is only reachable through tokens older
// than token and returns the number of released revisions. Tokens newer
// than the current version are clamped to it.
//
// Trimming is never automatic. Afterwards, reads with a token older than the
// watermark fail with ErrSnapshotTrimmed instead of returning a different
// answer than before.
func (s *Store) TrimBefore(token Token) int {
	start := s.clock.Now()

	target := min(uint64(token), s.seq.Current())
	for {
		w := s.watermark.Load()
		if target <= w || s.watermark.CompareAndSwap(w, target) {
			break
		}
	}
	// Trim to the watermark, which may be ahead of target due to a
	// concurrent trim.
	w := s.watermark.Load()

	removed := 0
	for p := range s.chains {
		removed += s.chains[p].TrimBefore(&s.seq, w)
	}

	s.metrics.RecordTrim(removed, s.clock.Now().Sub(start))
	s.logger.LogTrim(w, removed)
	return removed
}

// Stats returns a summary of the store. Chain depths are read position by
// position and may interleave with concurrent writes.
func (s *Store) Stats() Stats {
	st := Stats{
		ID:            s.id.String(),
		Subject:       s.subject,
		CreatedAt:     s.createdAt,
		Version:       s.seq.Current(),
		TrimWatermark: s.watermark.Load(),
	}
	for p := range s.chains {
		d := s.chains[p].Len()
		st.ChainDepth[p] = d
		if d > 0 {
			st.Written++
		}
	}
	return st
}
