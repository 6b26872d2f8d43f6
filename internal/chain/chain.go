package chain

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// Sequence is the store-wide version counter shared by all chains.
type Sequence struct {
	n atomic.Uint64
	_ cpu.CacheLinePad
}

// Next returns a fresh version. Versions are unique and strictly increasing.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// Current returns the most recently handed out version (0 if none).
func (s *Sequence) Current() uint64 {
	return s.n.Load()
}

type entry[T any] struct {
	version   atomic.Uint64 // 0 until sealed
	writtenAt time.Time
	value     T
	next      atomic.Pointer[entry[T]]
}

// Revision is one retained entry of a chain.
type Revision[T any] struct {
	Version   uint64
	WrittenAt time.Time
	Value     T
}

// Chain is a lock-free version chain. The zero value is an empty chain.
//
// Values are stored as given; callers that need isolation must pass values
// that are not mutated after Prepend.
type Chain[T any] struct {
	head atomic.Pointer[entry[T]]
	_    cpu.CacheLinePad
}

// seal assigns a version to e if it has none yet and returns e's version.
func seal[T any](e *entry[T], seq *Sequence) uint64 {
	if v := e.version.Load(); v != 0 {
		return v
	}
	e.version.CompareAndSwap(0, seq.Next())
	return e.version.Load()
}

// Prepend publishes value as the newest entry and returns its version along
// with the number of lost CAS rounds.
func (c *Chain[T]) Prepend(seq *Sequence, value T, writtenAt time.Time) (uint64, int) {
	e := &entry[T]{
		writtenAt: writtenAt,
		value:     value,
	}

	retries := 0
	for {
		head := c.head.Load()
		if head != nil {
			// The new entry must be sealed after its predecessor.
			seal(head, seq)
		}
		e.next.Store(head)
		if c.head.CompareAndSwap(head, e) {
			return seal(e, seq), retries
		}
		retries++
	}
}

// Head returns the newest value.
func (c *Chain[T]) Head(seq *Sequence) (T, bool) {
	head := c.head.Load()
	if head == nil {
		var zero T
		return zero, false
	}
	// Sealing here orders the observed head before any later token.
	seal(head, seq)
	return head.value, true
}

// FindAsOf returns the newest value whose version is <= version.
func (c *Chain[T]) FindAsOf(seq *Sequence, version uint64) (T, bool) {
	for curr := c.head.Load(); curr != nil; curr = curr.next.Load() {
		if seal(curr, seq) <= version {
			return curr.value, true
		}
	}
	var zero T
	return zero, false
}

// TrimBefore unlinks every entry that is only reachable by reads at versions
// older than version. The entry visible at version is kept. It returns the
// number of entries this call unlinked; concurrent calls never count the
// same entry twice.
func (c *Chain[T]) TrimBefore(seq *Sequence, version uint64) int {
	for curr := c.head.Load(); curr != nil; curr = curr.next.Load() {
		if seal(curr, seq) > version {
			continue
		}

		// Each link is taken with a Swap, so an entry is counted by exactly
		// one trimmer even when trims overlap on the same tail.
		removed := 0
		for rest := curr.next.Swap(nil); rest != nil; rest = rest.next.Swap(nil) {
			removed++
		}
		return removed
	}
	return 0
}

// Len returns the number of retained entries.
func (c *Chain[T]) Len() int {
	n := 0
	for curr := c.head.Load(); curr != nil; curr = curr.next.Load() {
		n++
	}
	return n
}

// Revisions returns all retained entries, newest first.
func (c *Chain[T]) Revisions(seq *Sequence) []Revision[T] {
	var out []Revision[T]
	for curr := c.head.Load(); curr != nil; curr = curr.next.Load() {
		out = append(out, Revision[T]{
			Version:   seal(curr, seq),
			WrittenAt: curr.writtenAt,
			Value:     curr.value,
		})
	}
	return out
}
