// Package chain provides a lock-free, append-only MVCC version chain.
//
// A Chain holds the history of a single slot as a singly linked list of
// immutable entries, newest first. It supports:
//
//   - Lock-free writes via a CAS loop against the head pointer
//   - Wait-free head reads via atomic.Pointer
//   - Snapshot reads by version (time-travel)
//   - Opt-in history trimming
//
// # Versioning
//
// Versions come from a store-wide Sequence. An entry is linked into the chain
// first and sealed with a version second. Sealing is a single CompareAndSwap
// from zero and may be performed by the writer or by any reader that meets
// the unsealed entry. A writer seals the current head before linking on top
// of it, so versions strictly decrease from head to tail, and every version
// sealed after a token was read from the Sequence is larger than that token.
package chain
