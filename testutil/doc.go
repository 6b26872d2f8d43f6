// Package testutil provides testing utilities for slotstore.
//
// This package is intended for use in tests, benchmarks and the stress
// harness. It provides a seeded, goroutine-safe RNG with node generators and
// stamped nodes for torn-read detection.
//
// # Random Nodes
//
//	rng := testutil.NewRNG(seed)
//	n := rng.Node(rng.Position())
//
// # Torn-Read Detection
//
//	n := testutil.StampedNode(writer, seq, position)
//	// ... insert n, read it back concurrently ...
//	ok := testutil.Consistent(got) // false if fields come from two inserts
package testutil
