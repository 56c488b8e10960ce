// Package util holds small standalone helpers shared across the engine.
package util

import "github.com/OneOfOne/xxhash"

// HashCode hashes an arbitrary byte key, used by HashAggregateExec to bucket
// group-key tuples.
func HashCode(key []byte) uint64 {
	h := xxhash.New64()
	h.Write(key)
	return h.Sum64()
}
