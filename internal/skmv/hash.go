package skmv

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Fixed seeds, per spec.md §4.2: "Fixed seeds MUST be used so that
// repeated runs produce bit-identical output on the same input." These
// values have no significance beyond being constant across runs.
const (
	bucketHashSeed  uint64 = 0xcbf29ce484222325 // FNV-1a's own offset basis, reused as a seed
	elementHashSeed uint32 = 0x9747b28c
)

// bucketHash implements H(flow_label) → bucket_index (spec.md §4.2): a
// stable 64-bit scalar hash reduced modulo m. xxhash is the FNV-1a-class
// hash the spec asks for — fast, well-distributed, and deterministic for
// a fixed seed.
func bucketHash(flowLabel uint64, m uint32) uint32 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], flowLabel)
	binary.BigEndian.PutUint64(buf[8:16], bucketHashSeed)
	h := xxhash.Sum64(buf[:])
	return uint32(h % uint64(m))
}

// elementHash implements h(element_id) → uniform_hash (spec.md §4.2): a
// Murmur3 finalizer-class avalanche hash, masked to delta1 bits. The
// sketch's accuracy relies on this being close to uniform over
// [0, hashRange].
func elementHash(elementID uint64, hashRange uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], elementID)
	h := murmur3.Sum64WithSeed(buf[:], elementHashSeed)
	return h & hashRange
}
