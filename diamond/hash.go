package diamond

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/dagrel/reachrel/graphidx"
)

// Hash computes the 64-bit content hash of d over (EdgeList,
// ConditioningNodes), per section 3's "Diamond hash" and section 9's
// canonicalisation rule: the edge list is sorted before hashing (already
// guaranteed by Diamond construction in this package), and
// ConditioningNodes is folded order-independently via XOR so that set
// iteration order never affects the result.
func Hash(d Diamond) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	for _, e := range d.EdgeList {
		binary.LittleEndian.PutUint64(buf[0:8], uint64(e.From))
		binary.LittleEndian.PutUint64(buf[8:16], uint64(e.To))
		_, _ = h.Write(buf[:])
	}
	edgeHash := h.Sum64()

	var condHash uint64
	for n := range d.ConditioningNodes {
		condHash ^= nodeHash(n)
	}

	// Mix the two components with a final avalanche so that an empty
	// ConditioningNodes set (condHash==0) still depends on edgeHash alone,
	// and vice versa for an empty edge list.
	mixed := edgeHash ^ (condHash + 0x9e3779b97f4a7c15 + (edgeHash << 6) + (edgeHash >> 2))

	return mixed
}

// nodeHash hashes a single NodeID deterministically for order-independent
// set folding (XOR accumulation).
func nodeHash(n graphidx.NodeID) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, _ = h.Write(buf[:])

	return h.Sum64()
}
