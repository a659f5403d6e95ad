package canon

import (
	"github.com/hxrts/aura/identity"
	"golang.org/x/crypto/blake2b"
)

// Hash returns the canonical content hash of an already-canonically-encoded
// value. Content addressing and reduction tie-breaking both go through this
// single function so the two never disagree.
func Hash(encoded []byte) identity.Hash32 {
	return identity.Hash32(blake2b.Sum256(encoded))
}
