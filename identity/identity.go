// Package identity defines the opaque, fixed-width identifiers used
// throughout Aura: authorities, contexts, devices, sessions, channels,
// consensus instances, and content hashes. None of these encode
// participant data; they are either derived from entropy or from a
// content hash.
package identity

import (
	"bytes"
	"encoding/hex"
)

// AuthorityId identifies a user's authority (commitment tree over
// devices and guardians).
type AuthorityId [32]byte

// ContextId identifies an opaque relational scope shared by multiple
// authorities (a guardian relationship, a messaging channel, ...).
type ContextId [32]byte

// DeviceId identifies a single device enrolled in an authority.
type DeviceId [16]byte

// SessionId identifies a transport session between two devices.
type SessionId [16]byte

// ChannelId identifies a messaging channel scoped to a context.
type ChannelId [16]byte

// ConsensusId identifies a single consensus instance.
type ConsensusId [32]byte

// Hash32 is a 32-byte content hash, used for canonical addressing and
// as the order-key tie-breaker.
type Hash32 [32]byte

func (a AuthorityId) String() string  { return hex.EncodeToString(a[:]) }
func (c ContextId) String() string    { return hex.EncodeToString(c[:]) }
func (d DeviceId) String() string     { return hex.EncodeToString(d[:]) }
func (s SessionId) String() string    { return hex.EncodeToString(s[:]) }
func (c ChannelId) String() string    { return hex.EncodeToString(c[:]) }
func (c ConsensusId) String() string  { return hex.EncodeToString(c[:]) }
func (h Hash32) String() string       { return hex.EncodeToString(h[:]) }

// Compare returns -1, 0, or 1 comparing a to b lexicographically.
// All Aura identifiers are ordered this way.
func (a AuthorityId) Compare(b AuthorityId) int { return bytes.Compare(a[:], b[:]) }
func (c ContextId) Compare(b ContextId) int     { return bytes.Compare(c[:], b[:]) }
func (d DeviceId) Compare(b DeviceId) int       { return bytes.Compare(d[:], b[:]) }
func (s SessionId) Compare(b SessionId) int     { return bytes.Compare(s[:], b[:]) }
func (c ChannelId) Compare(b ChannelId) int     { return bytes.Compare(c[:], b[:]) }
func (c ConsensusId) Compare(b ConsensusId) int { return bytes.Compare(c[:], b[:]) }
func (h Hash32) Compare(b Hash32) int           { return bytes.Compare(h[:], b[:]) }

// Less reports whether a sorts strictly before b. Kept alongside
// Compare because slices.SortFunc callers read better with a named
// total order than with a raw three-way compare at the call site.
func (a AuthorityId) Less(b AuthorityId) bool { return a.Compare(b) < 0 }
func (c ContextId) Less(b ContextId) bool     { return c.Compare(b) < 0 }
func (h Hash32) Less(b Hash32) bool           { return h.Compare(b) < 0 }
func (c ConsensusId) Less(b ConsensusId) bool { return c.Compare(b) < 0 }

// IsZero reports whether the identifier is the all-zero value, used
// to detect unset fields decoded from short or empty wire data.
func (a AuthorityId) IsZero() bool  { return a == AuthorityId{} }
func (c ContextId) IsZero() bool    { return c == ContextId{} }
func (c ConsensusId) IsZero() bool  { return c == ConsensusId{} }
func (h Hash32) IsZero() bool       { return h == Hash32{} }

// AuthorityFromSeed deterministically derives an AuthorityId from a
// test seed. Production code derives AuthorityId from entropy or a
// content hash instead; this constructor exists for reproducible
// fixtures only.
func AuthorityFromSeed(seed byte) AuthorityId {
	var id AuthorityId
	id[0] = seed
	return id
}

// ContextFromSeed deterministically derives a ContextId from a seed.
func ContextFromSeed(seed byte) ContextId {
	var id ContextId
	id[0] = seed
	return id
}

// DeviceFromSeed deterministically derives a DeviceId from a seed.
func DeviceFromSeed(seed byte) DeviceId {
	var id DeviceId
	id[0] = seed
	return id
}

// ConsensusFromSeed deterministically derives a ConsensusId from a
// seed. Production code derives it from hash(proposal context).
func ConsensusFromSeed(seed byte) ConsensusId {
	var id ConsensusId
	id[0] = seed
	return id
}

// ConsensusFromHash derives a ConsensusId from a content hash, the
// production construction path (spec.md scenario 1: ConsensusId =
// hash(b"c1")).
func ConsensusFromHash(h Hash32) ConsensusId {
	return ConsensusId(h)
}

// HashFromSeed deterministically derives a Hash32 from a seed, for
// tests that need a stand-in content hash without hashing anything.
func HashFromSeed(seed byte) Hash32 {
	var h Hash32
	h[0] = seed
	return h
}
