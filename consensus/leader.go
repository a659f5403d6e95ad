package consensus

import (
	"encoding/binary"

	"github.com/hxrts/aura/canon"
	"github.com/hxrts/aura/identity"
)

// LeaderFor deterministically picks the coordinator for a ConsensusId
// round from a sorted witness list, rotating by round so no single
// witness coordinates every instance. Witnesses must already be in a
// stable order (callers sort by identity.DeviceId.Compare) so every
// replica computes the same leader without exchanging a vote.
func LeaderFor(id identity.ConsensusId, witnesses []identity.DeviceId, round uint64) identity.DeviceId {
	if len(witnesses) == 0 {
		return identity.DeviceId{}
	}
	e := canon.NewEncoder(MagicShareMsg, shareMsgVersion)
	e.Fixed(id[:])
	e.Uint64(round)
	seed := canon.Hash(e.Bytes())
	idx := binary.BigEndian.Uint64(seed[:8]) % uint64(len(witnesses))
	return witnesses[idx]
}
