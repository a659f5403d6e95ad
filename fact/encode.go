package fact

import (
	"github.com/hxrts/aura/canon"
	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
)

// MagicFact tags the canonical encoding of a Fact.
const MagicFact canon.Magic = 0x41465401 // "AFT\x01"

// CurrentFactVersion is the schema version this build writes and the
// highest version it will decode.
const CurrentFactVersion canon.SchemaVersion = 1

const maxSignatureBytes = 4096
const maxSupersededFacts = 1 << 16
const maxBindingData = canon.MaxBytesField

// Encode produces the canonical, deterministic binary encoding of a fact:
// the same Fact value always encodes to the same bytes. This package has
// no decoder for this encoding.
func Encode(f Fact) []byte {
	e := canon.NewEncoder(MagicFact, CurrentFactVersion)
	e.Byte(byte(f.Namespace.Kind))
	switch f.Namespace.Kind {
	case NamespaceAuthority:
		e.Fixed(f.Namespace.Authority[:])
	default:
		e.Fixed(f.Namespace.Context[:])
	}
	e.Fixed(f.Order[:])
	e.Varint(uint64(len(f.WitnessSet)))
	for _, w := range f.WitnessSet {
		e.Fixed(w[:])
	}
	encodeTimeStamp(e, f.AttestedAt)
	encodeContentInto(e, f.Content)
	return e.Bytes()
}

// Hash returns the fact's canonical content hash, used both for content
// addressing and as the reduction tie-breaker.
func Hash(f Fact) identity.Hash32 {
	return canon.Hash(Encode(f))
}

func encodeContentInto(e *canon.Encoder, c FactContent) {
	e.Byte(byte(c.Kind))
	switch c.Kind {
	case ContentAttestedOp:
		op := c.AttestedOp
		e.Fixed(op.OpID[:])
		e.Byte(byte(op.Op))
		e.Fixed(op.Leaf[:])
		if op.LeafIsGuardian {
			e.Byte(1)
		} else {
			e.Byte(0)
		}
		e.Fixed(op.PolicyHash[:])
		e.Fixed(op.ParentCommitment[:])
		e.Fixed(op.NewCommitment[:])
		e.Varint(uint64(op.WitnessThreshold))
		e.BytesField(op.Signature)
	case ContentRelational:
		encodeRelationalInto(e, c.Relational)
	case ContentSnapshot:
		s := c.Snapshot
		e.Fixed(s.StateHash[:])
		e.Varint(uint64(len(s.SupersededFacts)))
		for _, o := range s.SupersededFacts {
			e.Fixed(o[:])
		}
		e.Varint(s.Sequence)
		e.BytesField(s.Signature)
	case ContentRendezvousReceipt:
		r := c.RendezvousReceipt
		e.Fixed(r.EnvelopeID[:])
		e.Fixed(r.Authority[:])
		encodeTimeStamp(e, r.Timestamp)
		e.BytesField(r.Signature)
	}
}

func encodeRelationalInto(e *canon.Encoder, r *RelationalFact) {
	e.Byte(byte(r.Kind))
	switch r.Kind {
	case RelGuardianBinding:
		e.Fixed(r.GuardianBinding.Authority[:])
		e.Fixed(r.GuardianBinding.Guardian[:])
	case RelRecoveryGrant:
		e.Fixed(r.RecoveryGrant.Authority[:])
		e.Fixed(r.RecoveryGrant.Grantee[:])
	case RelConsensusResult:
		f := r.ConsensusResult
		e.Fixed(f.ConsensusID[:])
		e.Fixed(f.OperationHash[:])
		e.BytesField(f.AggregateSig)
		e.Varint(uint64(f.ParticipatingK))
	case RelChannelCheckpoint:
		f := r.ChannelCheckpoint
		e.Fixed(f.Channel[:])
		e.Fixed(f.StateHash[:])
	case RelProposedChannelEpochBump, RelCommittedChannelEpochBump:
		f := r.ProposedChannelEpochBump
		if r.Kind == RelCommittedChannelEpochBump {
			f = r.CommittedChannelEpochBump
		}
		e.Fixed(f.Channel[:])
		e.Fixed(f.BumpID[:])
		e.Varint(f.ParentEpoch)
		e.Varint(f.NewEpoch)
	case RelChannelPolicy:
		f := r.ChannelPolicy
		e.Fixed(f.Channel[:])
		e.Fixed(f.PolicyHash[:])
	case RelLeakageEvent:
		f := r.LeakageEvent
		e.Fixed(f.Source[:])
		e.Fixed(f.Destination[:])
		e.BytesField([]byte(f.ObserverClass))
		e.Varint(f.BudgetConsumed)
	case RelDKGTranscriptCommit:
		f := r.DKGTranscriptCommit
		e.Varint(f.Epoch)
		e.Fixed(f.TranscriptHash[:])
	case RelConvergenceCertificate:
		f := r.ConvergenceCertificate
		e.Fixed(f.StateHash[:])
		e.Varint(f.Epoch)
	case RelReversion:
		e.Fixed(r.Reversion.OpID[:])
	case RelRotate:
		e.Fixed(r.Rotate.Subject[:])
		e.Byte(byte(r.Rotate.Lifecycle))
	case RelGeneric:
		f := r.Generic
		e.Fixed(f.ContextID[:])
		e.BytesField([]byte(f.BindingType))
		e.BytesField(f.BindingData)
	}
}

func encodeTimeStamp(e *canon.Encoder, ts clock.TimeStamp) {
	e.Byte(byte(ts.Kind))
	switch ts.Kind {
	case clock.KindPhysical:
		e.Uint64(uint64(ts.Physical.MsSinceEpoch))
		if ts.Physical.UncertaintyMs != nil {
			e.Byte(1)
			e.Uint64(uint64(*ts.Physical.UncertaintyMs))
		} else {
			e.Byte(0)
		}
	case clock.KindLogical:
		e.Varint(uint64(len(ts.Logical.Vector)))
		keys := make([][16]byte, 0, len(ts.Logical.Vector))
		for k := range ts.Logical.Vector {
			keys = append(keys, k)
		}
		sortVectorKeys(keys)
		for _, k := range keys {
			e.Fixed(k[:])
			e.Uint64(ts.Logical.Vector[k])
		}
		e.Uint64(ts.Logical.Lamport)
	case clock.KindOrder:
		e.Fixed(ts.Order[:])
	case clock.KindRange:
		e.Uint64(uint64(ts.Range.EarliestMs))
		e.Uint64(uint64(ts.Range.LatestMs))
		e.Byte(byte(ts.Range.Confidence))
	}
}

// sortVectorKeys sorts device-id keys lexicographically so a logical
// clock's vector always encodes in the same order regardless of Go's
// randomized map iteration order.
func sortVectorKeys(keys [][16]byte) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			var a, b [16]byte = keys[j-1], keys[j]
			less := false
			for k := 0; k < 16; k++ {
				if a[k] != b[k] {
					less = a[k] < b[k]
					break
				}
			}
			if less {
				break
			}
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

