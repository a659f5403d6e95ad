// Package fact implements Aura's fact journal: a join-semilattice CRDT of
// attested facts, a deterministic reducer into authority state, and
// bounded garbage collection via snapshot facts (spec.md §4.1).
package fact

import (
	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
)

// NamespaceKind tags which half of the Namespace union is populated.
type NamespaceKind uint8

const (
	NamespaceAuthority NamespaceKind = iota
	NamespaceContext
)

// Namespace scopes a journal (and every fact within it) to either a
// single authority or a single shared context. A journal only ever
// contains facts of its declared namespace (spec.md §3 invariant).
type Namespace struct {
	Kind      NamespaceKind
	Authority identity.AuthorityId
	Context   identity.ContextId
}

func AuthorityNamespace(a identity.AuthorityId) Namespace {
	return Namespace{Kind: NamespaceAuthority, Authority: a}
}

func ContextNamespace(c identity.ContextId) Namespace {
	return Namespace{Kind: NamespaceContext, Context: c}
}

func (n Namespace) Equal(other Namespace) bool {
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case NamespaceAuthority:
		return n.Authority == other.Authority
	default:
		return n.Context == other.Context
	}
}

func (n Namespace) String() string {
	if n.Kind == NamespaceAuthority {
		return "authority:" + n.Authority.String()
	}
	return "context:" + n.Context.String()
}

// ContentKind tags which FactContent variant is populated.
type ContentKind uint8

const (
	ContentAttestedOp ContentKind = iota
	ContentRelational
	ContentSnapshot
	ContentRendezvousReceipt
)

// TreeOp enumerates the commitment-tree mutations an AttestedOp can carry.
type TreeOp uint8

const (
	OpAddLeaf TreeOp = iota
	OpRemoveLeaf
	OpUpdatePolicy
	OpRotateEpoch
)

// AttestedOp is a threshold-signed commitment-tree mutation.
type AttestedOp struct {
	OpID             identity.Hash32 // this op's own content-addressed id, the target of a later ReversionFact
	Op               TreeOp
	Leaf             identity.DeviceId // meaningful for AddLeaf/RemoveLeaf
	LeafIsGuardian   bool
	PolicyHash       identity.Hash32 // meaningful for UpdatePolicy
	ParentCommitment identity.Hash32
	NewCommitment    identity.Hash32
	WitnessThreshold int
	Signature        []byte
}

// RelationalKind enumerates the twelve typed protocol relational facts
// plus the Generic extension point (spec.md §3).
type RelationalKind uint8

const (
	RelGuardianBinding RelationalKind = iota
	RelRecoveryGrant
	RelConsensusResult
	RelChannelCheckpoint
	RelProposedChannelEpochBump
	RelCommittedChannelEpochBump
	RelChannelPolicy
	RelLeakageEvent
	RelDKGTranscriptCommit
	RelConvergenceCertificate
	RelReversion
	RelRotate
	RelGeneric
)

type GuardianBindingFact struct {
	Authority identity.AuthorityId
	Guardian  identity.DeviceId
}

type RecoveryGrantFact struct {
	Authority identity.AuthorityId
	Grantee   identity.DeviceId
}

type ConsensusResultFact struct {
	ConsensusID       identity.ConsensusId
	OperationHash     identity.Hash32
	AggregateSig      []byte
	ParticipatingK    int
}

type ChannelCheckpointFact struct {
	Channel   identity.ChannelId
	StateHash identity.Hash32
}

type ChannelEpochBumpFact struct {
	Channel     identity.ChannelId
	BumpID      identity.Hash32
	ParentEpoch uint64
	NewEpoch    uint64
}

type ChannelPolicyFact struct {
	Channel    identity.ChannelId
	PolicyHash identity.Hash32
}

type LeakageEventFact struct {
	Source         identity.AuthorityId
	Destination    identity.AuthorityId
	ObserverClass  string
	BudgetConsumed uint64
}

type DKGTranscriptCommitFact struct {
	Epoch          uint64
	TranscriptHash identity.Hash32
}

type ConvergenceCertificateFact struct {
	StateHash identity.Hash32
	Epoch     uint64
}

type ReversionFact struct {
	OpID identity.Hash32
}

// LifecycleState is a device/guardian's rotation lifecycle, advanced
// monotonically by RotateFact: active -> rotating -> deprecated -> revoked.
type LifecycleState uint8

const (
	LifecycleActive LifecycleState = iota
	LifecycleRotating
	LifecycleDeprecated
	LifecycleRevoked
)

type RotateFact struct {
	Subject   identity.DeviceId
	Lifecycle LifecycleState
}

type GenericFact struct {
	ContextID   identity.ContextId
	BindingType string
	BindingData []byte
}

// RelationalFact is the tagged union of the 12 protocol relational fact
// kinds plus the Generic extension.
type RelationalFact struct {
	Kind                      RelationalKind
	GuardianBinding           *GuardianBindingFact
	RecoveryGrant             *RecoveryGrantFact
	ConsensusResult           *ConsensusResultFact
	ChannelCheckpoint         *ChannelCheckpointFact
	ProposedChannelEpochBump  *ChannelEpochBumpFact
	CommittedChannelEpochBump *ChannelEpochBumpFact
	ChannelPolicy             *ChannelPolicyFact
	LeakageEvent              *LeakageEventFact
	DKGTranscriptCommit       *DKGTranscriptCommitFact
	ConvergenceCertificate    *ConvergenceCertificateFact
	Reversion                 *ReversionFact
	Rotate                    *RotateFact
	Generic                   *GenericFact
}

// SnapshotFact attests that a set of prior facts reduces to state_hash,
// enabling garbage collection.
type SnapshotFact struct {
	StateHash       identity.Hash32
	SupersededFacts []clock.OrderTime
	Sequence        uint64
	Signature       []byte
}

// RendezvousReceiptFact is a signed receipt that a message envelope was
// delivered to an authority, stored in the context's frontier.
type RendezvousReceiptFact struct {
	EnvelopeID identity.Hash32
	Authority  identity.AuthorityId
	Timestamp  clock.TimeStamp
	Signature  []byte
}

// FactContent is the tagged union of the four journal-entry variants.
type FactContent struct {
	Kind              ContentKind
	AttestedOp        *AttestedOp
	Relational        *RelationalFact
	Snapshot          *SnapshotFact
	RendezvousReceipt *RendezvousReceiptFact
}

// Fact is a single journal entry: a namespace, an opaque order key, the
// content, and witness/attestation metadata.
type Fact struct {
	Namespace  Namespace
	Order      clock.OrderTime
	Content    FactContent
	WitnessSet []identity.DeviceId
	AttestedAt clock.TimeStamp
}
