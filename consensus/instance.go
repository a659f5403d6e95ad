package consensus

import (
	"go.uber.org/zap"

	"github.com/hxrts/aura/canon"
	"github.com/hxrts/aura/evidence"
	"github.com/hxrts/aura/identity"
	"github.com/hxrts/aura/internal/alog"
	"github.com/hxrts/aura/threshold"
)

// MagicShareMsg tags the canonical message a share's signature is
// bound to: ConsensusId, pre-state hash, and operation hash (spec.md
// §4.3 "bound to ConsensusId, pre_state_hash, and operation_hash").
const MagicShareMsg canon.Magic = 0x53484731 // "SHG1"
const shareMsgVersion canon.SchemaVersion = 1

// ShareMessage canonically encodes what a SignShare's signature
// attests to, so verification never depends on field ordering a
// witness and coordinator might disagree about.
func ShareMessage(id identity.ConsensusId, preStateHash, operationHash identity.Hash32) []byte {
	e := canon.NewEncoder(MagicShareMsg, shareMsgVersion)
	e.Fixed(id[:])
	e.Fixed(preStateHash[:])
	e.Fixed(operationHash[:])
	return e.Bytes()
}

// Instance is the per-ConsensusId state machine (spec.md §4.3). It
// holds no transport or storage handles; SubmitShare and Tick are its
// only inputs, and both are pure functions of (Instance, input) ->
// (Instance, outputs), making the whole engine simulator-driveable.
type Instance struct {
	ID           identity.ConsensusId
	Phase        Phase
	PreStateHash identity.Hash32

	witnesses map[identity.DeviceId]bool
	k         int

	fastPathDeadlineMs int64
	fallbackDeadlineMs int64
	preparingAtMs      int64
	fallbackAtMs       int64

	evidenceSet *evidence.Set
	sharesByOp  map[identity.Hash32][]threshold.Share

	signer  threshold.Signer
	groupPK []byte

	// Log receives phase-transition events, grounded on the teacher's
	// protocol/nova/consensus.go pattern of passing zap.Field values
	// straight into the injected Logger. Defaults to a no-op logger;
	// callers that want a trace can replace it after NewInstance.
	Log alog.Logger

	CommittedOpHash identity.Hash32
	CommittedSig    threshold.Signature
}

// NewInstance constructs a fresh Preparing-phase instance.
func NewInstance(
	id identity.ConsensusId,
	preStateHash identity.Hash32,
	witnesses []identity.DeviceId,
	k int,
	signer threshold.Signer,
	groupPK []byte,
	fastPathDeadlineMs, fallbackDeadlineMs int64,
) *Instance {
	ws := make(map[identity.DeviceId]bool, len(witnesses))
	for _, w := range witnesses {
		ws[w] = true
	}
	return &Instance{
		ID:                  id,
		Phase:               Preparing,
		PreStateHash:        preStateHash,
		witnesses:           ws,
		k:                   k,
		fastPathDeadlineMs:  fastPathDeadlineMs,
		fallbackDeadlineMs:  fallbackDeadlineMs,
		evidenceSet:         evidence.New(),
		sharesByOp:          make(map[identity.Hash32][]threshold.Share),
		signer:              signer,
		groupPK:             groupPK,
		Log:                 alog.NewNoOp(),
	}
}

// Execute is the coordinator's entry point: Preparing -> CollectingShares
// (spec.md §4.3 state table). The broadcast of SignRequest itself is an
// effect the runtime performs; Execute only advances the phase.
func (inst *Instance) Execute(nowMs int64) error {
	if inst.Phase != Preparing {
		return ErrPhaseViolation
	}
	inst.Phase = CollectingShares
	inst.preparingAtMs = nowMs
	inst.Log.Debug("consensus phase advanced",
		zap.Stringer("consensusID", inst.ID),
		zap.Stringer("phase", inst.Phase),
	)
	return nil
}

// SubmitShare folds a witness's SignShare into the instance: it
// records the vote in the evidence CRDT, checks for equivocation, and
// attempts to commit once k valid shares exist on a single proposal
// (spec.md §4.3 "Threshold-share aggregation"). witnessIndex is the
// witness's position in the group's public-key ordering, needed by
// Signer.Aggregate.
func (inst *Instance) SubmitShare(witness identity.DeviceId, witnessIndex int, operationHash identity.Hash32, sig []byte, nowMs int64) error {
	if inst.Phase.terminal() {
		return nil // ignore further shares, per spec.md §4.3
	}
	if inst.Phase != CollectingShares && inst.Phase != Fallback {
		return ErrPhaseViolation
	}
	if !inst.witnesses[witness] {
		return ErrUnknownWitness
	}

	msg := ShareMessage(inst.ID, inst.PreStateHash, operationHash)
	if !inst.signer.Verify(threshold.Signature{Bytes: sig}, msg, inst.groupPK) {
		return ErrSignatureInvalid
	}

	inst.evidenceSet.Add(evidence.Vote{Witness: witness, ProposalHash: operationHash, Signature: sig})
	inst.sharesByOp[operationHash] = append(inst.sharesByOp[operationHash], threshold.Share{ParticipantIndex: witnessIndex, Bytes: sig})

	if inst.Phase == CollectingShares && len(inst.evidenceSet.Equivocators()) > 0 {
		inst.Phase = Fallback
		inst.fallbackAtMs = nowMs
		inst.Log.Debug("consensus phase advanced",
			zap.Stringer("consensusID", inst.ID),
			zap.Stringer("phase", inst.Phase),
			zap.Int("equivocators", len(inst.evidenceSet.Equivocators())),
		)
	}

	return inst.tryCommit(nowMs)
}

// tryCommit looks for an operation hash with k valid (non-equivocator)
// shares. If more than one candidate reaches k simultaneously — only
// possible when k witnesses equivocated — the lexicographically
// smaller operation hash is chosen, per spec.md §4.3 and §8 scenario 2.
func (inst *Instance) tryCommit(nowMs int64) error {
	var winner *identity.Hash32
	for opHash := range inst.sharesByOp {
		h := opHash
		if len(inst.evidenceSet.SharesForProposal(h)) < inst.k {
			continue
		}
		if winner == nil || h.Compare(*winner) < 0 {
			winner = &h
		}
	}
	if winner == nil {
		return nil
	}

	honestShares := inst.evidenceSet.SharesForProposal(*winner)
	shares := make([]threshold.Share, 0, len(honestShares))
	for _, v := range honestShares {
		for _, s := range inst.sharesByOp[*winner] {
			// threshold.Share doesn't carry the witness id, so match by
			// signature bytes to keep only the honest subset's shares.
			if string(s.Bytes) == string(v.Signature) {
				shares = append(shares, s)
				break
			}
		}
	}

	if inst.Phase == CollectingShares {
		inst.Phase = FastPath
	}

	msg := ShareMessage(inst.ID, inst.PreStateHash, *winner)
	sig, err := inst.signer.Aggregate(msg, shares, inst.k)
	if err != nil {
		return nil // not enough honest shares yet; no commit, phase stays FastPath or Fallback
	}

	inst.CommittedOpHash = *winner
	inst.CommittedSig = sig
	inst.Phase = Committed
	inst.Log.Debug("consensus phase advanced",
		zap.Stringer("consensusID", inst.ID),
		zap.Stringer("phase", inst.Phase),
		zap.Stringer("committedOpHash", inst.CommittedOpHash),
	)
	return nil
}

// Tick advances deadline-driven transitions: CollectingShares falls
// back to Fallback once the fast-path deadline passes without k
// shares, and Fallback fails once the fallback deadline passes without
// a stabilized majority (spec.md §4.3 state table).
func (inst *Instance) Tick(nowMs int64) {
	switch inst.Phase {
	case CollectingShares:
		if nowMs-inst.preparingAtMs > inst.fastPathDeadlineMs {
			inst.Phase = Fallback
			inst.fallbackAtMs = nowMs
			inst.Log.Debug("consensus deadline elapsed",
				zap.Stringer("consensusID", inst.ID),
				zap.Stringer("phase", inst.Phase),
			)
		}
	case Fallback:
		if nowMs-inst.fallbackAtMs > inst.fallbackDeadlineMs {
			inst.Phase = Failed
			inst.Log.Debug("consensus deadline elapsed",
				zap.Stringer("consensusID", inst.ID),
				zap.Stringer("phase", inst.Phase),
			)
		}
	}
}

// Equivocators returns the witnesses this instance has caught signing
// two distinct proposals.
func (inst *Instance) Equivocators() map[identity.DeviceId]bool {
	return inst.evidenceSet.Equivocators()
}
