package fact

import "github.com/hxrts/aura/identity"

type epochPair struct {
	Parent uint64
	New    uint64
}

// channelEpochState tracks a single channel's committed epoch plus any
// optimistically-accepted proposals, so a later committed bump can
// supersede the right proposal and reject a now-impossible one.
type channelEpochState struct {
	CurrentEpoch   uint64
	ProposedBumps  map[epochPair]identity.Hash32 // lexicographic-min bump id seen per pair
	CommittedBumps map[epochPair]bool
}

func newChannelEpochState() *channelEpochState {
	return &channelEpochState{
		ProposedBumps:  make(map[epochPair]identity.Hash32),
		CommittedBumps: make(map[epochPair]bool),
	}
}

type leakageKey struct {
	Source      identity.AuthorityId
	Destination identity.AuthorityId
}

// AuthorityState is the deterministic fold of a journal's facts: the
// commitment tree root, active device/guardian leaves, policy, epoch,
// and per-context frontiers (spec.md §3).
type AuthorityState struct {
	Root     identity.Hash32
	Policy   identity.Hash32
	Epoch    uint64

	ActiveDevices   map[identity.DeviceId]bool
	ActiveGuardians map[identity.DeviceId]bool
	DeviceLifecycle map[identity.DeviceId]LifecycleState

	ContextFrontiers map[identity.ContextId]uint64 // monotone sequence watermark, advanced per receipt

	ConsensusResults map[identity.ConsensusId]identity.Hash32

	channelEpochs map[identity.ChannelId]*channelEpochState
	channelPolicy map[identity.ChannelId]identity.Hash32

	LeakageCounters map[leakageKey]uint64

	RevertedOps map[identity.Hash32]bool

	GuardianBindings map[identity.AuthorityId]map[identity.DeviceId]bool
	RecoveryGrants   map[identity.AuthorityId]map[identity.DeviceId]bool

	// AppliedCount and RejectedCount are observability counters, not
	// part of the CRDT semantics; they are returned directly in the
	// state Reduce produces rather than cached on the Journal, since a
	// journal has no single current AuthorityState of its own.
	AppliedCount  int
	RejectedCount int
}

// NewAuthorityState returns the zero authority state: empty commitment
// tree, epoch 0, no active devices.
func NewAuthorityState() *AuthorityState {
	return &AuthorityState{
		ActiveDevices:    make(map[identity.DeviceId]bool),
		ActiveGuardians:  make(map[identity.DeviceId]bool),
		DeviceLifecycle:  make(map[identity.DeviceId]LifecycleState),
		ContextFrontiers: make(map[identity.ContextId]uint64),
		ConsensusResults: make(map[identity.ConsensusId]identity.Hash32),
		channelEpochs:    make(map[identity.ChannelId]*channelEpochState),
		channelPolicy:    make(map[identity.ChannelId]identity.Hash32),
		LeakageCounters:  make(map[leakageKey]uint64),
		RevertedOps:      make(map[identity.Hash32]bool),
		GuardianBindings: make(map[identity.AuthorityId]map[identity.DeviceId]bool),
		RecoveryGrants:   make(map[identity.AuthorityId]map[identity.DeviceId]bool),
	}
}

func (s *AuthorityState) channelEpoch(ch identity.ChannelId) *channelEpochState {
	ces, ok := s.channelEpochs[ch]
	if !ok {
		ces = newChannelEpochState()
		s.channelEpochs[ch] = ces
	}
	return ces
}

// ChannelEpoch returns a channel's currently committed epoch.
func (s *AuthorityState) ChannelEpoch(ch identity.ChannelId) uint64 {
	if ces, ok := s.channelEpochs[ch]; ok {
		return ces.CurrentEpoch
	}
	return 0
}

// ChannelPolicy returns a channel's current policy hash, if set.
func (s *AuthorityState) ChannelPolicy(ch identity.ChannelId) (identity.Hash32, bool) {
	h, ok := s.channelPolicy[ch]
	return h, ok
}

// LeakageSpent returns how much leakage budget (source,destination) has
// accumulated so far.
func (s *AuthorityState) LeakageSpent(source, destination identity.AuthorityId) uint64 {
	return s.LeakageCounters[leakageKey{Source: source, Destination: destination}]
}

// Clone returns a deep-enough copy for callers that want to mutate a
// working copy without perturbing a previously-reduced state.
func (s *AuthorityState) Clone() *AuthorityState {
	c := NewAuthorityState()
	c.Root, c.Policy, c.Epoch = s.Root, s.Policy, s.Epoch
	c.AppliedCount, c.RejectedCount = s.AppliedCount, s.RejectedCount
	for k, v := range s.ActiveDevices {
		c.ActiveDevices[k] = v
	}
	for k, v := range s.ActiveGuardians {
		c.ActiveGuardians[k] = v
	}
	for k, v := range s.DeviceLifecycle {
		c.DeviceLifecycle[k] = v
	}
	for k, v := range s.ContextFrontiers {
		c.ContextFrontiers[k] = v
	}
	for k, v := range s.ConsensusResults {
		c.ConsensusResults[k] = v
	}
	for ch, ces := range s.channelEpochs {
		clone := newChannelEpochState()
		clone.CurrentEpoch = ces.CurrentEpoch
		for k, v := range ces.ProposedBumps {
			clone.ProposedBumps[k] = v
		}
		for k, v := range ces.CommittedBumps {
			clone.CommittedBumps[k] = v
		}
		c.channelEpochs[ch] = clone
	}
	for k, v := range s.channelPolicy {
		c.channelPolicy[k] = v
	}
	for k, v := range s.LeakageCounters {
		c.LeakageCounters[k] = v
	}
	for k, v := range s.RevertedOps {
		c.RevertedOps[k] = v
	}
	for a, ds := range s.GuardianBindings {
		m := make(map[identity.DeviceId]bool, len(ds))
		for d, v := range ds {
			m[d] = v
		}
		c.GuardianBindings[a] = m
	}
	for a, ds := range s.RecoveryGrants {
		m := make(map[identity.DeviceId]bool, len(ds))
		for d, v := range ds {
			m[d] = v
		}
		c.RecoveryGrants[a] = m
	}
	return c
}
