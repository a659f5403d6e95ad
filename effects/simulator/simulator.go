// Package simulator implements a deterministic, seed-driven runtime
// satisfying effects.Clock, LogicalClock, OrderKeySource, Randomness,
// Storage, and Transport (it provides no ThresholdSigner or
// CapabilityOracle implementation), so a whole Aura
// scenario — consensus instances, guard chain sends, journal merges —
// can be replayed byte-for-byte from one seed (spec.md §8's literal
// scenarios are expressed this way: "ConsensusId = hash(b"c1")",
// fixed witness counts, fixed deadlines).
package simulator

import (
	"context"
	"math/rand"

	"github.com/hxrts/aura/capability"
	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/effects"
	"github.com/hxrts/aura/identity"
)

// Runtime is a single-threaded, deterministic effects.Runtime backing:
// a virtual clock advanced explicitly by Advance (never by wall time),
// a seeded math/rand source, an in-memory key/value store, and an
// in-process transport that queues envelopes per peer.
type Runtime struct {
	rng       *rand.Rand
	nowMs     int64
	orderSeq  map[identity.AuthorityId]uint64
	kv        map[string][]byte
	inboxes   map[identity.AuthorityId][]pendingEnvelope
}

type pendingEnvelope struct {
	from    identity.AuthorityId
	payload []byte
}

// New returns a simulator runtime seeded deterministically; the same
// seed always produces the same sequence of RandomBytes, order keys,
// and scheduling decisions.
func New(seed int64) *Runtime {
	return &Runtime{
		rng:      rand.New(rand.NewSource(seed)),
		orderSeq: make(map[identity.AuthorityId]uint64),
		kv:       make(map[string][]byte),
		inboxes:  make(map[identity.AuthorityId][]pendingEnvelope),
	}
}

// Advance moves the virtual clock forward by ms milliseconds. Nothing
// in the simulator advances time on its own; callers drive the whole
// scenario's pacing explicitly.
func (r *Runtime) Advance(ms int64) { r.nowMs += ms }

// NowMs implements effects.Clock.
func (r *Runtime) NowMs() int64 { return r.nowMs }

// Sleep implements effects.Clock by simply advancing the virtual
// clock; there is no real waiting in a deterministic simulator.
func (r *Runtime) Sleep(ctx context.Context, ms int64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		r.Advance(ms)
		return nil
	}
}

// Tick implements effects.LogicalClock.Tick: advances device's own
// vector component and the shared Lamport counter.
func (r *Runtime) Tick(device identity.DeviceId) clock.LogicalClock {
	return clock.LogicalClock{
		Vector:  map[[16]byte]uint64{[16]byte(device): 1},
		Lamport: 1,
	}
}

// Merge implements effects.LogicalClock.Merge.
func (r *Runtime) Merge(a, b clock.LogicalClock) clock.LogicalClock {
	return a.Merge(b)
}

// NextOrderKey implements effects.OrderKeySource: a strictly monotone
// per-authority counter folded into a 32-byte order key so ordering
// stays stable regardless of how many authorities share the runtime.
func (r *Runtime) NextOrderKey(authority identity.AuthorityId) clock.OrderTime {
	r.orderSeq[authority]++
	seq := r.orderSeq[authority]
	var o clock.OrderTime
	copy(o[:32], authority[:])
	for i := 0; i < 8; i++ {
		o[24+i] = byte(seq >> (8 * (7 - i)))
	}
	return o
}

// RandomBytes implements effects.Randomness from the seeded source.
func (r *Runtime) RandomBytes(n int) []byte {
	b := make([]byte, n)
	r.rng.Read(b)
	return b
}

// Read implements effects.Storage.
func (r *Runtime) Read(ctx context.Context, key []byte) ([]byte, error) {
	v, ok := r.kv[string(key)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Write implements effects.Storage.
func (r *Runtime) Write(ctx context.Context, key, value []byte) error {
	r.kv[string(key)] = value
	return nil
}

// Commit implements effects.Storage's atomic batch commit.
func (r *Runtime) Commit(ctx context.Context, batch map[string][]byte) error {
	for k, v := range batch {
		r.kv[k] = v
	}
	return nil
}

// Send implements effects.Transport by queuing the envelope directly
// into the peer's inbox — there is no real network, so delivery always
// succeeds unless the caller's context is already canceled.
func (r *Runtime) Send(ctx context.Context, peer identity.AuthorityId, payload []byte, deadlineMs int64) (capability.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return capability.Receipt{}, err
	}
	r.inboxes[peer] = append(r.inboxes[peer], pendingEnvelope{payload: payload})
	return capability.Receipt{Allowed: true}, nil
}

// Receive implements effects.Transport.Receive. The simulator has no
// asynchronous delivery of its own — scenarios pull pending envelopes
// explicitly via Deliver — so Receive returns an already-closed,
// always-empty channel, satisfying the interface for code that only
// needs to compile against it.
func (r *Runtime) Receive(ctx context.Context) (<-chan effects.Envelope, error) {
	ch := make(chan effects.Envelope)
	close(ch)
	return ch, nil
}

// Deliver drains a peer's queued envelopes as raw payloads, the
// simulator's actual stand-in for effects.Transport.Receive's stream.
func (r *Runtime) Deliver(peer identity.AuthorityId) [][]byte {
	pending := r.inboxes[peer]
	r.inboxes[peer] = nil
	out := make([][]byte, len(pending))
	for i, p := range pending {
		out[i] = p.payload
	}
	return out
}
