// Package effects collects the injected side-effect interfaces Aura's
// pure cores (journal reduction, the guard chain, consensus instances)
// are parameterized by (spec.md §6 "Effect interfaces"). Production
// code wires real implementations; effects/simulator wires
// deterministic, seed-driven ones so the whole system can be driven
// from a single seed in tests.
package effects

import (
	"context"

	"github.com/hxrts/aura/capability"
	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
	"github.com/hxrts/aura/threshold"
)

// Clock reports wall-clock time and supports deadline-bound sleeping
// (spec.md §6 "Clock").
type Clock interface {
	NowMs() int64
	Sleep(ctx context.Context, ms int64) error
}

// LogicalClock advances and merges a device's vector+Lamport clock
// (spec.md §6 "Logical clock").
type LogicalClock interface {
	Tick(device identity.DeviceId) clock.LogicalClock
	Merge(a, b clock.LogicalClock) clock.LogicalClock
}

// OrderKeySource hands out strictly monotone per-authority order keys
// for new facts (spec.md §6 "Order key").
type OrderKeySource interface {
	NextOrderKey(authority identity.AuthorityId) clock.OrderTime
}

// Randomness supplies cryptographic-quality random bytes (spec.md §6
// "Randomness").
type Randomness interface {
	RandomBytes(n int) []byte
}

// Storage is the durable key/value layer a journal's append-only log
// and snapshot log sit on (spec.md §6 "Storage" / "Persisted state
// layout").
type Storage interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key, value []byte) error
	Commit(ctx context.Context, batch map[string][]byte) error
}

// Envelope is a single transport-level delivery: an opaque payload
// addressed to a peer, used by both Transport.Send and the receive
// stream.
type Envelope struct {
	Peer    identity.AuthorityId
	Payload []byte
}

// Transport sends and receives message envelopes between authorities
// (spec.md §6 "Transport").
type Transport interface {
	Send(ctx context.Context, peer identity.AuthorityId, payload []byte, deadlineMs int64) (capability.Receipt, error)
	Receive(ctx context.Context) (<-chan Envelope, error)
}

// ThresholdSigner is an alias for threshold.Signer, named here so
// callers that only import effects see every injected interface in
// one place, matching spec.md §6's single "Effect interfaces" table.
type ThresholdSigner = threshold.Signer

// CapabilityOracle is an alias for capability.Oracle, kept alongside
// ThresholdSigner for the same reason.
type CapabilityOracle = capability.Oracle

// Runtime bundles every effect interface a fully wired Aura node
// needs, so constructors that assemble a node take one Runtime value
// instead of eight separate parameters.
type Runtime struct {
	Clock      Clock
	Logical    LogicalClock
	OrderKeys  OrderKeySource
	Random     Randomness
	Storage    Storage
	Transport  Transport
	Signer     ThresholdSigner
	Capability CapabilityOracle
}
