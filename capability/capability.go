// Package capability implements Aura's attenuated credential check: a
// Biscuit-style token carrying a monotonically shrinking permission
// set, and the CapabilityOracle effect interface the guard chain
// consumes to authorize a send (spec.md §3/§4.2).
package capability

import (
	"errors"

	"github.com/hxrts/aura/identity"
)

// ErrUnauthorized is returned when a token does not authorize an
// operation in the presented context.
var ErrUnauthorized = errors.New("capability: unauthorized")

// Operation names a guard-chain-mediated action a token may permit.
// Protocol messages statically declare the capability they require
// (spec.md §4.2 "Annotations").
type Operation string

// Token is an attenuated credential: a base permission set plus zero
// or more attenuations, each of which can only narrow what the
// previous step allowed, never widen it. Presentation yields a
// receipt that must be journaled (spec.md §3).
type Token struct {
	Subject      identity.AuthorityId
	Permissions  map[Operation]bool
	Attenuations []Attenuation
	Signature    []byte
}

// Attenuation narrows a token's permitted operation set. Aura models
// attenuation as caveats restricting the token to a context, rather
// than a general predicate language, since the core only ever needs
// to check "may subject perform op in ctx".
type Attenuation struct {
	RestrictToContext identity.ContextId
	RestrictToOps      map[Operation]bool
}

// Receipt attests that a token was presented and the check's outcome.
// guard.Evaluate carries it in the EffectCommand it returns whether or
// not the check passed; it does not write it to a journal itself.
type Receipt struct {
	Subject   identity.AuthorityId
	Operation Operation
	Context   identity.ContextId
	Allowed   bool
}

// Allows reports whether t permits op in ctx: op must be in the base
// permissions, every attenuation that restricts the context must
// restrict it to exactly ctx, and every attenuation that restricts
// operations must include op.
func (t Token) Allows(op Operation, ctx identity.ContextId) bool {
	if !t.Permissions[op] {
		return false
	}
	for _, a := range t.Attenuations {
		if !a.RestrictToContext.IsZero() && a.RestrictToContext != ctx {
			return false
		}
		if a.RestrictToOps != nil && !a.RestrictToOps[op] {
			return false
		}
	}
	return true
}

// Oracle is the effect interface the guard chain's capability-guard
// step consumes (spec.md §6 "Capability oracle"). A production
// implementation verifies t.Signature against the issuing authority's
// key; Aura's core never does that verification itself, keeping the
// capability check injectable and simulator-controllable.
type Oracle interface {
	Check(t Token, op Operation, ctx identity.ContextId) (Receipt, error)
}

// StaticOracle is the simplest Oracle: it trusts Token.Allows and does
// not verify signatures, suitable for the deterministic simulator and
// for tests that exercise the guard chain's pipeline logic rather than
// the credential scheme itself.
type StaticOracle struct{}

func (StaticOracle) Check(t Token, op Operation, ctx identity.ContextId) (Receipt, error) {
	r := Receipt{Subject: t.Subject, Operation: op, Context: ctx, Allowed: t.Allows(op, ctx)}
	if !r.Allowed {
		return r, ErrUnauthorized
	}
	return r, nil
}
