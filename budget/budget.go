// Package budget implements Aura's flow and leakage budgets: pure,
// side-effect-free charge functions over a (spent, limit, cost) triple
// (spec.md §3/§4.2). Limits are never stored alongside spent counters;
// callers derive the limit from policy at evaluation time and pass it
// in, the same separation config.Parameters draws between tunables and
// accumulated state.
package budget

import "errors"

// ErrOverBudget is returned when a charge would push spent past limit.
var ErrOverBudget = errors.New("budget: charge exceeds limit")

// Charge attempts to add cost to spent without exceeding limit. On
// success it returns the new spent total; on failure it returns the
// unchanged spent and ErrOverBudget, per spec.md §3: "a charge is a
// pure function (spent, limit, cost) -> Result<spent+cost, OverBudget>".
func Charge(spent, limit, cost uint64) (uint64, error) {
	next := spent + cost
	if next > limit || next < spent { // next < spent catches overflow wraparound
		return spent, ErrOverBudget
	}
	return next, nil
}

// Counter is a single (authority, observer-class) flow or leakage
// counter. It holds only the spent side; the limit is supplied per
// charge from policy, matching Charge's pure-function contract.
type Counter struct {
	Spent uint64
}

// TryCharge charges cost against c.Spent, mutating it only on success.
// Guard-chain callers serialize TryCharge per observer class (spec.md
// §4.2 invariant: "leakage budget is never over-spent across
// concurrent evaluators") so no additional locking lives here.
func (c *Counter) TryCharge(limit, cost uint64) error {
	next, err := Charge(c.Spent, limit, cost)
	if err != nil {
		return err
	}
	c.Spent = next
	return nil
}

// Reservation is a deferred-commit ticket produced by the flow guard
// step (spec.md §4.2 step 2): cost is held pending but not yet folded
// into the counter until Commit, and Release returns it unspent on
// cancellation or transport failure.
type Reservation struct {
	counter *Counter
	cost    uint64
	limit   uint64
	held    bool
}

// Reserve atomically checks spent+cost <= limit and returns a
// Reservation the caller must later Commit or Release exactly once.
// The counter's Spent is left untouched until Commit.
func Reserve(c *Counter, limit, cost uint64) (*Reservation, error) {
	if _, err := Charge(c.Spent, limit, cost); err != nil {
		return nil, err
	}
	return &Reservation{counter: c, cost: cost, limit: limit, held: true}, nil
}

// Commit folds the reservation's cost into the underlying counter. It
// re-validates against limit in case concurrent reservations on the
// same counter (serialized by the caller per spec.md §4.2) would now
// overrun it.
func (r *Reservation) Commit() error {
	if !r.held {
		return errors.New("budget: reservation already resolved")
	}
	r.held = false
	return r.counter.TryCharge(r.limit, r.cost)
}

// Release discards the reservation without charging anything, used on
// cancellation, timeout, or transport failure (spec.md §5
// "Cancellation & timeouts": "the guard chain must release any
// flow-budget reservation").
func (r *Reservation) Release() {
	r.held = false
}
