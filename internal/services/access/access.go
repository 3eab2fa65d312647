// Package access decides whether an owner may query for free or must show a payment
// The ledger is the source of truth and every ledger failure denies
package access

import (
	"context"
	"fmt"
	"math"

	"xfriends/internal/adapters/ledger"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
)

// Ledger is the chain read port
type Ledger interface {
	CanQuery(ctx context.Context, owner string) (ledger.Status, error)
	ReceiptSucceeded(ctx context.Context, tx string) (bool, error)
}

// Counter is a ledger that can also read the raw paid query counter
type Counter interface {
	UserQueryCount(ctx context.Context, owner string) (uint64, error)
}

// Record is an owner's access state
type Record struct {
	NeedsPayment bool  `json:"needsPayment"`
	QueryCount   int64 `json:"queryCount"`
}

// Gate answers access questions; a disabled gate lets everything through without touching the ledger
type Gate struct {
	l       Ledger
	enabled bool
	log     logger.Logger
}

// New builds a gate; enabled is the payment mode capability flag
func New(l Ledger, enabled bool) *Gate {
	return &Gate{l: l, enabled: enabled, log: *logger.Named("access")}
}

// Enabled reports whether payment mode is on
func (g *Gate) Enabled() bool { return g.enabled }

// ErrCheckFailed is the public face of any ledger read failure
var ErrCheckFailed = perr.Unavailablef("Failed to check payment status")

// CheckAccess reads the owner's state from the ledger
func (g *Gate) CheckAccess(ctx context.Context, owner string) (Record, error) {
	if owner == "" {
		return Record{}, perr.Validationf("Address parameter is required")
	}
	if !ledger.ValidAddress(owner) {
		return Record{}, perr.WithField(perr.Validationf("invalid address"), "address")
	}
	if !g.enabled {
		return Record{}, nil
	}
	if g.l == nil {
		return Record{}, ErrCheckFailed
	}

	st, err := g.l.CanQuery(ctx, owner)
	if err != nil {
		g.log.Error().Err(err).Str("owner", owner).Msg("ledger canQuery failed")
		return Record{}, perr.Wrap(err, perr.ErrorCodeUnavailable, perr.Public(ErrCheckFailed))
	}

	rec := Record{NeedsPayment: st.NeedsPayment, QueryCount: toInt64(st.QueryCount)}
	if rec.QueryCount == 0 {
		rec.NeedsPayment = false
	}
	return rec, nil
}

// VerifyAccess reports whether owner may run a query now
// free while the ledger count is zero, otherwise proof must be a successful transaction
func (g *Gate) VerifyAccess(ctx context.Context, owner, proof string) bool {
	if !g.enabled {
		return true
	}
	if g.l == nil || !ledger.ValidAddress(owner) {
		return false
	}

	st, err := g.l.CanQuery(ctx, owner)
	if err != nil {
		g.log.Error().Err(err).Str("owner", owner).Msg("ledger canQuery failed, denying")
		return false
	}
	if st.QueryCount == 0 {
		return true
	}
	if proof == "" || !ledger.ValidTxHash(proof) {
		return false
	}

	ok, err := g.l.ReceiptSucceeded(ctx, proof)
	if err != nil {
		g.log.Error().Err(err).Str("owner", owner).Str("tx", proof).Msg("receipt lookup failed, denying")
		return false
	}
	return ok
}

// UserQueryCount reads the owner's counter straight from the ledger
// zero when the gate is off or the ledger cannot count
func (g *Gate) UserQueryCount(ctx context.Context, owner string) (int64, error) {
	if !ledger.ValidAddress(owner) {
		return 0, perr.WithField(perr.Validationf("invalid address"), "address")
	}
	c, ok := g.l.(Counter)
	if !g.enabled || !ok {
		return 0, nil
	}
	n, err := c.UserQueryCount(ctx, owner)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnavailable, perr.Public(ErrCheckFailed))
	}
	return toInt64(n), nil
}

// Message is the human readable summary shown next to a Record
func Message(r Record) string {
	if r.QueryCount == 0 {
		return "First query is free!"
	}
	return fmt.Sprintf("This will be query #%d. Payment required.", r.QueryCount+1)
}

func toInt64(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
