package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xfriends/internal/adapters/ledger"
	perr "xfriends/internal/platform/errors"
)

const (
	owner  = "0x1111111111111111111111111111111111111111"
	goodTx = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	badTx  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type fakeLedger struct {
	st       ledger.Status
	err      error
	receipts map[string]bool
	rcptErr  error
	calls    int
}

func (f *fakeLedger) CanQuery(context.Context, string) (ledger.Status, error) {
	f.calls++
	return f.st, f.err
}

func (f *fakeLedger) ReceiptSucceeded(_ context.Context, tx string) (bool, error) {
	f.calls++
	if f.rcptErr != nil {
		return false, f.rcptErr
	}
	return f.receipts[tx], nil
}

func TestCheckAccess_FreeTier(t *testing.T) {
	l := &fakeLedger{st: ledger.Status{NeedsPayment: true, QueryCount: 0}}
	rec, err := New(l, true).CheckAccess(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, Record{NeedsPayment: false, QueryCount: 0}, rec)
	assert.Equal(t, "First query is free!", Message(rec))
}

func TestCheckAccess_PaidTier(t *testing.T) {
	l := &fakeLedger{st: ledger.Status{NeedsPayment: true, QueryCount: 3}}
	rec, err := New(l, true).CheckAccess(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, Record{NeedsPayment: true, QueryCount: 3}, rec)
	assert.Equal(t, "This will be query #4. Payment required.", Message(rec))
}

func TestCheckAccess_Errors(t *testing.T) {
	g := New(&fakeLedger{err: errors.New("rpc 502 secret")}, true)

	_, err := g.CheckAccess(context.Background(), "")
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))
	assert.Equal(t, "Address parameter is required", perr.Public(err))

	_, err = g.CheckAccess(context.Background(), "0xnope")
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	_, err = g.CheckAccess(context.Background(), owner)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	assert.Equal(t, "Failed to check payment status", perr.Public(err))

	_, err = New(nil, true).CheckAccess(context.Background(), owner)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
}

func TestVerifyAccess(t *testing.T) {
	paid := ledger.Status{NeedsPayment: true, QueryCount: 2}
	cases := []struct {
		name  string
		l     *fakeLedger
		proof string
		want  bool
	}{
		{"free tier ignores proof", &fakeLedger{}, "", true},
		{"free tier with junk proof", &fakeLedger{}, "junk", true},
		{"paid without proof", &fakeLedger{st: paid}, "", false},
		{"paid malformed proof", &fakeLedger{st: paid}, "0x12", false},
		{"paid failed tx", &fakeLedger{st: paid, receipts: map[string]bool{badTx: false}}, badTx, false},
		{"paid successful tx", &fakeLedger{st: paid, receipts: map[string]bool{goodTx: true}}, goodTx, true},
		{"ledger read error", &fakeLedger{err: errors.New("down")}, goodTx, false},
		{"receipt error", &fakeLedger{st: paid, rcptErr: errors.New("down")}, goodTx, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.l, true).VerifyAccess(context.Background(), owner, tc.proof))
		})
	}

	assert.False(t, New(&fakeLedger{}, true).VerifyAccess(context.Background(), "bad", ""))
	assert.False(t, New(nil, true).VerifyAccess(context.Background(), owner, goodTx))
}

func TestDisabledGateSkipsLedger(t *testing.T) {
	l := &fakeLedger{err: errors.New("never called")}
	g := New(l, false)
	assert.False(t, g.Enabled())

	rec, err := g.CheckAccess(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
	assert.True(t, g.VerifyAccess(context.Background(), owner, ""))
	assert.Zero(t, l.calls)
}

type countingLedger struct {
	fakeLedger
	n   uint64
	err error
}

func (c *countingLedger) UserQueryCount(context.Context, string) (uint64, error) { return c.n, c.err }

func TestUserQueryCount(t *testing.T) {
	ctx := context.Background()

	n, err := New(&countingLedger{n: 7}, true).UserQueryCount(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	n, err = New(&countingLedger{n: 7}, false).UserQueryCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = New(&fakeLedger{}, true).UserQueryCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = New(&countingLedger{err: errors.New("rpc down")}, true).UserQueryCount(ctx, owner)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	assert.Equal(t, "Failed to check payment status", perr.Public(err))

	_, err = New(&countingLedger{}, true).UserQueryCount(ctx, "0x12")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}
