package ledger

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "xfriends/internal/platform/errors"
)

const (
	contractAddr = "0x00000000000000000000000000000000000000c0"
	owner        = "0x1111111111111111111111111111111111111111"
	goodTx       = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	badTx        = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	unknownTx    = "0xcccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"
)

type fakeBackend struct {
	t        *testing.T
	abi      abi.ABI
	needs    bool
	count    *big.Int
	callErr  error
	receipts map[common.Hash]*types.Receipt
	rcptErr  error
}

func newFake(t *testing.T) *fakeBackend {
	parsed, err := abi.JSON(strings.NewReader(ContractABI))
	require.NoError(t, err)
	return &fakeBackend{t: t, abi: parsed, count: big.NewInt(0), receipts: map[common.Hash]*types.Receipt{}}
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	require.NotNil(f.t, msg.To)
	assert.Equal(f.t, common.HexToAddress(contractAddr), *msg.To)

	id, args := msg.Data[:4], msg.Data[4:]
	for name, m := range f.abi.Methods {
		if !bytes.Equal(m.ID, id) {
			continue
		}
		in, err := m.Inputs.Unpack(args)
		require.NoError(f.t, err)
		assert.Equal(f.t, common.HexToAddress(owner), in[0])
		switch name {
		case "canQuery":
			return m.Outputs.Pack(f.needs, f.count)
		case "userQueryCount":
			return m.Outputs.Pack(f.count)
		}
	}
	f.t.Fatalf("unexpected selector %x", id)
	return nil, nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	if f.rcptErr != nil {
		return nil, f.rcptErr
	}
	r, ok := f.receipts[h]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func TestCanQuery(t *testing.T) {
	fb := newFake(t)
	fb.needs, fb.count = true, big.NewInt(4)
	c, err := New(fb, contractAddr)
	require.NoError(t, err)

	st, err := c.CanQuery(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, Status{NeedsPayment: true, QueryCount: 4}, st)

	n, err := c.UserQueryCount(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)
}

func TestCanQuery_Errors(t *testing.T) {
	fb := newFake(t)
	c, err := New(fb, contractAddr)
	require.NoError(t, err)

	_, err = c.CanQuery(context.Background(), "not-an-address")
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	fb.callErr = errors.New("rpc down")
	_, err = c.CanQuery(context.Background(), owner)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	assert.NotContains(t, perr.Public(err), "rpc down")
}

func TestReceiptSucceeded(t *testing.T) {
	fb := newFake(t)
	fb.receipts[common.HexToHash(goodTx)] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	fb.receipts[common.HexToHash(badTx)] = &types.Receipt{Status: types.ReceiptStatusFailed}
	c, err := New(fb, contractAddr)
	require.NoError(t, err)

	ok, err := c.ReceiptSucceeded(context.Background(), goodTx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ReceiptSucceeded(context.Background(), badTx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.ReceiptSucceeded(context.Background(), unknownTx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.ReceiptSucceeded(context.Background(), "0x1234")
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	fb.rcptErr = errors.New("timeout")
	_, err = c.ReceiptSucceeded(context.Background(), goodTx)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
}

func TestNew_RejectsBadAddress(t *testing.T) {
	_, err := New(newFake(t), "0x123")
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestValidTxHash(t *testing.T) {
	assert.True(t, ValidTxHash(goodTx))
	assert.True(t, ValidTxHash(strings.ToUpper(goodTx[:2])+goodTx[2:]))
	assert.False(t, ValidTxHash(goodTx[:65]))
	assert.False(t, ValidTxHash("0x"+strings.Repeat("z", 64)))
	assert.False(t, ValidTxHash(strings.Repeat("a", 66)))
}

func TestClampU64(t *testing.T) {
	assert.Zero(t, clampU64(nil))
	assert.Zero(t, clampU64(big.NewInt(-1)))
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	assert.Equal(t, ^uint64(0), clampU64(huge))
}
