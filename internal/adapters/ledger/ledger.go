// Package ledger reads the query counter contract and payment receipts from an EVM chain
package ledger

import (
	"context"
	stderrs "errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	perr "xfriends/internal/platform/errors"
)

// DefaultRPCURL is the public base mainnet endpoint
const DefaultRPCURL = "https://mainnet.base.org"

// ContractABI covers the read methods the service calls
const ContractABI = `[
 {"type":"function","name":"canQuery","stateMutability":"view",
  "inputs":[{"name":"user","type":"address"}],
  "outputs":[{"name":"needsPayment","type":"bool"},{"name":"queryCount","type":"uint256"}]},
 {"type":"function","name":"userQueryCount","stateMutability":"view",
  "inputs":[{"name":"user","type":"address"}],
  "outputs":[{"name":"","type":"uint256"}]}
]`

// Backend is the slice of ethclient.Client the contract uses
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Status is the contract's view of one owner
type Status struct {
	NeedsPayment bool
	QueryCount   uint64
}

// Contract reads the counter contract at addr
type Contract struct {
	b    Backend
	addr common.Address
	abi  abi.ABI
}

// New binds a contract at addr over b
func New(b Backend, addr string) (*Contract, error) {
	if !common.IsHexAddress(addr) {
		return nil, perr.InvalidArgf("invalid contract address %q", addr)
	}
	parsed, err := abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "parse contract abi")
	}
	return &Contract{b: b, addr: common.HexToAddress(addr), abi: parsed}, nil
}

// Dial connects to rpcURL and binds the contract; close releases the rpc client
func Dial(ctx context.Context, rpcURL, addr string) (c *Contract, closeFn func(), err error) {
	if rpcURL == "" {
		rpcURL = DefaultRPCURL
	}
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "ledger rpc dial failed")
	}
	c, err = New(ec, addr)
	if err != nil {
		ec.Close()
		return nil, nil, err
	}
	return c, ec.Close, nil
}

// ValidAddress reports whether s is a hex encoded 20 byte address
func ValidAddress(s string) bool { return common.IsHexAddress(s) }

// ValidTxHash reports whether s is a 0x prefixed 32 byte hex hash
func ValidTxHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	for _, c := range s[2:] {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func (c *Contract) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "pack %s", method)
	}
	out, err := c.b.CallContract(ctx, ethereum.CallMsg{To: &c.addr, Data: data}, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger call %s failed", method)
	}
	vals, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "unpack %s", method)
	}
	return vals, nil
}

// CanQuery reads canQuery(owner)
func (c *Contract) CanQuery(ctx context.Context, owner string) (Status, error) {
	if !common.IsHexAddress(owner) {
		return Status{}, perr.Validationf("invalid address")
	}
	vals, err := c.call(ctx, "canQuery", common.HexToAddress(owner))
	if err != nil {
		return Status{}, err
	}
	if len(vals) != 2 {
		return Status{}, perr.Upstreamf("canQuery returned %d values", len(vals))
	}
	needs, ok1 := vals[0].(bool)
	count, ok2 := vals[1].(*big.Int)
	if !ok1 || !ok2 {
		return Status{}, perr.Upstreamf("canQuery returned unexpected types")
	}
	return Status{NeedsPayment: needs, QueryCount: clampU64(count)}, nil
}

// UserQueryCount reads userQueryCount(owner)
func (c *Contract) UserQueryCount(ctx context.Context, owner string) (uint64, error) {
	if !common.IsHexAddress(owner) {
		return 0, perr.Validationf("invalid address")
	}
	vals, err := c.call(ctx, "userQueryCount", common.HexToAddress(owner))
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, perr.Upstreamf("userQueryCount returned %d values", len(vals))
	}
	n, ok := vals[0].(*big.Int)
	if !ok {
		return 0, perr.Upstreamf("userQueryCount returned unexpected type")
	}
	return clampU64(n), nil
}

// ReceiptSucceeded reports whether tx is mined with a success status
// a tx the node has never seen is simply not successful
func (c *Contract) ReceiptSucceeded(ctx context.Context, tx string) (bool, error) {
	if !ValidTxHash(tx) {
		return false, perr.Validationf("invalid transaction hash")
	}
	r, err := c.b.TransactionReceipt(ctx, common.HexToHash(tx))
	if stderrs.Is(err, ethereum.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeUnavailable, "ledger receipt lookup failed")
	}
	return r != nil && r.Status == types.ReceiptStatusSuccessful, nil
}

func clampU64(n *big.Int) uint64 {
	if n == nil || n.Sign() < 0 {
		return 0
	}
	if !n.IsUint64() {
		return ^uint64(0)
	}
	return n.Uint64()
}
