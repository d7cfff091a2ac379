package ethereum

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
)

const (
	// ENSIP-3 registry resolver lookup
	registryABIJSON = `[{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`

	// Public resolver subset: reverse name, text records and forward address
	resolverABIJSON = `[
		{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"name","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
		{"constant":true,"inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"name":"text","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
		{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}
	]`
)

var (
	registryABI = mustParseABI(registryABIJSON)
	resolverABI = mustParseABI(resolverABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid abi: %v", err))
	}
	return parsed
}

// EthereumClient performs the name service reads and the code probe against one chain
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// Resolver returns the resolver registered for node, or the zero address
	Resolver(ctx context.Context, registry common.Address, node common.Hash) (common.Address, error)

	// Name calls name(node) on resolver. An empty result is returned as "".
	Name(ctx context.Context, resolver common.Address, node common.Hash) (string, error)

	// Text calls text(node, key) on resolver
	Text(ctx context.Context, resolver common.Address, node common.Hash, key string) (string, error)

	// Addr calls addr(node) on resolver
	Addr(ctx context.Context, resolver common.Address, node common.Hash) (common.Address, error)

	// HasCode reports whether bytecode is deployed at address
	HasCode(ctx context.Context, address common.Address) (bool, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	client       adapter.EthClient
	proxy        ratelimit.Proxy
	providerName string
}

// NewClient wraps an RPC connection. Calls are gated by the rate limit bucket of providerName.
func NewClient(client adapter.EthClient, proxy ratelimit.Proxy, providerName string) EthereumClient {
	return &ethereumClient{client: client, proxy: proxy, providerName: providerName}
}

func (c *ethereumClient) Resolver(ctx context.Context, registry common.Address, node common.Hash) (common.Address, error) {
	var out common.Address
	if err := c.call(ctx, registryABI, registry, &out, "resolver", node); err != nil {
		return common.Address{}, err
	}
	return out, nil
}

func (c *ethereumClient) Name(ctx context.Context, resolver common.Address, node common.Hash) (string, error) {
	var out string
	if err := c.call(ctx, resolverABI, resolver, &out, "name", node); err != nil {
		return "", err
	}
	return out, nil
}

func (c *ethereumClient) Text(ctx context.Context, resolver common.Address, node common.Hash, key string) (string, error) {
	var out string
	if err := c.call(ctx, resolverABI, resolver, &out, "text", node, key); err != nil {
		return "", err
	}
	return out, nil
}

func (c *ethereumClient) Addr(ctx context.Context, resolver common.Address, node common.Hash) (common.Address, error) {
	var out common.Address
	if err := c.call(ctx, resolverABI, resolver, &out, "addr", node); err != nil {
		return common.Address{}, err
	}
	return out, nil
}

func (c *ethereumClient) HasCode(ctx context.Context, address common.Address) (bool, error) {
	code, err := ratelimit.Request(ctx, c.proxy, c.providerName, func(ctx context.Context) ([]byte, error) {
		return c.client.CodeAt(ctx, address, nil)
	})
	if err != nil {
		return false, fmt.Errorf("failed to get code: %w", err)
	}
	return len(code) > 0, nil
}

func (c *ethereumClient) Close() {
	c.client.Close()
}

// call packs method, runs it against to and unpacks the single return value into out.
// An empty return, as from an address without code, leaves out at its zero value.
func (c *ethereumClient) call(ctx context.Context, contract abi.ABI, to common.Address, out interface{}, method string, args ...interface{}) error {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := ratelimit.Request(ctx, c.proxy, c.providerName, func(ctx context.Context) ([]byte, error) {
		return c.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	})
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(result) == 0 {
		return nil
	}

	if err := contract.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return nil
}
