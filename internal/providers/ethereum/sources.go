package ethereum

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

var (
	// BasenameResolver is the Base L2 resolver holding basename reverse records
	BasenameResolver = common.HexToAddress("0xC6d566A56A1aFf6508b41f6c90ff131615583BCD")

	// ENSRegistry is the mainnet ENS registry
	ENSRegistry = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")
)

const (
	// baseReverseSuffix is the ENSIP-19 reverse namespace of Base (coin type 0x80000000 | 8453)
	baseReverseSuffix = "80002105.reverse"

	// ensReverseSuffix is the mainnet reverse namespace
	ensReverseSuffix = "addr.reverse"

	avatarTextKey = "avatar"
)

// BasenameSource resolves the primary basename of an address on Base
type BasenameSource struct {
	client   EthereumClient
	resolver common.Address
}

// NewBasenameSource creates a basename source over a Base RPC client
func NewBasenameSource(client EthereumClient) *BasenameSource {
	return &BasenameSource{client: client, resolver: BasenameResolver}
}

func (s *BasenameSource) Name() string {
	return string(domain.IdentitySourceBasename)
}

// Lookup reads the reverse record and, when a name is set, its avatar text record
func (s *BasenameSource) Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error) {
	addr := common.HexToAddress(address)

	name, err := s.client.Name(ctx, s.resolver, Namehash(ReverseName(addr, baseReverseSuffix)))
	if err != nil {
		return nil, fmt.Errorf("basename reverse lookup: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	out := &domain.PartialIdentity{BaseName: domain.StringPtr(name)}

	avatar, err := s.client.Text(ctx, s.resolver, Namehash(name), avatarTextKey)
	if err != nil {
		logger.DebugCtx(ctx, "Basename avatar lookup failed", zap.String("name", name), zap.Error(err))
	} else {
		out.AvatarURL = domain.StringPtr(strings.TrimSpace(avatar))
	}

	return out, nil
}

// ENSSource resolves the primary ENS name of an address on mainnet.
// The reverse record is only accepted when the name resolves forward to the same address.
type ENSSource struct {
	client   EthereumClient
	registry common.Address
}

// NewENSSource creates an ENS source over a mainnet RPC client
func NewENSSource(client EthereumClient) *ENSSource {
	return &ENSSource{client: client, registry: ENSRegistry}
}

func (s *ENSSource) Name() string {
	return string(domain.IdentitySourceENS)
}

func (s *ENSSource) Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error) {
	addr := common.HexToAddress(address)
	reverseNode := Namehash(ReverseName(addr, ensReverseSuffix))

	reverseResolver, err := s.client.Resolver(ctx, s.registry, reverseNode)
	if err != nil {
		return nil, fmt.Errorf("ens reverse resolver: %w", err)
	}
	if reverseResolver == (common.Address{}) {
		return nil, nil
	}

	name, err := s.client.Name(ctx, reverseResolver, reverseNode)
	if err != nil {
		return nil, fmt.Errorf("ens reverse name: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	forwardNode := Namehash(name)
	forwardResolver, err := s.client.Resolver(ctx, s.registry, forwardNode)
	if err != nil {
		return nil, fmt.Errorf("ens forward resolver: %w", err)
	}
	if forwardResolver == (common.Address{}) {
		return nil, nil
	}

	resolved, err := s.client.Addr(ctx, forwardResolver, forwardNode)
	if err != nil {
		return nil, fmt.Errorf("ens forward addr: %w", err)
	}
	if resolved != addr {
		logger.DebugCtx(ctx, "ENS reverse record does not resolve back",
			zap.String("address", address),
			zap.String("name", name),
			zap.String("resolved", resolved.Hex()),
		)
		return nil, nil
	}

	return &domain.PartialIdentity{ENSName: domain.StringPtr(name)}, nil
}

// BytecodeProbe flags addresses with deployed code as contracts
type BytecodeProbe struct {
	client EthereumClient
}

// NewBytecodeProbe creates a contract probe over a Base RPC client
func NewBytecodeProbe(client EthereumClient) *BytecodeProbe {
	return &BytecodeProbe{client: client}
}

func (s *BytecodeProbe) Name() string {
	return string(domain.IdentitySourceContract)
}

func (s *BytecodeProbe) Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error) {
	isContract, err := s.client.HasCode(ctx, common.HexToAddress(address))
	if err != nil {
		return nil, err
	}
	if !isContract {
		return nil, nil
	}
	return &domain.PartialIdentity{IsContract: true}, nil
}
