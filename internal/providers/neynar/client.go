package neynar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
)

const PROVIDER_NAME = "neynar"

// bulkByAddressPath is the Farcaster user lookup keyed by verified address
const bulkByAddressPath = "/v2/farcaster/user/bulk-by-address"

// User is a Farcaster user as returned by the lookup
type User struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PfpURL      string `json:"pfp_url"`
}

// Client looks up Farcaster accounts by wallet address
//
//go:generate mockgen -source=client.go -destination=../../mocks/neynar_client.go -package=mocks -mock_names=Client=MockNeynarClient
type Client interface {
	// Name returns the identity source tag
	Name() string

	// Lookup returns the Farcaster username, fid and avatar of address, or nil when none is linked
	Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error)

	// UsersByAddress returns the first linked user per lowercased address
	UsersByAddress(ctx context.Context, addresses []string) (map[string]User, error)
}

// Config holds the client settings
type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// NeynarClient implements Client
type NeynarClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	config         Config
}

// NewClient creates a Farcaster lookup client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, cfg Config) Client {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &NeynarClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		config:         cfg,
	}
}

func (c *NeynarClient) Name() string {
	return string(domain.IdentitySourceFarcaster)
}

// Lookup returns the Farcaster fields of a single address
func (c *NeynarClient) Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error) {
	users, err := c.UsersByAddress(ctx, []string{address})
	if err != nil {
		return nil, err
	}

	user, ok := users[strings.ToLower(address)]
	if !ok || user.Username == "" {
		return nil, nil
	}

	fid := user.FID
	return &domain.PartialIdentity{
		FarcasterUsername: domain.StringPtr(user.Username),
		FarcasterFID:      &fid,
		AvatarURL:         domain.StringPtr(user.PfpURL),
	}, nil
}

// UsersByAddress looks up many addresses in one request. Without an API key it finds nothing.
func (c *NeynarClient) UsersByAddress(ctx context.Context, addresses []string) (map[string]User, error) {
	result := make(map[string]User)
	if c.config.APIKey == "" || len(addresses) == 0 {
		return result, nil
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	lowered := make([]string, len(addresses))
	for i, a := range addresses {
		lowered[i] = strings.ToLower(a)
	}

	u := fmt.Sprintf("%s%s?addresses=%s", c.config.APIURL, bulkByAddressPath, url.QueryEscape(strings.Join(lowered, ",")))
	resp, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) (*adapter.Response, error) {
		return c.httpClient.Get(ctx, u, map[string]string{"x-api-key": c.config.APIKey})
	})
	if err != nil {
		return nil, &domain.ServiceError{StatusCode: 0, Message: err.Error()}
	}
	if err := adapter.StatusError(resp); err != nil {
		return nil, err
	}

	var body map[string][]User
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode farcaster users: %w", err)
	}

	for addr, users := range body {
		if len(users) == 0 {
			continue
		}
		result[strings.ToLower(addr)] = users[0]
	}
	return result, nil
}
