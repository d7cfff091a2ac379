package zora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
)

// ProfileClient looks up Zora profiles by wallet address
//
//go:generate mockgen -source=profile.go -destination=../../mocks/zora_profile.go -package=mocks -mock_names=ProfileClient=MockZoraProfileClient
type ProfileClient interface {
	// Name returns the identity source tag
	Name() string

	// Lookup returns the profile fields for address, or nil when there is no usable profile
	Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error)
}

// ProfileConfig holds the profile lookup settings
type ProfileConfig struct {
	ProfileURL string
	APIKey     string
	Timeout    time.Duration
}

type profileImage struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
}

// Profile is the profile payload. The API has returned it both at the top level
// and nested under "profile".
type Profile struct {
	Handle       string          `json:"handle"`
	Username     string          `json:"username"`
	DisplayName  string          `json:"displayName"`
	ProfileImage json.RawMessage `json:"profileImage"`
	Avatar       *profileImage   `json:"avatar"`
	Farcaster    *struct {
		Username string `json:"username"`
		FID      int64  `json:"fid"`
	} `json:"farcaster"`
}

type profileResponse struct {
	Profile
	Nested *Profile `json:"profile"`
}

// ZoraProfileClient implements ProfileClient
type ZoraProfileClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	config         ProfileConfig
}

// NewProfileClient creates a profile client
func NewProfileClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, cfg ProfileConfig) ProfileClient {
	return &ZoraProfileClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		config:         cfg,
	}
}

func (c *ZoraProfileClient) Name() string {
	return string(domain.IdentitySourceZora)
}

// Lookup fetches the profile of address. Without an API key it finds nothing.
func (c *ZoraProfileClient) Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error) {
	if c.config.APIKey == "" {
		return nil, nil
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	u := fmt.Sprintf("%s?identifier=%s", c.config.ProfileURL, url.QueryEscape(address))
	resp, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) (*adapter.Response, error) {
		return c.httpClient.Get(ctx, u, map[string]string{"api-key": c.config.APIKey})
	})
	if err != nil {
		return nil, &domain.ServiceError{StatusCode: 0, Message: err.Error()}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := adapter.StatusError(resp); err != nil {
		return nil, err
	}

	var body profileResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	profile := body.Profile
	if body.Nested != nil {
		profile = *body.Nested
	}
	return profile.partial(), nil
}

// partial keeps the human readable parts of the profile
func (p Profile) partial() *domain.PartialIdentity {
	var out domain.PartialIdentity
	found := false

	handle := p.Handle
	if handle == "" {
		handle = p.Username
	}
	if handle == "" {
		handle = p.DisplayName
	}
	if handle != "" && !strings.HasPrefix(strings.ToLower(handle), "0x") {
		out.ZoraHandle = domain.StringPtr(handle)
		found = true
	}

	if p.Farcaster != nil && p.Farcaster.Username != "" {
		out.FarcasterUsername = domain.StringPtr(p.Farcaster.Username)
		if p.Farcaster.FID > 0 {
			fid := p.Farcaster.FID
			out.FarcasterFID = &fid
		}
		found = true
	}

	if avatar := p.avatarURL(); avatar != "" {
		out.AvatarURL = domain.StringPtr(avatar)
	}

	if !found {
		return nil
	}
	return &out
}

// avatarURL accepts profileImage as a plain URL or as a sized image object
func (p Profile) avatarURL() string {
	if len(p.ProfileImage) > 0 {
		var s string
		if err := json.Unmarshal(p.ProfileImage, &s); err == nil && s != "" {
			return s
		}
		var img profileImage
		if err := json.Unmarshal(p.ProfileImage, &img); err == nil {
			if img.Small != "" {
				return img.Small
			}
			if img.Medium != "" {
				return img.Medium
			}
		}
	}
	if p.Avatar != nil {
		if p.Avatar.Small != "" {
			return p.Avatar.Small
		}
		return p.Avatar.Medium
	}
	return ""
}
