package zora_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/zora"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
)

const (
	profileURL = "https://api-sdk.zora.engineering/api/profile"
	address    = "0x1111111111111111111111111111111111111111"
)

func setupProfile(t *testing.T, apiKey string) (*mocks.MockHTTPClient, zora.ProfileClient) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	return httpClient, zora.NewProfileClient(httpClient, nil, zora.ProfileConfig{
		ProfileURL: profileURL,
		APIKey:     apiKey,
		Timeout:    time.Second,
	})
}

func TestProfileClient_Lookup(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		verify func(t *testing.T, p *domain.PartialIdentity)
	}{
		{
			name: "top level profile with farcaster",
			body: `{"handle":"alice","displayName":"Alice","profileImage":"https://img/alice.png","farcaster":{"username":"alicefc","fid":42}}`,
			verify: func(t *testing.T, p *domain.PartialIdentity) {
				require.NotNil(t, p)
				assert.Equal(t, "alice", *p.ZoraHandle)
				assert.Equal(t, "alicefc", *p.FarcasterUsername)
				assert.Equal(t, int64(42), *p.FarcasterFID)
				assert.Equal(t, "https://img/alice.png", *p.AvatarURL)
			},
		},
		{
			name: "nested profile with sized avatar",
			body: `{"profile":{"username":"bob","avatar":{"small":"https://img/s.png","medium":"https://img/m.png"}}}`,
			verify: func(t *testing.T, p *domain.PartialIdentity) {
				require.NotNil(t, p)
				assert.Equal(t, "bob", *p.ZoraHandle)
				assert.Nil(t, p.FarcasterUsername)
				assert.Equal(t, "https://img/s.png", *p.AvatarURL)
			},
		},
		{
			name: "address shaped handle is ignored",
			body: `{"handle":"0x1111","profileImage":{"small":"https://img/x.png"}}`,
			verify: func(t *testing.T, p *domain.PartialIdentity) {
				assert.Nil(t, p)
			},
		},
		{
			name: "display name used when handle missing",
			body: `{"displayName":"Carol"}`,
			verify: func(t *testing.T, p *domain.PartialIdentity) {
				require.NotNil(t, p)
				assert.Equal(t, "Carol", *p.ZoraHandle)
				assert.Nil(t, p.AvatarURL)
			},
		},
		{
			name: "empty profile",
			body: `{}`,
			verify: func(t *testing.T, p *domain.PartialIdentity) {
				assert.Nil(t, p)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient, client := setupProfile(t, "key")
			httpClient.EXPECT().
				Get(gomock.Any(), profileURL+"?identifier="+address, map[string]string{"api-key": "key"}).
				Return(&adapter.Response{StatusCode: http.StatusOK, Body: []byte(tt.body)}, nil)

			p, err := client.Lookup(context.Background(), address)
			require.NoError(t, err)
			tt.verify(t, p)
		})
	}
}

func TestProfileClient_NotFoundAndErrors(t *testing.T) {
	httpClient, client := setupProfile(t, "key")

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusNotFound}, nil)
	p, err := client.Lookup(context.Background(), address)
	require.NoError(t, err)
	assert.Nil(t, p)

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusTooManyRequests}, nil)
	_, err = client.Lookup(context.Background(), address)
	var rl *domain.RateLimitedError
	assert.ErrorAs(t, err, &rl)
}

func TestProfileClient_NoKey(t *testing.T) {
	_, client := setupProfile(t, "")

	p, err := client.Lookup(context.Background(), address)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, "zora", client.Name())
}

func TestProfileClient_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	proxy := mocks.NewMockRateLimitProxy(ctrl)
	client := zora.NewProfileClient(httpClient, proxy, zora.ProfileConfig{ProfileURL: profileURL, APIKey: "key"})

	gomock.InOrder(
		proxy.EXPECT().Request(gomock.Any(), zora.PROVIDER_NAME, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, fn ratelimit.RequestFunc) (interface{}, error) {
				return fn(ctx)
			}),
		proxy.EXPECT().Request(gomock.Any(), zora.PROVIDER_NAME, gomock.Any()).
			Return(nil, errors.New("queue timeout for provider zora")),
	)
	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusOK, Body: []byte(`{"handle":"alice"}`)}, nil)

	p, err := client.Lookup(context.Background(), address)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", *p.ZoraHandle)

	_, err = client.Lookup(context.Background(), address)
	var serviceErr *domain.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, 0, serviceErr.StatusCode)
}
