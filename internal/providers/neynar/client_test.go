package neynar_test

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
	"github.com/feral-file/ff-buyer-indexer/internal/providers/neynar"
)

const (
	addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func setupTest(t *testing.T, apiKey string) (*mocks.MockHTTPClient, neynar.Client) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	return httpClient, neynar.NewClient(httpClient, nil, neynar.Config{
		APIURL:  "https://api.neynar.com/",
		APIKey:  apiKey,
		Timeout: time.Second,
	})
}

func TestNeynarClient_UsersByAddress(t *testing.T) {
	httpClient, client := setupTest(t, "nk")

	httpClient.EXPECT().
		Get(gomock.Any(),
			"https://api.neynar.com/v2/farcaster/user/bulk-by-address?addresses="+addrA+"%2C"+addrB,
			map[string]string{"x-api-key": "nk"}).
		Return(&adapter.Response{StatusCode: http.StatusOK, Body: []byte(`{
			"0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA": [
				{"fid": 3, "username": "dwr", "pfp_url": "https://img/dwr.png"},
				{"fid": 4, "username": "second"}
			],
			"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb": []
		}`)}, nil)

	users, err := client.UsersByAddress(context.Background(), []string{addrA, "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(3), users[addrA].FID)
	assert.Equal(t, "dwr", users[addrA].Username)
}

func TestNeynarClient_Lookup(t *testing.T) {
	httpClient, client := setupTest(t, "nk")

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusOK, Body: []byte(`{"`+addrA+`":[{"fid":99,"username":"alice","pfp_url":""}]}`)}, nil)

	p, err := client.Lookup(context.Background(), addrA)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", *p.FarcasterUsername)
	assert.Equal(t, int64(99), *p.FarcasterFID)
	assert.Nil(t, p.AvatarURL)

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil)

	p, err = client.Lookup(context.Background(), addrB)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNeynarClient_Errors(t *testing.T) {
	httpClient, client := setupTest(t, "nk")

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"10"}}}, nil)
	_, err := client.Lookup(context.Background(), addrA)
	d, ok := domain.RetryAfter(err)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, d)

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.Response{StatusCode: http.StatusUnauthorized}, nil)
	_, err = client.Lookup(context.Background(), addrA)
	var ae *domain.AuthError
	assert.ErrorAs(t, err, &ae)

	httpClient.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))
	_, err = client.Lookup(context.Background(), addrA)
	assert.True(t, domain.IsRetryable(err))
}

func TestNeynarClient_NoKey(t *testing.T) {
	_, client := setupTest(t, "")

	users, err := client.UsersByAddress(context.Background(), []string{addrA})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, "farcaster", client.Name())
}
