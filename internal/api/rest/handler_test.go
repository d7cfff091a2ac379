package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-buyer-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/types"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/ingest"
	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

const testAddress = "0x1234567890abcdef1234567890abcdef12345678"

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockAPIExecutor) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockAPIExecutor(ctrl)
	router := gin.New()
	SetupRoutes(router, NewHandler(false, exec))
	return router, exec
}

func do(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestGetIdentity(t *testing.T) {
	tests := []struct {
		name       string
		execErr    error
		wantStatus int
		wantCode   apierrors.ErrorCode
	}{
		{name: "resolved", wantStatus: http.StatusOK},
		{name: "invalid address", execErr: apierrors.NewValidationError("not a hex address"), wantStatus: http.StatusBadRequest, wantCode: apierrors.ErrCodeValidationFailed},
		{name: "upstream failure", execErr: apierrors.NewServiceError("neynar down"), wantStatus: http.StatusBadGateway, wantCode: apierrors.ErrCodeServiceError},
		{name: "unexpected error", execErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: apierrors.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, exec := newTestRouter(t)

			call := exec.EXPECT().GetIdentity(gomock.Any(), testAddress)
			if tt.execErr != nil {
				call.Return(nil, tt.execErr)
			} else {
				resolved := domain.ResolvedIdentity{Address: testAddress, DisplayName: "alice.base.eth", Source: domain.IdentitySourceBasename}
				call.Return(&resolved, nil)
			}

			w := do(router, http.MethodGet, "/api/v1/identities/"+testAddress, nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.execErr == nil {
				var got domain.ResolvedIdentity
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, "alice.base.eth", got.DisplayName)
				assert.Equal(t, domain.IdentitySourceBasename, got.Source)
				return
			}
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestResolveIdentities(t *testing.T) {
	t.Run("resolves batch", func(t *testing.T) {
		router, exec := newTestRouter(t)
		addresses := []string{testAddress, "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"}

		exec.EXPECT().GetIdentities(gomock.Any(), addresses).Return(&dto.IdentitiesResponse{
			Identities: []domain.ResolvedIdentity{
				domain.FallbackIdentity(addresses[0]),
				domain.FallbackIdentity(addresses[1]),
			},
		}, nil)

		w := do(router, http.MethodPost, "/api/v1/identities/batch", dto.ResolveIdentitiesRequest{Addresses: addresses})
		require.Equal(t, http.StatusOK, w.Code)

		var got dto.IdentitiesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got.Identities, 2)
		assert.Equal(t, "0x1234…5678", got.Identities[0].DisplayName)
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := do(router, http.MethodPost, "/api/v1/identities/batch", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrCodeValidationFailed, decodeError(t, w).Code)
	})

	t.Run("empty list", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := do(router, http.MethodPost, "/api/v1/identities/batch", dto.ResolveIdentitiesRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "addresses is required")
	})

	t.Run("too many addresses", func(t *testing.T) {
		router, _ := newTestRouter(t)
		addresses := make([]string, 101)
		for i := range addresses {
			addresses[i] = fmt.Sprintf("0x%040x", i)
		}
		w := do(router, http.MethodPost, "/api/v1/identities/batch", dto.ResolveIdentitiesRequest{Addresses: addresses})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "maximum 100")
	})
}

func TestGetLeaderboard(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().GetLeaderboard(gomock.Any(), types.Period1d, 20).Return(&dto.LeaderboardResponse{
			Period: types.Period1d,
			Entries: []dto.LeaderboardEntry{
				{Rank: 1, Address: testAddress, BuyCount: 3, UniqueTokens: 2, Identity: domain.FallbackIdentity(testAddress)},
			},
		}, nil)

		w := do(router, http.MethodGet, "/api/v1/leaderboard", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got dto.LeaderboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got.Entries, 1)
		assert.Equal(t, int64(3), got.Entries[0].BuyCount)
	})

	t.Run("explicit period and limit", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().GetLeaderboard(gomock.Any(), types.Period30d, 5).Return(&dto.LeaderboardResponse{Period: types.Period30d}, nil)

		w := do(router, http.MethodGet, "/api/v1/leaderboard?period=30d&limit=5", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	invalid := []string{"period=2d", "limit=0", "limit=101", "limit=abc"}
	for _, query := range invalid {
		t.Run("rejects "+query, func(t *testing.T) {
			router, _ := newTestRouter(t)
			w := do(router, http.MethodGet, "/api/v1/leaderboard?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apierrors.ErrCodeValidationFailed, decodeError(t, w).Code)
		})
	}

	t.Run("database failure", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().GetLeaderboard(gomock.Any(), types.Period7d, 20).Return(nil, apierrors.NewDatabaseError("Failed to get leaderboard: connection refused"))

		w := do(router, http.MethodGet, "/api/v1/leaderboard?period=7d", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, apierrors.ErrCodeDatabaseError, detail.Code)
		assert.NotContains(t, detail.Details, "connection refused")
	})
}

func TestGetBuyer(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().GetBuyer(gomock.Any(), "alice.base.eth", 20).Return(&dto.BuyerResponse{
			Identity: domain.ResolvedIdentity{Address: testAddress, DisplayName: "alice.base.eth"},
			Stats:    store.ProfileStats{Address: testAddress, TotalBuys: 4},
		}, nil)

		w := do(router, http.MethodGet, "/api/v1/buyers/alice.base.eth", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got dto.BuyerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(4), got.Stats.TotalBuys)
	})

	t.Run("unknown name", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().GetBuyer(gomock.Any(), "nobody", 10).Return(nil, nil)

		w := do(router, http.MethodGet, "/api/v1/buyers/nobody?limit=10", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apierrors.ErrCodeNotFound, decodeError(t, w).Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := do(router, http.MethodGet, "/api/v1/buyers/"+testAddress+"?limit=500", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTriggerIngest(t *testing.T) {
	tests := []struct {
		name       string
		result     ingest.Result
		wantStatus int
	}{
		{
			name:       "ingested",
			result:     ingest.Result{OK: true, Message: "Ingested 3 buys", Count: 3, NewCursor: "2025-03-01 12:00:00"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "run in progress",
			result:     ingest.Result{Error: &ingest.RunError{Code: domain.CodeInProgress, Message: "ingestion run already in progress"}},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "auth failure",
			result:     ingest.Result{Error: &ingest.RunError{Code: domain.CodeAuth, Message: "auth error: bad key"}},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "rate limited",
			result:     ingest.Result{Error: &ingest.RunError{Code: domain.CodeRateLimited, Retryable: true}},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "internal failure",
			result:     ingest.Result{Error: &ingest.RunError{Code: domain.CodeInternal}},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, exec := newTestRouter(t)
			exec.EXPECT().TriggerIngest(gomock.Any()).Return(tt.result)

			w := do(router, http.MethodPost, "/api/v1/ingest", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			var got ingest.Result
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.result.OK, got.OK)
			if tt.result.Error != nil {
				require.NotNil(t, got.Error)
				assert.Equal(t, tt.result.Error.Code, got.Error.Code)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().Health(gomock.Any()).Return(nil)

		w := do(router, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "healthy"))
	})

	t.Run("database down", func(t *testing.T) {
		router, exec := newTestRouter(t)
		exec.EXPECT().Health(gomock.Any()).Return(apierrors.NewDatabaseError("Database unreachable"))

		w := do(router, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
