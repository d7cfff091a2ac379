package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-buyer-indexer/internal/api/middleware"
	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
)

func TestServerMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		wantAllowed string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://app.example.org", wantAllowed: "*"},
		{name: "listed origin", origins: []string{"https://buyers.example.com"}, origin: "https://buyers.example.com", wantAllowed: "https://buyers.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exec := mocks.NewMockAPIExecutor(ctrl)
			exec.EXPECT().Health(gomock.Any()).Return(nil)

			srv := New(Config{AllowedOrigins: tt.origins}, exec)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestServerKeepsCallerRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockAPIExecutor(ctrl)
	exec.EXPECT().Health(gomock.Any()).Return(nil)

	srv := New(Config{}, exec)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestServerRecoversFromPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockAPIExecutor(ctrl)
	exec.EXPECT().Health(gomock.Any()).DoAndReturn(func(context.Context) error {
		panic("boom")
	})

	srv := New(Config{}, exec)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
