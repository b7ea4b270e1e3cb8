package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwears/reelbrowser/internal/services"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		redis      Pinger
		mode       services.CredentialMode
		wantStatus int
		want       healthResponse
	}{
		{
			name:       "redis disabled",
			mode:       services.CredentialAccessToken,
			wantStatus: http.StatusOK,
			want:       healthResponse{Status: "ok", Redis: "disabled", Credentials: "access_token"},
		},
		{
			name:       "redis up",
			redis:      pingerFunc(func(context.Context) error { return nil }),
			mode:       services.CredentialAPIKey,
			wantStatus: http.StatusOK,
			want:       healthResponse{Status: "ok", Redis: "up", Credentials: "api_key"},
		},
		{
			name:       "redis down",
			redis:      pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			mode:       services.CredentialAPIKey,
			wantStatus: http.StatusServiceUnavailable,
			want:       healthResponse{Status: "unhealthy", Redis: "down", Credentials: "api_key"},
		},
		{
			name:       "no credentials",
			mode:       services.CredentialNone,
			wantStatus: http.StatusOK,
			want:       healthResponse{Status: "degraded", Redis: "disabled", Credentials: "missing"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(test.redis, test.mode).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, test.wantStatus, rec.Code)
			var got healthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, test.want, got)
		})
	}
}
