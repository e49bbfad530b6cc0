package middleware

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirosato/prestacao-contas/backend/internal/common/config"
	"github.com/hirosato/prestacao-contas/backend/internal/common/utils"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

type staticSecret []byte

func (s staticSecret) SigningSecret(ctx context.Context) ([]byte, error) {
	if s == nil {
		return nil, stderrors.New("secret unavailable")
	}
	return s, nil
}

const issuer = "https://auth.test"

var secret = staticSecret("middleware-secret")

func okHandler(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	p, _ := GetPrincipal(ctx)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: p.Subject}, nil
}

func tokenWith(t *testing.T, scopes ...string) string {
	t.Helper()
	token, err := utils.SignJWT(secret, issuer, "user-1", "Ana", scopes, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{AuthIssuer: issuer}
	h := NewAuthMiddleware(cfg, secret, zap.NewNop()).Handle(okHandler)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
	}{
		{"missing header", http.MethodGet, "/records", "", http.StatusUnauthorized},
		{"malformed header", http.MethodGet, "/records", "Token abc", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/records", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"read scope can read", http.MethodGet, "/records", tokenWith(t, utils.ScopeRead), http.StatusOK},
		{"read scope cannot write", http.MethodPost, "/records", tokenWith(t, utils.ScopeRead), http.StatusForbidden},
		{"write scope can write", http.MethodPost, "/records", tokenWith(t, utils.ScopeWrite), http.StatusOK},
		{"no scope cannot read", http.MethodGet, "/records", tokenWith(t), http.StatusForbidden},
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"preflight is public", http.MethodOptions, "/records", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := events.APIGatewayProxyRequest{HTTPMethod: tt.method, Path: tt.path, Headers: map[string]string{}}
			if tt.header != "" {
				req.Headers["authorization"] = tt.header
			}
			resp, err := h(ctx, slog.Default(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	t.Run("principal is stored", func(t *testing.T) {
		req := events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/records",
			Headers: map[string]string{"Authorization": tokenWith(t, utils.ScopeRead)}}
		resp, err := h(ctx, slog.Default(), req)
		require.NoError(t, err)
		assert.Equal(t, "user-1", resp.Body)
	})

	t.Run("disabled auth injects a local principal", func(t *testing.T) {
		h := NewAuthMiddleware(&config.Config{AuthDisabled: true}, nil, zap.NewNop()).Handle(okHandler)
		resp, err := h(ctx, slog.Default(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/roles"})
		require.NoError(t, err)
		assert.Equal(t, "local", resp.Body)
	})

	t.Run("secret failure is internal", func(t *testing.T) {
		h := NewAuthMiddleware(cfg, staticSecret(nil), zap.NewNop()).Handle(okHandler)
		req := events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/records",
			Headers: map[string]string{"Authorization": "Bearer x"}}
		_, err := h(ctx, slog.Default(), req)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInternal, errors.AsAppError(err).Code)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	ctx := context.Background()
	req := events.APIGatewayProxyRequest{RequestContext: events.APIGatewayProxyRequestContext{RequestID: "req-1"}}

	t.Run("error becomes response", func(t *testing.T) {
		h := NewRecoveryMiddleware().Handle(func(context.Context, *slog.Logger, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return events.APIGatewayProxyResponse{}, errors.NewConflictError("per_diem advance already exists")
		})
		resp, err := h(ctx, slog.Default(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, resp.Body, "CONFLICT")
		assert.Contains(t, resp.Body, "req-1")
	})

	t.Run("panic becomes internal error", func(t *testing.T) {
		h := NewRecoveryMiddleware().Handle(func(context.Context, *slog.Logger, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			panic("nil map")
		})
		resp, err := h(ctx, slog.Default(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, resp.Body, "INTERNAL_ERROR")
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	capture := func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		assert.Equal(t, request.RequestContext.RequestID, RequestID(ctx))
		return events.APIGatewayProxyResponse{Body: RequestID(ctx)}, nil
	}
	h := Chain(capture, NewRequestIDMiddleware(), NewLoggingMiddleware(true))

	resp, err := h(context.Background(), slog.Default(), events.APIGatewayProxyRequest{
		Headers: map[string]string{"x-request-id": "from-header"},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-header", resp.Body)

	resp, err = h(context.Background(), slog.Default(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Body, 36)
}
