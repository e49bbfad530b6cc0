package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/hirosato/prestacao-contas/backend/internal/api/response"
	"github.com/hirosato/prestacao-contas/backend/internal/common/config"
	"github.com/hirosato/prestacao-contas/backend/internal/common/utils"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

// SecretProvider returns the key bearer tokens are signed with
type SecretProvider interface {
	SigningSecret(ctx context.Context) ([]byte, error)
}

// Principal is the caller identified by the bearer token
type Principal struct {
	Subject string
	Name    string
	Scopes  []string
}

type principalKey struct{}

// WithPrincipal stores the caller in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal gets the caller from ctx
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

var publicPaths = map[string]bool{
	"/health": true,
}

// AuthMiddleware is a middleware for bearer token authentication.
// Reads need prestacao:read or prestacao:write; every other method needs prestacao:write.
type AuthMiddleware struct {
	secrets  SecretProvider
	issuer   string
	disabled bool
	log      *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(cfg *config.Config, secrets SecretProvider, log *zap.Logger) AuthMiddleware {
	return AuthMiddleware{
		secrets:  secrets,
		issuer:   cfg.AuthIssuer,
		disabled: cfg.AuthDisabled,
		log:      log,
	}
}

// Handle handles the auth middleware
func (m AuthMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		requestID := request.RequestContext.RequestID

		if request.HTTPMethod == http.MethodOptions || publicPaths[strings.TrimPrefix(request.Path, "/api")] {
			return next(ctx, logger, request)
		}

		if m.disabled {
			ctx = WithPrincipal(ctx, Principal{
				Subject: "local",
				Scopes:  []string{utils.ScopeRead, utils.ScopeWrite},
			})
			return next(ctx, logger, request)
		}

		token, err := utils.ExtractBearerToken(utils.HeaderValue(request.Headers, "Authorization"))
		if err != nil {
			return response.AuthenticationError(err.Error(), requestID), nil
		}

		secret, err := m.secrets.SigningSecret(ctx)
		if err != nil {
			m.log.Error("Signing secret unavailable", zap.Error(err), zap.String("requestId", requestID))
			return events.APIGatewayProxyResponse{}, errors.NewInternalError("failed to verify token", err)
		}

		claims, err := utils.ParseJWT(token, secret, m.issuer)
		if err != nil {
			m.log.Warn("Token validation failed", zap.Error(err), zap.String("requestId", requestID))
			return response.AuthenticationError("invalid or expired token", requestID), nil
		}

		if !allowed(claims, request.HTTPMethod) {
			m.log.Warn("Insufficient scopes",
				zap.String("subject", claims.Subject),
				zap.Strings("provided", claims.Scopes),
				zap.String("method", request.HTTPMethod))
			return response.AuthorizationError("insufficient scope", requestID), nil
		}

		ctx = WithPrincipal(ctx, Principal{Subject: claims.Subject, Name: claims.Name, Scopes: claims.Scopes})
		return next(ctx, logger.With("subject", claims.Subject), request)
	}
}

func allowed(claims *utils.Claims, method string) bool {
	if utils.HasScope(claims, utils.ScopeWrite) {
		return true
	}
	return method == http.MethodGet && utils.HasScope(claims, utils.ScopeRead)
}
