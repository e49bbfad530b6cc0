package middleware

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/hirosato/prestacao-contas/backend/internal/common/utils"
)

type requestIDKey struct{}

// RequestIDMiddleware makes sure every request carries an ID. API Gateway
// normally provides one; local invocations get the X-Request-Id header or a new UUID.
type RequestIDMiddleware struct{}

// NewRequestIDMiddleware creates a new request id middleware
func NewRequestIDMiddleware() RequestIDMiddleware {
	return RequestIDMiddleware{}
}

// Handle handles the request id middleware
func (m RequestIDMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		id := request.RequestContext.RequestID
		if id == "" {
			id = utils.HeaderValue(request.Headers, "X-Request-Id")
		}
		if id == "" {
			id = uuid.New().String()
		}
		request.RequestContext.RequestID = id

		ctx = context.WithValue(ctx, requestIDKey{}, id)
		return next(ctx, logger.With("requestId", id), request)
	}
}

// RequestID returns the request ID stored in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
