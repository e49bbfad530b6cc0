package handlers

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

func requestID(request events.APIGatewayProxyRequest) string {
	return request.RequestContext.RequestID
}

// decodeBody unmarshals the JSON request body into v
func decodeBody(request events.APIGatewayProxyRequest, v interface{}) error {
	if strings.TrimSpace(request.Body) == "" {
		return errors.NewInvalidInputError("request body is required", nil)
	}
	if err := json.Unmarshal([]byte(request.Body), v); err != nil {
		return errors.NewInvalidInputError("invalid JSON body", err)
	}
	return nil
}

func pathParam(request events.APIGatewayProxyRequest, name string) string {
	return request.PathParameters[name]
}
