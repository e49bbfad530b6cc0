package response

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Attachment creates a binary download response. API Gateway decodes the
// base64 body before it reaches the client.
func Attachment(data []byte, contentType, filename string) events.APIGatewayProxyResponse {
	headers := DefaultHeaders()
	headers["Content-Type"] = contentType
	headers["Content-Disposition"] = fmt.Sprintf("attachment; filename=%q", filename)

	return events.APIGatewayProxyResponse{
		StatusCode:      http.StatusOK,
		Headers:         headers,
		Body:            base64.StdEncoding.EncodeToString(data),
		IsBase64Encoded: true,
	}
}
