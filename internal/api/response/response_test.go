package response

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

func TestFromError(t *testing.T) {
	t.Run("app error keeps code and details", func(t *testing.T) {
		err := errors.NewValidationError("invalid fields: amount").WithDetail("amount", "is required")
		resp := FromError(err, "req-1")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		assert.False(t, body.Success)
		assert.Equal(t, errors.CodeValidation, body.Error)
		assert.Equal(t, "is required", body.ErrorDescription.Details["amount"])
		assert.Equal(t, "req-1", body.Metadata.RequestID)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		resp := FromError(stderrors.New("boom"), "req-2")

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, resp.Body, errors.CodeInternal)
		assert.NotContains(t, resp.Body, "boom")
	})
}

func TestAuthenticationError(t *testing.T) {
	resp := AuthenticationError("token expired", "req")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Headers["WWW-Authenticate"], `error_description="token expired"`)
}

func TestOK(t *testing.T) {
	resp := OK(map[string]string{"id": "1"}, "req-3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-3", resp.Headers["X-Request-Id"])

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "1", body.Data["id"])
}

func TestAttachment(t *testing.T) {
	resp := Attachment([]byte("PK\x03\x04"), "application/zip", "a.zip")

	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, "application/zip", resp.Headers["Content-Type"])
	assert.Equal(t, `attachment; filename="a.zip"`, resp.Headers["Content-Disposition"])
	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), raw)
}
