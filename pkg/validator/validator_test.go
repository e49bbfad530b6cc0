package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

type sample struct {
	Name     string          `json:"name" validate:"required"`
	Kind     string          `json:"kind" validate:"oneof=a b"`
	Amount   decimal.Decimal `json:"amount" validate:"decimal_gte0"`
	Date     string          `json:"date" validate:"omitempty,isodate"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	v := New()

	t.Run("valid struct", func(t *testing.T) {
		err := v.Validate(sample{Name: "x", Kind: "a", Amount: decimal.RequireFromString("10.5"), Date: "2024-03-01"})
		assert.NoError(t, err)
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := v.Validate(sample{Kind: "c", Amount: decimal.NewFromInt(-1), Date: "01/03/2024", Quantity: -2})
		require.Error(t, err)

		appErr, ok := err.(errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidation, appErr.Code)
		assert.Equal(t, "is required", appErr.Details["name"])
		assert.Equal(t, "must be one of: a b", appErr.Details["kind"])
		assert.Equal(t, "must be a non-negative decimal", appErr.Details["amount"])
		assert.Equal(t, "must be a date in YYYY-MM-DD format", appErr.Details["date"])
		assert.Equal(t, "must be greater than or equal to 0", appErr.Details["quantity"])
	})
}
