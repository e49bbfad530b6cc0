package role

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role ("cargo") carries the per-diem rates paid to servants holding it.
type Role struct {
	RoleID         string          `json:"roleId"`
	Name           string          `json:"name"`
	RateInState    decimal.Decimal `json:"rateInState"`
	RateOutOfState decimal.Decimal `json:"rateOutOfState"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CreateRoleRequest represents the data needed to create a role
type CreateRoleRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	RateInState    decimal.Decimal `json:"rateInState" validate:"decimal_gte0"`
	RateOutOfState decimal.Decimal `json:"rateOutOfState" validate:"decimal_gte0"`
}

// UpdateRoleRequest changes only the fields that are present
type UpdateRoleRequest struct {
	Name           *string          `json:"name,omitempty"`
	RateInState    *decimal.Decimal `json:"rateInState,omitempty"`
	RateOutOfState *decimal.Decimal `json:"rateOutOfState,omitempty"`
}
