package role

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/pkg/validator"
)

// Service provides role-related business logic
type Service struct {
	repo      Repository
	validator validator.Validator
}

// NewService creates a new role service
func NewService(repo Repository, v validator.Validator) *Service {
	return &Service{
		repo:      repo,
		validator: v,
	}
}

// CreateRole creates a role with its two per-diem rates
func (s *Service) CreateRole(ctx context.Context, req *CreateRoleRequest) (*Role, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	r := &Role{
		Name:           req.Name,
		RateInState:    req.RateInState,
		RateOutOfState: req.RateOutOfState,
	}
	if err := s.repo.CreateRole(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRole retrieves a role by ID
func (s *Service) GetRole(ctx context.Context, roleID string) (*Role, error) {
	return s.repo.GetRole(ctx, roleID)
}

// GetRoleByName retrieves a role by its exact name
func (s *Service) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.repo.GetRoleByName(ctx, name)
}

// ListRoles returns every role
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// UpdateRole applies a partial update to a role
func (s *Service) UpdateRole(ctx context.Context, roleID string, req *UpdateRoleRequest) (*Role, error) {
	existing, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	previousName := existing.Name
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.NewValidationError("invalid fields: name").WithDetail("name", "is required")
		}
		existing.Name = name
	}
	if req.RateInState != nil {
		if err := nonNegative("rateInState", *req.RateInState); err != nil {
			return nil, err
		}
		existing.RateInState = *req.RateInState
	}
	if req.RateOutOfState != nil {
		if err := nonNegative("rateOutOfState", *req.RateOutOfState); err != nil {
			return nil, err
		}
		existing.RateOutOfState = *req.RateOutOfState
	}

	if err := s.repo.UpdateRole(ctx, previousName, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return errors.NewValidationError("invalid fields: "+field).WithDetail(field, "must be a non-negative decimal")
	}
	return nil
}
