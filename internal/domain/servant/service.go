package servant

import (
	"context"
	"strings"

	"github.com/hirosato/prestacao-contas/backend/pkg/validator"
)

// Service provides servant-related business logic
type Service struct {
	repo      Repository
	validator validator.Validator
}

// NewService creates a new servant service
func NewService(repo Repository, v validator.Validator) *Service {
	return &Service{
		repo:      repo,
		validator: v,
	}
}

// CreateServant registers a servant. The role is referenced by name and is not
// required to exist yet; an unknown role only zeroes the reconciliation.
func (s *Service) CreateServant(ctx context.Context, req *CreateServantRequest) (*Servant, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.RoleName = strings.TrimSpace(req.RoleName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	servant := &Servant{
		Name:     req.Name,
		RoleName: req.RoleName,
	}
	if err := s.repo.CreateServant(ctx, servant); err != nil {
		return nil, err
	}
	return servant, nil
}

// GetServant retrieves a servant by ID
func (s *Service) GetServant(ctx context.Context, servantID string) (*Servant, error) {
	return s.repo.GetServant(ctx, servantID)
}

// ListServants returns every servant
func (s *Service) ListServants(ctx context.Context) ([]Servant, error) {
	return s.repo.ListServants(ctx)
}
