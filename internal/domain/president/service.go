package president

import (
	"context"
	"strings"

	"github.com/hirosato/prestacao-contas/backend/pkg/validator"
)

type Service struct {
	repo      Repository
	validator validator.Validator
}

func NewService(repo Repository, v validator.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

func (s *Service) CreatePresident(ctx context.Context, req *CreatePresidentRequest) (*President, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p := &President{Name: req.Name}
	if err := s.repo.CreatePresident(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPresident(ctx context.Context, presidentID string) (*President, error) {
	return s.repo.GetPresident(ctx, presidentID)
}

func (s *Service) ListPresidents(ctx context.Context) ([]President, error) {
	return s.repo.ListPresidents(ctx)
}
