package servant

import "context"

// Repository defines the interface for servant data operations
type Repository interface {
	CreateServant(ctx context.Context, s *Servant) error
	GetServant(ctx context.Context, servantID string) (*Servant, error)
	ListServants(ctx context.Context) ([]Servant, error)
}
