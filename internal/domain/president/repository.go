package president

import "context"

// Repository defines the interface for president data operations
type Repository interface {
	CreatePresident(ctx context.Context, p *President) error
	GetPresident(ctx context.Context, presidentID string) (*President, error)
	ListPresidents(ctx context.Context) ([]President, error)
}
