package role

import "context"

// Repository defines the interface for role data operations.
// Role names are unique; CreateRole and UpdateRole return a CONFLICT error
// when the name is already taken by another role.
type Repository interface {
	CreateRole(ctx context.Context, r *Role) error
	GetRole(ctx context.Context, roleID string) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, previousName string, r *Role) error
}
