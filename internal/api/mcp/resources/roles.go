package resources

import (
	"context"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/mcp"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
)

const rolesURI = "prestacao://roles"

// RoleLister is the part of the role service the resource needs
type RoleLister interface {
	ListRoles(ctx context.Context) ([]role.Role, error)
}

// RolesResource exposes the role table with its per-diem rates
type RolesResource struct {
	roles RoleLister
}

func NewRolesResource(roles RoleLister) *RolesResource {
	return &RolesResource{roles: roles}
}

func (r *RolesResource) GetURI() string         { return rolesURI }
func (r *RolesResource) GetName() string        { return "Roles" }
func (r *RolesResource) GetDescription() string { return "Roles and their daily rates in and out of the home state" }
func (r *RolesResource) GetMimeType() string    { return "application/json" }

func (r *RolesResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	roles, err := r.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(rolesURI, r.GetMimeType(), roles)
}
