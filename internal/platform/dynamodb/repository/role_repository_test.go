package repository

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

func newRole(name, in, out string) *role.Role {
	return &role.Role{
		Name:           name,
		RateInState:    decimal.RequireFromString(in),
		RateOutOfState: decimal.RequireFromString(out),
	}
}

func TestRoleRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDynamoDBRoleRepository(client.NewMemoryClient(), "test-table", slog.Default())

	r := newRole("Assessor", "100.00", "150.50")
	require.NoError(t, repo.CreateRole(ctx, r))
	assert.NotEmpty(t, r.RoleID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := repo.GetRole(ctx, r.RoleID)
	require.NoError(t, err)
	assert.Equal(t, "Assessor", got.Name)
	assert.True(t, decimal.RequireFromString("150.5").Equal(got.RateOutOfState))

	byName, err := repo.GetRoleByName(ctx, "Assessor")
	require.NoError(t, err)
	assert.Equal(t, r.RoleID, byName.RoleID)

	_, err = repo.GetRoleByName(ctx, "assessor")
	assert.True(t, commonErrors.IsNotFound(err))

	_, err = repo.GetRole(ctx, "missing")
	assert.True(t, commonErrors.IsNotFound(err))
}

func TestRoleRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	mem := client.NewMemoryClient()
	repo := NewDynamoDBRoleRepository(mem, "test-table", slog.Default())

	require.NoError(t, repo.CreateRole(ctx, newRole("Motorista", "80", "120")))
	before := mem.Len()

	err := repo.CreateRole(ctx, newRole("Motorista", "90", "130"))
	require.Error(t, err)
	assert.True(t, commonErrors.IsConflict(err))
	assert.Equal(t, before, mem.Len(), "failed transaction must not write anything")
}

func TestRoleRepository_ListRoles(t *testing.T) {
	ctx := context.Background()
	repo := NewDynamoDBRoleRepository(client.NewMemoryClient(), "test-table", slog.Default())

	require.NoError(t, repo.CreateRole(ctx, newRole("Vereador", "300", "450")))
	require.NoError(t, repo.CreateRole(ctx, newRole("Assessor", "100", "150")))

	roles, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Assessor", roles[0].Name)
	assert.Equal(t, "Vereador", roles[1].Name)
}

func TestRoleRepository_UpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := NewDynamoDBRoleRepository(client.NewMemoryClient(), "test-table", slog.Default())

	r := newRole("Assessor", "100", "150")
	require.NoError(t, repo.CreateRole(ctx, r))
	require.NoError(t, repo.CreateRole(ctx, newRole("Vereador", "300", "450")))

	t.Run("rates only", func(t *testing.T) {
		r.RateInState = decimal.RequireFromString("110")
		require.NoError(t, repo.UpdateRole(ctx, "Assessor", r))

		got, err := repo.GetRoleByName(ctx, "Assessor")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("110").Equal(got.RateInState))
	})

	t.Run("rename moves the name lock", func(t *testing.T) {
		r.Name = "Assessor Parlamentar"
		require.NoError(t, repo.UpdateRole(ctx, "Assessor", r))

		_, err := repo.GetRoleByName(ctx, "Assessor")
		assert.True(t, commonErrors.IsNotFound(err))

		got, err := repo.GetRoleByName(ctx, "Assessor Parlamentar")
		require.NoError(t, err)
		assert.Equal(t, r.RoleID, got.RoleID)
	})

	t.Run("rename to a taken name conflicts", func(t *testing.T) {
		r.Name = "Vereador"
		err := repo.UpdateRole(ctx, "Assessor Parlamentar", r)
		require.Error(t, err)
		assert.True(t, commonErrors.IsConflict(err))

		got, err := repo.GetRoleByName(ctx, "Assessor Parlamentar")
		require.NoError(t, err)
		assert.Equal(t, "Assessor Parlamentar", got.Name)
	})
}
