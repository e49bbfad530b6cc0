package repository

import (
	"log/slog"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

// Factory creates repository instances over one table
type Factory struct {
	client    client.Client
	tableName string
	logger    *slog.Logger
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string, logger *slog.Logger) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// RoleRepository returns an implementation of the role.Repository interface
func (f *Factory) RoleRepository() role.Repository {
	return NewDynamoDBRoleRepository(f.client, f.tableName, f.logger)
}

// ServantRepository returns an implementation of the servant.Repository interface
func (f *Factory) ServantRepository() servant.Repository {
	return NewDynamoDBServantRepository(f.client, f.tableName, f.logger)
}

// PresidentRepository returns an implementation of the president.Repository interface
func (f *Factory) PresidentRepository() president.Repository {
	return NewDynamoDBPresidentRepository(f.client, f.tableName, f.logger)
}

// RecordRepository returns an implementation of the record.Repository interface
func (f *Factory) RecordRepository() record.Repository {
	return NewDynamoDBRecordRepository(f.client, f.tableName, f.logger)
}
