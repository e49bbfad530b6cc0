package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	commonErrors "github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

// DynamoDBRoleRepository implements the role.Repository interface.
// Each role is stored twice: the role item itself and a name lock item
// (PK ROLE_NAME#<name>) that keeps names unique.
type DynamoDBRoleRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBRoleRepository creates a new DynamoDBRoleRepository
func NewDynamoDBRoleRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBRoleRepository {
	return &DynamoDBRoleRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// RoleDDB is the stored form of a role; rates are kept as decimal strings
type RoleDDB struct {
	PK             string    `dynamodbav:"PK"`
	SK             string    `dynamodbav:"SK"`
	GSI1PK         string    `dynamodbav:"GSI1PK"`
	GSI1SK         string    `dynamodbav:"GSI1SK"`
	Type           string    `dynamodbav:"Type"`
	RoleID         string    `dynamodbav:"roleId"`
	Name           string    `dynamodbav:"name"`
	RateInState    string    `dynamodbav:"rateInState"`
	RateOutOfState string    `dynamodbav:"rateOutOfState"`
	CreatedAt      time.Time `dynamodbav:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updatedAt"`
}

type roleNameLock struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	Type   string `dynamodbav:"Type"`
	RoleID string `dynamodbav:"roleId"`
}

func rolePK(roleID string) string {
	return fmt.Sprintf("ROLE#%s", roleID)
}

func roleNamePK(name string) string {
	return fmt.Sprintf("ROLE_NAME#%s", name)
}

func toRoleDDB(r *role.Role) RoleDDB {
	return RoleDDB{
		PK:             rolePK(r.RoleID),
		SK:             "ROLE",
		GSI1PK:         "ROLE",
		GSI1SK:         fmt.Sprintf("ROLE#%s", r.Name),
		Type:           typeRole,
		RoleID:         r.RoleID,
		Name:           r.Name,
		RateInState:    r.RateInState.String(),
		RateOutOfState: r.RateOutOfState.String(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (d RoleDDB) toRole() (*role.Role, error) {
	in, err := decimal.NewFromString(d.RateInState)
	if err != nil {
		return nil, commonErrors.NewInternalError("invalid stored rate", err)
	}
	out, err := decimal.NewFromString(d.RateOutOfState)
	if err != nil {
		return nil, commonErrors.NewInternalError("invalid stored rate", err)
	}
	return &role.Role{
		RoleID:         d.RoleID,
		Name:           d.Name,
		RateInState:    in,
		RateOutOfState: out,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func (r *DynamoDBRoleRepository) putNameLock(name, roleID string) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(roleNameLock{
		PK:     roleNamePK(name),
		SK:     "ROLE_NAME",
		Type:   typeRoleName,
		RoleID: roleID,
	})
	if err != nil {
		return types.TransactWriteItem{}, commonErrors.NewInternalError("failed to marshal role name", err)
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}}, nil
}

// CreateRole stores a role together with its name lock
func (r *DynamoDBRoleRepository) CreateRole(ctx context.Context, ro *role.Role) error {
	if ro.RoleID == "" {
		ro.RoleID = ulid.Make().String()
	}
	now := time.Now().UTC()
	ro.CreatedAt = now
	ro.UpdatedAt = now

	item, err := attributevalue.MarshalMap(toRoleDDB(ro))
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal role", err)
	}
	lock, err := r.putNameLock(ro.Name, ro.RoleID)
	if err != nil {
		return err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			lock,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return commonErrors.NewConflictError(fmt.Sprintf("role %q already exists", ro.Name))
		}
		return commonErrors.NewInternalError("failed to create role", err)
	}

	r.logger.Info("role created", "roleId", ro.RoleID, "name", ro.Name)
	return nil
}

// GetRole retrieves a role by ID
func (r *DynamoDBRoleRepository) GetRole(ctx context.Context, roleID string) (*role.Role, error) {
	item, err := getItem(ctx, r.client, r.table, rolePK(roleID), "ROLE", "role not found")
	if err != nil {
		return nil, err
	}

	var d RoleDDB
	if err := attributevalue.UnmarshalMap(item, &d); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal role", err)
	}
	return d.toRole()
}

// GetRoleByName resolves the name lock and then reads the role
func (r *DynamoDBRoleRepository) GetRoleByName(ctx context.Context, name string) (*role.Role, error) {
	item, err := getItem(ctx, r.client, r.table, roleNamePK(name), "ROLE_NAME", "role not found")
	if err != nil {
		return nil, err
	}

	var lock roleNameLock
	if err := attributevalue.UnmarshalMap(item, &lock); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal role name", err)
	}
	return r.GetRole(ctx, lock.RoleID)
}

// ListRoles returns every role ordered by name
func (r *DynamoDBRoleRepository) ListRoles(ctx context.Context) ([]role.Role, error) {
	items, err := queryAll(ctx, r.client, r.table, "GSI1",
		expression.Key("GSI1PK").Equal(expression.Value("ROLE")), true)
	if err != nil {
		return nil, err
	}

	var stored []RoleDDB
	if err := attributevalue.UnmarshalListOfMaps(items, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal roles", err)
	}

	roles := make([]role.Role, 0, len(stored))
	for _, d := range stored {
		ro, err := d.toRole()
		if err != nil {
			return nil, err
		}
		roles = append(roles, *ro)
	}
	return roles, nil
}

// UpdateRole rewrites a role. When the name changes the old lock is released
// and the new one taken in the same transaction.
func (r *DynamoDBRoleRepository) UpdateRole(ctx context.Context, previousName string, ro *role.Role) error {
	ro.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(toRoleDDB(ro))
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal role", err)
	}

	txItems := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(r.table),
			Item:                item,
			ConditionExpression: aws.String("attribute_exists(PK)"),
		}},
	}
	if previousName != ro.Name {
		lock, err := r.putNameLock(ro.Name, ro.RoleID)
		if err != nil {
			return err
		}
		txItems = append(txItems,
			types.TransactWriteItem{Delete: &types.Delete{
				TableName: aws.String(r.table),
				Key:       keyOf(roleNamePK(previousName), "ROLE_NAME"),
			}},
			lock,
		)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: txItems})
	if err != nil {
		if isConditionFailed(err) {
			return commonErrors.NewConflictError(fmt.Sprintf("role %q already exists", ro.Name))
		}
		return commonErrors.NewInternalError("failed to update role", err)
	}
	return nil
}
