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

	commonErrors "github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

// DynamoDBServantRepository implements the servant.Repository interface
type DynamoDBServantRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBServantRepository creates a new DynamoDBServantRepository
func NewDynamoDBServantRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBServantRepository {
	return &DynamoDBServantRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// CreateServant stores a new servant, assigning its ID
func (r *DynamoDBServantRepository) CreateServant(ctx context.Context, s *servant.Servant) error {
	if s.ServantID == "" {
		s.ServantID = ulid.Make().String()
	}
	s.CreatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal servant", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("SERVANT#%s", s.ServantID)}
	item["SK"] = &types.AttributeValueMemberS{Value: "SERVANT"}
	item["GSI1PK"] = &types.AttributeValueMemberS{Value: "SERVANT"}
	item["GSI1SK"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("SERVANT#%s", s.ServantID)}
	item["Type"] = &types.AttributeValueMemberS{Value: typeServant}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return commonErrors.NewConflictError("servant already exists")
		}
		return commonErrors.NewInternalError("failed to create servant", err)
	}

	r.logger.Info("servant created", "servantId", s.ServantID)
	return nil
}

// GetServant retrieves a servant by ID
func (r *DynamoDBServantRepository) GetServant(ctx context.Context, servantID string) (*servant.Servant, error) {
	item, err := getItem(ctx, r.client, r.table, fmt.Sprintf("SERVANT#%s", servantID), "SERVANT", "servant not found")
	if err != nil {
		return nil, err
	}

	var s servant.Servant
	if err := attributevalue.UnmarshalMap(item, &s); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal servant", err)
	}
	return &s, nil
}

// ListServants returns every servant in creation order
func (r *DynamoDBServantRepository) ListServants(ctx context.Context) ([]servant.Servant, error) {
	items, err := queryAll(ctx, r.client, r.table, "GSI1",
		expression.Key("GSI1PK").Equal(expression.Value("SERVANT")), true)
	if err != nil {
		return nil, err
	}

	servants := make([]servant.Servant, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &servants); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal servants", err)
	}
	return servants, nil
}
