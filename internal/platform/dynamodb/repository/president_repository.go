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
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

// DynamoDBPresidentRepository implements the president.Repository interface
type DynamoDBPresidentRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBPresidentRepository creates a new DynamoDBPresidentRepository
func NewDynamoDBPresidentRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBPresidentRepository {
	return &DynamoDBPresidentRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func presidentPK(presidentID string) string {
	return fmt.Sprintf("PRESIDENT#%s", presidentID)
}

// CreatePresident stores a new president, assigning its ID
func (r *DynamoDBPresidentRepository) CreatePresident(ctx context.Context, p *president.President) error {
	if p.PresidentID == "" {
		p.PresidentID = ulid.Make().String()
	}
	p.CreatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal president", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: presidentPK(p.PresidentID)}
	item["SK"] = &types.AttributeValueMemberS{Value: "PRESIDENT"}
	item["GSI1PK"] = &types.AttributeValueMemberS{Value: "PRESIDENT"}
	item["GSI1SK"] = &types.AttributeValueMemberS{Value: presidentPK(p.PresidentID)}
	item["Type"] = &types.AttributeValueMemberS{Value: typePresident}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return commonErrors.NewConflictError("president already exists")
		}
		return commonErrors.NewInternalError("failed to create president", err)
	}
	return nil
}

// GetPresident retrieves a president by ID
func (r *DynamoDBPresidentRepository) GetPresident(ctx context.Context, presidentID string) (*president.President, error) {
	item, err := getItem(ctx, r.client, r.table, presidentPK(presidentID), "PRESIDENT", "president not found")
	if err != nil {
		return nil, err
	}

	var p president.President
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal president", err)
	}
	return &p, nil
}

// ListPresidents returns every president in creation order
func (r *DynamoDBPresidentRepository) ListPresidents(ctx context.Context) ([]president.President, error) {
	items, err := queryAll(ctx, r.client, r.table, "GSI1",
		expression.Key("GSI1PK").Equal(expression.Value("PRESIDENT")), true)
	if err != nil {
		return nil, err
	}

	presidents := make([]president.President, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &presidents); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal presidents", err)
	}
	return presidents, nil
}
