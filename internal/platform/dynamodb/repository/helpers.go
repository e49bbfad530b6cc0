package repository

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	commonErrors "github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

// Item types stored in the Type attribute
const (
	typeRole      = "role"
	typeRoleName  = "role_name"
	typeServant   = "servant"
	typePresident = "president"
	typeRecord    = "record"
	typeAdvance   = "advance"
	typeCount     = "daily_count"
	typeDocument  = "document"
	typeTicket    = "ticket"
)

func keyOf(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// isConditionFailed reports whether a write was rejected by its condition,
// either on a single item or inside a transaction.
func isConditionFailed(err error) bool {
	var condCheckErr *types.ConditionalCheckFailedException
	if errors.As(err, &condCheckErr) {
		return true
	}
	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for _, reason := range txErr.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

// getItem reads one item by key; a missing item is a NOT_FOUND error carrying notFound.
func getItem(ctx context.Context, c client.Client, table, pk, sk, notFound string) (map[string]types.AttributeValue, error) {
	result, err := c.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       keyOf(pk, sk),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get item", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError(notFound)
	}
	return result.Item, nil
}

// queryAll follows LastEvaluatedKey until the key condition is exhausted.
func queryAll(ctx context.Context, c client.Client, table, index string, keyCondition expression.KeyConditionBuilder, forward bool) ([]map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(forward),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}

	var items []map[string]types.AttributeValue
	for {
		result, err := c.Query(ctx, input)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to query items", err)
		}
		items = append(items, result.Items...)
		if len(result.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
