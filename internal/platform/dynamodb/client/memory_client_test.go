package client

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func TestMemoryClient_Conditions(t *testing.T) {
	ctx := context.Background()

	t.Run("attribute_not_exists guards a put", func(t *testing.T) {
		c := NewMemoryClient()
		put := &dynamodb.PutItemInput{
			TableName:           aws.String("t"),
			Item:                testItem("ROLE#1", "ROLE"),
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		}
		_, err := c.PutItem(ctx, put)
		require.NoError(t, err)

		_, err = c.PutItem(ctx, put)
		var condErr *types.ConditionalCheckFailedException
		assert.True(t, stderrors.As(err, &condErr))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("attribute_exists guards a delete", func(t *testing.T) {
		c := NewMemoryClient()
		_, err := c.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName:           aws.String("t"),
			Key:                 testItem("RECORD#1", "TICKET#1"),
			ConditionExpression: aws.String("attribute_exists( PK )"),
		})
		var condErr *types.ConditionalCheckFailedException
		assert.True(t, stderrors.As(err, &condErr))
	})

	t.Run("unsupported condition on put", func(t *testing.T) {
		c := NewMemoryClient()
		_, err := c.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String("t"),
			Item:                testItem("ROLE#1", "ROLE"),
			ConditionExpression: aws.String("#v = :v"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported condition expression")
		assert.Equal(t, 0, c.Len())
	})

	t.Run("unsupported condition on delete", func(t *testing.T) {
		c := NewMemoryClient()
		_, err := c.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName:           aws.String("t"),
			Key:                 testItem("ROLE#1", "ROLE"),
			ConditionExpression: aws.String("attribute_exists(PK) AND version = :v"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported condition expression")
	})

	t.Run("unsupported condition aborts the whole transaction", func(t *testing.T) {
		c := NewMemoryClient()
		_, err := c.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{Put: &types.Put{
					TableName:           aws.String("t"),
					Item:                testItem("ROLE#1", "ROLE"),
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				}},
				{Put: &types.Put{
					TableName:           aws.String("t"),
					Item:                testItem("ROLE_NAME#a", "ROLE_NAME"),
					ConditionExpression: aws.String("size(name) > :n"),
				}},
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transact item 1")
		assert.Equal(t, 0, c.Len())
	})

	t.Run("failed condition cancels the transaction", func(t *testing.T) {
		c := NewMemoryClient()
		_, err := c.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String("t"), Item: testItem("ROLE_NAME#a", "ROLE_NAME")})
		require.NoError(t, err)

		_, err = c.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{Put: &types.Put{
					TableName:           aws.String("t"),
					Item:                testItem("ROLE#2", "ROLE"),
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				}},
				{Put: &types.Put{
					TableName:           aws.String("t"),
					Item:                testItem("ROLE_NAME#a", "ROLE_NAME"),
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				}},
			},
		})
		var cancelled *types.TransactionCanceledException
		require.True(t, stderrors.As(err, &cancelled))
		assert.Equal(t, "None", aws.ToString(cancelled.CancellationReasons[0].Code))
		assert.Equal(t, "ConditionalCheckFailed", aws.ToString(cancelled.CancellationReasons[1].Code))
		assert.Equal(t, 1, c.Len())
	})
}
