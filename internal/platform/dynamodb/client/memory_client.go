package client

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryClient is an in-memory implementation of Client for tests and local runs.
// It understands the key conditions produced by the expression builder
// (equality and begins_with on PK/SK or GSI1PK/GSI1SK) and the
// attribute_exists / attribute_not_exists conditions used by the repositories.
type MemoryClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue
}

// NewMemoryClient creates an empty in-memory table
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

// Len returns the number of stored items
func (c *MemoryClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func itemKey(item map[string]types.AttributeValue) string {
	return stringAttr(item, "PK") + "|" + stringAttr(item, "SK")
}

// GetItem retrieves an item from the in-memory store
func (c *MemoryClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[itemKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// PutItem adds or replaces an item in the in-memory store
func (c *MemoryClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := itemKey(params.Item)
	ok, err := c.conditionHolds(key, aws.ToString(params.ConditionExpression))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	c.items[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// DeleteItem removes an item from the in-memory store
func (c *MemoryClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := itemKey(params.Key)
	ok, err := c.conditionHolds(key, aws.ToString(params.ConditionExpression))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(c.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

// TransactWriteItems applies puts, deletes and condition checks all or nothing
func (c *MemoryClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, ti := range params.TransactItems {
		var key, cond string
		switch {
		case ti.Put != nil:
			key, cond = itemKey(ti.Put.Item), aws.ToString(ti.Put.ConditionExpression)
		case ti.Delete != nil:
			key, cond = itemKey(ti.Delete.Key), aws.ToString(ti.Delete.ConditionExpression)
		case ti.ConditionCheck != nil:
			key, cond = itemKey(ti.ConditionCheck.Key), aws.ToString(ti.ConditionCheck.ConditionExpression)
		default:
			return nil, fmt.Errorf("memory client: unsupported transact item at index %d", i)
		}
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		ok, err := c.conditionHolds(key, cond)
		if err != nil {
			return nil, fmt.Errorf("transact item %d: %w", i, err)
		}
		if !ok {
			reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	for _, ti := range params.TransactItems {
		switch {
		case ti.Put != nil:
			c.items[itemKey(ti.Put.Item)] = copyItem(ti.Put.Item)
		case ti.Delete != nil:
			delete(c.items, itemKey(ti.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

var (
	existsCond     = regexp.MustCompile(`^attribute_(not_)?exists\((PK|SK)\)$`)
	equalCond      = regexp.MustCompile(`(#\w+)\s*=\s*(:\w+)`)
	beginsWithCond = regexp.MustCompile(`begins_with\s*\(\s*(#\w+)\s*,\s*(:\w+)\s*\)`)
)

// Query supports the base table and the GSI1 index
func (c *MemoryClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	pkName, skName := "PK", "SK"
	if idx := aws.ToString(params.IndexName); idx != "" {
		if idx != "GSI1" {
			return nil, fmt.Errorf("memory client: unknown index %q", idx)
		}
		pkName, skName = "GSI1PK", "GSI1SK"
	}

	cond := aws.ToString(params.KeyConditionExpression)
	resolve := func(name, value string) (string, string, error) {
		attr, ok := params.ExpressionAttributeNames[name]
		if !ok {
			attr = strings.TrimPrefix(name, "#")
		}
		v, ok := params.ExpressionAttributeValues[value].(*types.AttributeValueMemberS)
		if !ok {
			return "", "", fmt.Errorf("memory client: value %s is not a string", value)
		}
		return attr, v.Value, nil
	}

	equals := map[string]string{}
	prefixes := map[string]string{}
	for _, m := range beginsWithCond.FindAllStringSubmatch(cond, -1) {
		attr, val, err := resolve(m[1], m[2])
		if err != nil {
			return nil, err
		}
		prefixes[attr] = val
	}
	for _, m := range equalCond.FindAllStringSubmatch(beginsWithCond.ReplaceAllString(cond, ""), -1) {
		attr, val, err := resolve(m[1], m[2])
		if err != nil {
			return nil, err
		}
		equals[attr] = val
	}

	pk, ok := equals[pkName]
	if !ok {
		return nil, fmt.Errorf("memory client: key condition %q has no equality on %s", cond, pkName)
	}

	c.mu.RLock()
	var out []map[string]types.AttributeValue
	for _, item := range c.items {
		if stringAttr(item, pkName) != pk {
			continue
		}
		if _, has := item[skName]; !has {
			continue
		}
		sk := stringAttr(item, skName)
		if want, ok := equals[skName]; ok && sk != want {
			continue
		}
		if prefix, ok := prefixes[skName]; ok && !strings.HasPrefix(sk, prefix) {
			continue
		}
		out = append(out, copyItem(item))
	}
	c.mu.RUnlock()

	forward := params.ScanIndexForward == nil || *params.ScanIndexForward
	sort.Slice(out, func(i, j int) bool {
		a, b := stringAttr(out[i], skName), stringAttr(out[j], skName)
		if forward {
			return a < b
		}
		return a > b
	})
	if params.Limit != nil && int(*params.Limit) < len(out) {
		out = out[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: out, Count: int32(len(out))}, nil
}

// conditionHolds evaluates the existence conditions the repositories write.
// Anything else is an error so a new condition cannot pass unchecked.
// Callers must hold the lock.
func (c *MemoryClient) conditionHolds(key, cond string) (bool, error) {
	if cond == "" {
		return true, nil
	}
	m := existsCond.FindStringSubmatch(strings.ReplaceAll(cond, " ", ""))
	if m == nil {
		return false, fmt.Errorf("memory client: unsupported condition expression %q", cond)
	}
	_, exists := c.items[key]
	if m[1] == "not_" {
		return !exists, nil
	}
	return exists, nil
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
