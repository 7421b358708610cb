package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CounterAPI is the subset of the DynamoDB client used by DistributedRateLimiter
type CounterAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DistributedRateLimiter counts requests per fixed window in DynamoDB so
// limits hold across Lambda instances. Counter items live in the application
// table and expire through its TTL attribute.
type DistributedRateLimiter struct {
	client    CounterAPI
	tableName string
	limit     int
	window    time.Duration
	now       func() time.Time
}

// NewDistributedRateLimiter creates a fixed-window limiter of limit requests per window
func NewDistributedRateLimiter(client CounterAPI, tableName string, limit int, window time.Duration) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		client:    client,
		tableName: tableName,
		limit:     limit,
		window:    window,
		now:       time.Now,
	}
}

// Allow increments the window counter unless it already reached the limit.
// Storage errors fail open and are returned alongside true.
func (r *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := r.now().Truncate(r.window)
	windowEnd := windowStart.Add(r.window)

	count := expression.Plus(expression.IfNotExists(expression.Name("Count"), expression.Value(0)), expression.Value(1))
	update := expression.Set(expression.Name("Count"), count).
		Set(expression.Name("TTL"), expression.Value(windowEnd.Add(time.Hour).Unix()))
	cond := expression.AttributeNotExists(expression.Name("Count")).
		Or(expression.Name("Count").LessThan(expression.Value(r.limit)))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return true, fmt.Errorf("rate limiter expression (failing open): %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.itemKey(key, windowStart),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}

	return true, nil
}

// Reset clears the current window counter for a key
func (r *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.itemKey(key, r.now().Truncate(r.window)),
	})
	return err
}

func (r *DistributedRateLimiter) itemKey(key string, windowStart time.Time) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("RATELIMIT#%s#%d", key, windowStart.Unix())},
		"SK": &types.AttributeValueMemberS{Value: "COUNTER"},
	}
}
