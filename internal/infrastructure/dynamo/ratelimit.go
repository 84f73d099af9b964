package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RateLimitClient is the slice of the DynamoDB API the counter repo uses.
type RateLimitClient interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// RateLimitRepo backs fixed-window request counters. Each key holds a hit
// counter and a window expiry; the table's TTL on expires_at reclaims stale
// windows. The increment is a single atomic UpdateItem so concurrent requests
// for the same key never race.
type RateLimitRepo struct {
	client    RateLimitClient
	tableName string

	readyOnce sync.Once
	readyErr  error
}

func NewRateLimitRepo(client RateLimitClient, tableName string) *RateLimitRepo {
	return &RateLimitRepo{client: client, tableName: tableName}
}

// Incr counts one hit against key. When the stored window has lapsed (or the
// key is absent) a fresh window of the given duration is started at count 1.
// Returns the hit count within the current window.
func (r *RateLimitRepo) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now().Unix()
	windowEnd := now + int64(window.Seconds())

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("limit_key", key),
		UpdateExpression: aws.String("ADD hits :one SET expires_at = if_not_exists(expires_at, :end)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":end": &types.AttributeValueMemberN{Value: strconv.FormatInt(windowEnd, 10)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return 0, fmt.Errorf("increment rate counter: %w", err)
	}

	hits, err := numAttr(out.Attributes, "hits")
	if err != nil {
		return 0, err
	}
	expiresAt, err := numAttr(out.Attributes, "expires_at")
	if err != nil {
		return 0, err
	}

	// TTL deletion is lazy, so a lapsed window may still be present. Reset it
	// to a fresh window; losing a concurrent hit or two at the boundary only
	// makes the limiter marginally more permissive for that instant.
	if expiresAt <= now {
		_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:        aws.String(r.tableName),
			Key:              strKey("limit_key", key),
			UpdateExpression: aws.String("SET hits = :one, expires_at = :end"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":one": &types.AttributeValueMemberN{Value: "1"},
				":end": &types.AttributeValueMemberN{Value: strconv.FormatInt(windowEnd, 10)},
			},
		})
		if err != nil {
			return 0, fmt.Errorf("reset rate window: %w", err)
		}
		return 1, nil
	}

	return hits, nil
}

// Ready probes the backing table once, under the caller's deadline. Startup
// waits on this before accepting traffic, so the store-backed limiters never
// fail open merely because the counter table was not reachable yet; the probe
// result is cached, so the readiness endpoint reuses it for free.
func (r *RateLimitRepo) Ready(ctx context.Context) error {
	r.readyOnce.Do(func() {
		_, r.readyErr = r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(r.tableName),
		})
	})
	return r.readyErr
}

func numAttr(attrs map[string]types.AttributeValue, name string) (int64, error) {
	n, ok := attrs[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("%s missing from update response", name)
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}
