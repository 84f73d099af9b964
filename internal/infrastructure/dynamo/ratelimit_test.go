package dynamo

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLimitClient scripts UpdateItem responses in order and records the
// inputs it saw.
type fakeLimitClient struct {
	updates   []*dynamodb.UpdateItemInput
	responses []*dynamodb.UpdateItemOutput
	updateErr error

	describeCalls int
	describeErr   error
}

func (f *fakeLimitClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	out := f.responses[len(f.updates)-1]
	return out, nil
}

func (f *fakeLimitClient) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.describeCalls++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func counterAttrs(hits, expiresAt int64) *dynamodb.UpdateItemOutput {
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"hits":       &types.AttributeValueMemberN{Value: strconv.FormatInt(hits, 10)},
		"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)},
	}}
}

func TestIncr_LiveWindow_ReturnsHits(t *testing.T) {
	future := time.Now().Add(time.Minute).Unix()
	client := &fakeLimitClient{responses: []*dynamodb.UpdateItemOutput{counterAttrs(3, future)}}
	repo := NewRateLimitRepo(client, "rate_limits")

	hits, err := repo.Incr(context.Background(), "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), hits)
	require.Len(t, client.updates, 1)
	assert.Contains(t, *client.updates[0].UpdateExpression, "ADD hits")
}

func TestIncr_LapsedWindow_ResetsToOne(t *testing.T) {
	past := time.Now().Add(-time.Second).Unix()
	client := &fakeLimitClient{responses: []*dynamodb.UpdateItemOutput{
		counterAttrs(7, past),
		{},
	}}
	repo := NewRateLimitRepo(client, "rate_limits")

	// TTL deletion is lazy: the stored window lapsed but the item is still
	// there, so the next hit must start a fresh window at 1, not report 8.
	hits, err := repo.Incr(context.Background(), "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits)
	require.Len(t, client.updates, 2)
	assert.Contains(t, *client.updates[1].UpdateExpression, "SET hits = :one")
}

func TestIncr_StoreError(t *testing.T) {
	client := &fakeLimitClient{updateErr: errors.New("connection refused")}
	repo := NewRateLimitRepo(client, "rate_limits")

	_, err := repo.Incr(context.Background(), "login:1.2.3.4", time.Minute)
	assert.ErrorContains(t, err, "increment rate counter")
}

func TestReady_PropagatesProbeFailure(t *testing.T) {
	client := &fakeLimitClient{describeErr: errors.New("connection refused")}
	repo := NewRateLimitRepo(client, "rate_limits")

	err := repo.Ready(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestReady_ProbesOnce(t *testing.T) {
	client := &fakeLimitClient{}
	repo := NewRateLimitRepo(client, "rate_limits")

	require.NoError(t, repo.Ready(context.Background()))
	require.NoError(t, repo.Ready(context.Background()))
	assert.Equal(t, 1, client.describeCalls)
}
