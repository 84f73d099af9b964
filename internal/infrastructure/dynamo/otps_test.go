package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOTPClient struct {
	updateOut *dynamodb.UpdateItemOutput
	updateErr error
	getOut    *dynamodb.GetItemOutput
}

func (f *fakeOTPClient) PutItem(_ context.Context, _ *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeOTPClient) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getOut != nil {
		return f.getOut, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeOTPClient) UpdateItem(_ context.Context, _ *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return f.updateOut, f.updateErr
}

func (f *fakeOTPClient) DeleteItem(_ context.Context, _ *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestIncrementAttempts_ReturnsNewCount(t *testing.T) {
	client := &fakeOTPClient{updateOut: &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{
			"attempts": &types.AttributeValueMemberN{Value: "2"},
		},
	}}
	repo := NewOTPRepo(client, "otps")

	n, err := repo.IncrementAttempts(context.Background(), "email", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIncrementAttempts_RecordVanished_MapsToNotFound(t *testing.T) {
	// The conditional update fails when the record disappeared between the
	// caller's read and the increment (TTL sweep or a concurrent success).
	client := &fakeOTPClient{updateErr: &types.ConditionalCheckFailedException{}}
	repo := NewOTPRepo(client, "otps")

	_, err := repo.IncrementAttempts(context.Background(), "email", "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIncrementAttempts_OtherErrorPassesThrough(t *testing.T) {
	client := &fakeOTPClient{updateErr: errors.New("throttled")}
	repo := NewOTPRepo(client, "otps")

	_, err := repo.IncrementAttempts(context.Background(), "email", "a@b.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestGet_MissingItem_ReturnsNotFound(t *testing.T) {
	repo := NewOTPRepo(&fakeOTPClient{}, "otps")
	_, err := repo.Get(context.Background(), "email", "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
