package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freshcart/freshcart-api/internal/domain"
)

// CartRepo provides typed DynamoDB operations for the carts table. Carts are
// written whole (items + totals) rather than patched per field, since every
// mutation recomputes the totals anyway.
type CartRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCartRepo(client *dynamodb.Client, tableName string) *CartRepo {
	return &CartRepo{client: client, tableName: tableName}
}

func (r *CartRepo) Put(ctx context.Context, c *domain.Cart) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("cart_id", cartID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("cart %s: %w", cartID, domain.ErrNotFound)
	}
	var c domain.Cart
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByUser returns the user's single active cart, if any.
func (r *CartRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-status-index"),
		KeyConditionExpression: aws.String("user_id = :u AND #s = :a"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
			":a": &types.AttributeValueMemberS{Value: domain.CartActive},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("active cart for user %s: %w", userID, domain.ErrNotFound)
	}
	var c domain.Cart
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("cart_id", cartID),
	})
	return err
}
