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

// WishlistRepo provides typed DynamoDB operations for the wishlists table.
type WishlistRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWishlistRepo(client *dynamodb.Client, tableName string) *WishlistRepo {
	return &WishlistRepo{client: client, tableName: tableName}
}

func (r *WishlistRepo) Put(ctx context.Context, w *domain.Wishlist) error {
	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *WishlistRepo) Get(ctx context.Context, wishlistID string) (*domain.Wishlist, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("wishlist_id", wishlistID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("wishlist %s: %w", wishlistID, domain.ErrNotFound)
	}
	var w domain.Wishlist
	if err := attributevalue.UnmarshalMap(out.Item, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WishlistRepo) ListByUser(ctx context.Context, userID string) ([]domain.Wishlist, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	var lists []domain.Wishlist
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *WishlistRepo) Delete(ctx context.Context, wishlistID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("wishlist_id", wishlistID),
	})
	return err
}
