package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freshcart/freshcart-api/internal/domain"
)

// ReviewRepo provides typed DynamoDB operations for the reviews table.
type ReviewRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReviewRepo(client *dynamodb.Client, tableName string) *ReviewRepo {
	return &ReviewRepo{client: client, tableName: tableName}
}

func (r *ReviewRepo) Put(ctx context.Context, rev *domain.Review) error {
	item, err := attributevalue.MarshalMap(rev)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReviewRepo) Get(ctx context.Context, reviewID string) (*domain.Review, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("review_id", reviewID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}
	var rev domain.Review
	if err := attributevalue.UnmarshalMap(out.Item, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// GetByUserProduct returns the user's review of a product, if one exists.
func (r *ReviewRepo) GetByUserProduct(ctx context.Context, userID, productID string) (*domain.Review, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-product_id-index"),
		KeyConditionExpression: aws.String("user_id = :u AND product_id = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
			":p": &types.AttributeValueMemberS{Value: productID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("review by user %s for product %s: %w", userID, productID, domain.ErrNotFound)
	}
	var rev domain.Review
	if err := attributevalue.UnmarshalMap(out.Items[0], &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListByProduct returns the reviews for a product, optionally filtered by status.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID, status string) ([]domain.Review, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("product_id-index"),
		KeyConditionExpression: aws.String("product_id = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: productID},
		},
	}
	if status != "" {
		input.FilterExpression = aws.String("#s = :s")
		input.ExpressionAttributeNames = map[string]string{"#s": "status"}
		input.ExpressionAttributeValues[":s"] = &types.AttributeValueMemberS{Value: status}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	var reviews []domain.Review
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepo) Update(ctx context.Context, reviewID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("review_id", reviewID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *ReviewRepo) Delete(ctx context.Context, reviewID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("review_id", reviewID),
	})
	return err
}
