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

// StoreRepo provides typed DynamoDB operations for the stores table.
type StoreRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewStoreRepo(client *dynamodb.Client, tableName string) *StoreRepo {
	return &StoreRepo{client: client, tableName: tableName}
}

func (r *StoreRepo) Put(ctx context.Context, s *domain.Store) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *StoreRepo) Get(ctx context.Context, storeID string) (*domain.Store, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("store_id", storeID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("store %s: %w", storeID, domain.ErrNotFound)
	}
	var s domain.Store
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepo) GetByCode(ctx context.Context, code string) (*domain.Store, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("code-index"),
		KeyConditionExpression:    aws.String("code = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": &types.AttributeValueMemberS{Value: code}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("store code %s: %w", code, domain.ErrNotFound)
	}
	var s domain.Store
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepo) ListAll(ctx context.Context) ([]domain.Store, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("enable = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	var stores []domain.Store
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *StoreRepo) Update(ctx context.Context, storeID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("store_id", storeID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *StoreRepo) SoftDelete(ctx context.Context, storeID string) error {
	return r.Update(ctx, storeID, map[string]interface{}{"enable": false})
}
