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

// WarehouseRepo provides typed DynamoDB operations for the warehouses table.
type WarehouseRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWarehouseRepo(client *dynamodb.Client, tableName string) *WarehouseRepo {
	return &WarehouseRepo{client: client, tableName: tableName}
}

func (r *WarehouseRepo) Put(ctx context.Context, w *domain.Warehouse) error {
	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("marshal warehouse: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *WarehouseRepo) Get(ctx context.Context, warehouseID string) (*domain.Warehouse, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("warehouse_id", warehouseID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("warehouse %s: %w", warehouseID, domain.ErrNotFound)
	}
	var w domain.Warehouse
	if err := attributevalue.UnmarshalMap(out.Item, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*domain.Warehouse, error) {
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
		return nil, fmt.Errorf("warehouse code %s: %w", code, domain.ErrNotFound)
	}
	var w domain.Warehouse
	if err := attributevalue.UnmarshalMap(out.Items[0], &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepo) ListAll(ctx context.Context) ([]domain.Warehouse, error) {
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
	var warehouses []domain.Warehouse
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &warehouses); err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *WarehouseRepo) Update(ctx context.Context, warehouseID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("warehouse_id", warehouseID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *WarehouseRepo) SoftDelete(ctx context.Context, warehouseID string) error {
	return r.Update(ctx, warehouseID, map[string]interface{}{"enable": false})
}
