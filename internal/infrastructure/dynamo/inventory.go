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

// InventoryRepo provides typed DynamoDB operations for the inventory table.
type InventoryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInventoryRepo(client *dynamodb.Client, tableName string) *InventoryRepo {
	return &InventoryRepo{client: client, tableName: tableName}
}

func (r *InventoryRepo) Put(ctx context.Context, rec *domain.InventoryRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal inventory record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *InventoryRepo) Get(ctx context.Context, inventoryID string) (*domain.InventoryRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("inventory_id", inventoryID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("inventory %s: %w", inventoryID, domain.ErrNotFound)
	}
	var rec domain.InventoryRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByProductWarehouse returns the single record for a product in a warehouse.
func (r *InventoryRepo) GetByProductWarehouse(ctx context.Context, productID, warehouseID string) (*domain.InventoryRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("product_id-warehouse_id-index"),
		KeyConditionExpression: aws.String("product_id = :p AND warehouse_id = :w"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: productID},
			":w": &types.AttributeValueMemberS{Value: warehouseID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("inventory for product %s in warehouse %s: %w", productID, warehouseID, domain.ErrNotFound)
	}
	var rec domain.InventoryRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByProduct returns all warehouse records for a product.
func (r *InventoryRepo) ListByProduct(ctx context.Context, productID string) ([]domain.InventoryRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("product_id-warehouse_id-index"),
		KeyConditionExpression:    aws.String("product_id = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: productID}},
	})
	if err != nil {
		return nil, err
	}
	var recs []domain.InventoryRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByWarehouse returns all stock records held in a warehouse.
func (r *InventoryRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("warehouse_id-index"),
		KeyConditionExpression:    aws.String("warehouse_id = :w"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":w": &types.AttributeValueMemberS{Value: warehouseID}},
	})
	if err != nil {
		return nil, err
	}
	var recs []domain.InventoryRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *InventoryRepo) Update(ctx context.Context, inventoryID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("inventory_id", inventoryID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
