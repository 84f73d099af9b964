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

// SupplierRepo provides typed DynamoDB operations for the suppliers table.
type SupplierRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSupplierRepo(client *dynamodb.Client, tableName string) *SupplierRepo {
	return &SupplierRepo{client: client, tableName: tableName}
}

func (r *SupplierRepo) Put(ctx context.Context, s *domain.Supplier) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal supplier: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SupplierRepo) Get(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("supplier_id", supplierID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, domain.ErrNotFound)
	}
	var s domain.Supplier
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) GetByCode(ctx context.Context, code string) (*domain.Supplier, error) {
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
		return nil, fmt.Errorf("supplier code %s: %w", code, domain.ErrNotFound)
	}
	var s domain.Supplier
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) ListAll(ctx context.Context) ([]domain.Supplier, error) {
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
	var suppliers []domain.Supplier
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *SupplierRepo) Update(ctx context.Context, supplierID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("supplier_id", supplierID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *SupplierRepo) SoftDelete(ctx context.Context, supplierID string) error {
	return r.Update(ctx, supplierID, map[string]interface{}{"enable": false})
}
