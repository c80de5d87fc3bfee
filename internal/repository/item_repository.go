package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/instock-app/instock-server/internal/domain"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// Items are keyed by SKU with BusinessId as the sort key; the BusinessId GSI
// serves the per-business listing the report build depends on.
const businessIndexName = "BusinessId"

type ItemRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewItemRepository(client *dynamodb.Client, tableName string) *ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
	}
}

// GetAllItems returns the raw attribute maps for every item of a business.
// The stats engine decodes them itself, so no unmarshalling happens here.
func (r *ItemRepository) GetAllItems(ctx context.Context, businessID string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("BusinessId").Equal(expression.Value(businessID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(businessIndexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query items: %w", err)
		}
		items = append(items, result.Items...)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return items, nil
}

func (r *ItemRepository) GetItem(ctx context.Context, businessID, sku string) (map[string]types.AttributeValue, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"SKU":        &types.AttributeValueMemberS{Value: sku},
			"BusinessId": &types.AttributeValueMemberS{Value: businessID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if result.Item == nil {
		return nil, ErrItemNotFound
	}
	return result.Item, nil
}

func (r *ItemRepository) PutItem(ctx context.Context, item *domain.Item) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// SetImageFilename records the item's uploaded image so milestones can carry
// it.
func (r *ItemRepository) SetImageFilename(ctx context.Context, businessID, sku, filename string) error {
	update := expression.Set(
		expression.Name("ImageFilename"),
		expression.Value(filename),
	)
	condition := expression.AttributeExists(expression.Name("SKU"))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"SKU":        &types.AttributeValueMemberS{Value: sku},
			"BusinessId": &types.AttributeValueMemberS{Value: businessID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to set image filename: %w", err)
	}
	return nil
}

// SetStockState writes the item's new stock level and its re-encoded history
// in one update. The condition keeps the write from resurrecting a deleted
// item.
func (r *ItemRepository) SetStockState(ctx context.Context, businessID, sku, stock, updatesJSON string) error {
	update := expression.Set(
		expression.Name("Stock"),
		expression.Value(stock),
	).Set(
		expression.Name("StockUpdates"),
		expression.Value(updatesJSON),
	)
	condition := expression.AttributeExists(expression.Name("SKU"))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"SKU":        &types.AttributeValueMemberS{Value: sku},
			"BusinessId": &types.AttributeValueMemberS{Value: businessID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to update stock state: %w", err)
	}
	return nil
}
