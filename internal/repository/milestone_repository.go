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

var ErrMilestoneNotFound = errors.New("milestone not found")

type MilestoneRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewMilestoneRepository(client *dynamodb.Client, tableName string) *MilestoneRepository {
	return &MilestoneRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *MilestoneRepository) Save(ctx context.Context, milestone *domain.Milestone) error {
	av, err := attributevalue.MarshalMap(milestone)
	if err != nil {
		return fmt.Errorf("failed to marshal milestone: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) GetAllForBusiness(ctx context.Context, businessID string) ([]domain.Milestone, error) {
	keyCond := expression.Key("BusinessId").Equal(expression.Value(businessID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(businessIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}

	milestones := make([]domain.Milestone, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &milestones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal milestones: %w", err)
	}
	return milestones, nil
}

// Hide clears the display flag so the milestone stops appearing on the
// dashboard without losing the record.
func (r *MilestoneRepository) Hide(ctx context.Context, businessID, milestoneID string) error {
	update := expression.Set(
		expression.Name("DisplayMilestone"),
		expression.Value(false),
	)
	condition := expression.AttributeExists(expression.Name("MilestoneId"))

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
			"MilestoneId": &types.AttributeValueMemberS{Value: milestoneID},
			"BusinessId":  &types.AttributeValueMemberS{Value: businessID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrMilestoneNotFound
		}
		return fmt.Errorf("failed to hide milestone: %w", err)
	}
	return nil
}
