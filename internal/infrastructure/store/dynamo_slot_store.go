package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the subset of *dynamodb.Client the slot store needs
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoSlotStore keeps slots in a DynamoDB table keyed by "slot"
type DynamoSlotStore struct {
	client    dynamoAPI
	tableName string
}

// dynamoSlot represents the DynamoDB item structure
type dynamoSlot struct {
	Slot      string `dynamodbav:"slot"`
	Data      string `dynamodbav:"data"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func NewDynamoSlotStore(client dynamoAPI, tableName string) *DynamoSlotStore {
	return &DynamoSlotStore{client: client, tableName: tableName}
}

// NewDynamoClient builds a client from the default AWS credential chain
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (s *DynamoSlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"slot": &types.AttributeValueMemberS{Value: slot},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get slot %s: %w", slot, err)
	}
	if result.Item == nil {
		return nil, false, nil
	}

	var item dynamoSlot
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal slot %s: %w", slot, err)
	}
	return []byte(item.Data), true, nil
}

func (s *DynamoSlotStore) Save(ctx context.Context, slot string, data []byte) error {
	av, err := attributevalue.MarshalMap(dynamoSlot{
		Slot:      slot,
		Data:      string(data),
		UpdatedAt: time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal slot: %w", err)
	}

	// Overwrite existing slot (no condition)
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put slot %s: %w", slot, err)
	}
	return nil
}

func (s *DynamoSlotStore) Close() error {
	return nil
}
