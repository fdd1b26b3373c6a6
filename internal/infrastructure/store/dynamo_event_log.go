package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/storefront/internal/event"
)

// DynamoEventLog stores events in DynamoDB.
// Events are streamed to Kinesis Data Streams via DynamoDB Kinesis integration,
// where the notifier Lambda picks them up.
type DynamoEventLog struct {
	client    dynamoAPI
	tableName string
}

// dynamoEvent represents the DynamoDB item structure
type dynamoEvent struct {
	ID            string `dynamodbav:"id"`
	AggregateID   string `dynamodbav:"aggregate_id"`
	AggregateType string `dynamodbav:"aggregate_type"`
	EventType     string `dynamodbav:"event_type"`
	Data          string `dynamodbav:"data"`
	CreatedAt     string `dynamodbav:"created_at"`
	Version       int    `dynamodbav:"version"`
}

func NewDynamoEventLog(client dynamoAPI, tableName string) *DynamoEventLog {
	return &DynamoEventLog{client: client, tableName: tableName}
}

// Publish stores an event in DynamoDB
func (l *DynamoEventLog) Publish(ctx context.Context, key string, e event.Event) error {
	av, err := attributevalue.MarshalMap(dynamoEvent{
		ID:            e.ID,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		EventType:     e.EventType,
		Data:          string(e.Data),
		CreatedAt:     e.Timestamp.Format(time.RFC3339Nano),
		Version:       e.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Conditional write so a redelivered event is not stored twice
	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put event: %w", err)
	}
	return nil
}
