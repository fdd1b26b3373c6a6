package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/storefront/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamoPuts struct {
	puts []*dynamodb.PutItemInput
	err  error
}

func (f *fakeDynamoPuts) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoPuts) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func testEvent(t *testing.T) event.Event {
	t.Helper()
	e, err := event.New("session-1", "Cart", "CartCleared", 3, map[string]any{"session_id": "session-1", "item_count": 2})
	require.NoError(t, err)
	return e
}

// ============================================
// DynamoDB Event Log Tests
// ============================================

func TestDynamoEventLog_Publish(t *testing.T) {
	client := &fakeDynamoPuts{}
	log := NewDynamoEventLog(client, "storefront-events")
	e := testEvent(t)

	require.NoError(t, log.Publish(context.Background(), "session-1", e))

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "storefront-events", *put.TableName)
	assert.Equal(t, "attribute_not_exists(id)", *put.ConditionExpression)

	var item dynamoEvent
	require.NoError(t, attributevalue.UnmarshalMap(put.Item, &item))
	assert.Equal(t, e.ID, item.ID)
	assert.Equal(t, "session-1", item.AggregateID)
	assert.Equal(t, "Cart", item.AggregateType)
	assert.Equal(t, "CartCleared", item.EventType)
	assert.Equal(t, 3, item.Version)
	assert.JSONEq(t, string(e.Data), item.Data)
}

func TestDynamoEventLog_PublishError(t *testing.T) {
	client := &fakeDynamoPuts{err: errors.New("ConditionalCheckFailedException")}
	log := NewDynamoEventLog(client, "storefront-events")

	err := log.Publish(context.Background(), "session-1", testEvent(t))

	assert.ErrorContains(t, err, "failed to put event")
}

// ============================================
// PostgreSQL Event Log Tests
// ============================================

func TestPostgresEventLog_Integration(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := ConnectPostgres(ctx, connStr)
	require.NoError(t, err)
	defer db.Close()

	log := NewPostgresEventLog(db)
	require.NoError(t, log.EnsureSchema(ctx))

	e := testEvent(t)
	e.AggregateID = "it-" + e.ID
	require.NoError(t, log.Publish(ctx, e.AggregateID, e))

	events, err := log.Events(ctx, e.AggregateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, e.ID, events[0].ID)
	assert.Equal(t, "CartCleared", events[0].EventType)
	assert.JSONEq(t, string(e.Data), string(events[0].Data))
}
