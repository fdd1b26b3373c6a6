package kinesis

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartClearedImage(id string) map[string]events.DynamoDBAttributeValue {
	return map[string]events.DynamoDBAttributeValue{
		"id":             events.NewStringAttribute(id),
		"aggregate_id":   events.NewStringAttribute("session-456"),
		"aggregate_type": events.NewStringAttribute("Cart"),
		"event_type":     events.NewStringAttribute("CartCleared"),
		"data":           events.NewStringAttribute(`{"session_id":"session-456","item_count":2}`),
		"created_at":     events.NewStringAttribute("2024-01-15T10:30:00.123456789Z"),
		"version":        events.NewNumberAttribute("4"),
	}
}

func kinesisRecord(t *testing.T, seq string, change events.DynamoDBEventRecord) events.KinesisEventRecord {
	t.Helper()
	data, err := json.Marshal(change)
	require.NoError(t, err)
	return events.KinesisEventRecord{
		EventID: "shard-" + seq,
		Kinesis: events.KinesisRecord{Data: data, SequenceNumber: seq},
	}
}

func inserted(image map[string]events.DynamoDBAttributeValue) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventName: "INSERT",
		Change:    events.DynamoDBStreamRecord{NewImage: image},
	}
}

// ============================================
// Image Tests
// ============================================

func TestFromImage(t *testing.T) {
	badData := cartClearedImage("event-123")
	badData["data"] = events.NewStringAttribute("not json")

	badTime := cartClearedImage("event-123")
	badTime["created_at"] = events.NewStringAttribute("yesterday")

	wrongType := cartClearedImage("event-123")
	wrongType["event_type"] = events.NewNumberAttribute("7")

	tests := []struct {
		name    string
		image   map[string]events.DynamoDBAttributeValue
		wantErr string
	}{
		{name: "valid event", image: cartClearedImage("event-123")},
		{name: "nil image", image: nil, wantErr: ErrEmptyImage.Error()},
		{
			name:    "missing required fields",
			image:   map[string]events.DynamoDBAttributeValue{"id": events.NewStringAttribute("event-123")},
			wantErr: "missing aggregate_id, event_type",
		},
		{name: "non-string attribute", image: wrongType, wantErr: "missing event_type"},
		{name: "invalid payload", image: badData, wantErr: "invalid data payload"},
		{name: "invalid timestamp", image: badTime, wantErr: "bad created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := fromImage(tt.image)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "event-123", e.ID)
			assert.Equal(t, "session-456", e.AggregateID)
			assert.Equal(t, "Cart", e.AggregateType)
			assert.Equal(t, "CartCleared", e.EventType)
			assert.Equal(t, 4, e.Version)
			assert.Equal(t, 2024, e.Timestamp.Year())

			var data struct {
				ItemCount int `json:"item_count"`
			}
			require.NoError(t, e.Decode(&data))
			assert.Equal(t, 2, data.ItemCount)
		})
	}
}

// ============================================
// Record Tests
// ============================================

func TestDecodeStreamRecord(t *testing.T) {
	e, ok, err := DecodeStreamRecord(inserted(cartClearedImage("event-123")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "event-123", e.ID)

	for _, name := range []string{"MODIFY", "REMOVE"} {
		t.Run(name, func(t *testing.T) {
			_, ok, err := DecodeStreamRecord(events.DynamoDBEventRecord{EventName: name})
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	e, ok, err := DecodeRecord(kinesisRecord(t, "1", inserted(cartClearedImage("event-123"))))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "event-123", e.ID)

	_, _, err = DecodeRecord(events.KinesisEventRecord{Kinesis: events.KinesisRecord{Data: []byte("{")}})
	assert.Error(t, err)
}

func TestDecode_Batch(t *testing.T) {
	batch := events.KinesisEvent{
		Records: []events.KinesisEventRecord{
			kinesisRecord(t, "100", inserted(cartClearedImage("event-1"))),
			kinesisRecord(t, "101", events.DynamoDBEventRecord{EventName: "MODIFY"}),
			{EventID: "shard-102", Kinesis: events.KinesisRecord{Data: []byte("invalid json"), SequenceNumber: "102"}},
			kinesisRecord(t, "103", inserted(cartClearedImage("event-2"))),
		},
	}

	records, failures := Decode(batch)

	require.Len(t, records, 2)
	assert.Equal(t, "100", records[0].SequenceNumber)
	assert.Equal(t, "event-1", records[0].Event.ID)
	assert.Equal(t, "103", records[1].SequenceNumber)

	require.Len(t, failures, 1)
	assert.Equal(t, "102", failures[0].SequenceNumber)
	assert.Contains(t, failures[0].Error(), "record shard-102")
}
