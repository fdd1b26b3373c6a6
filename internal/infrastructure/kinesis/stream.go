// Package kinesis reads events written by the DynamoDB event log back out
// of the table's Kinesis stream.
package kinesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/example/storefront/internal/event"
)

const insert = "INSERT"

var ErrEmptyImage = errors.New("stream record has no new image")

// Record is one event read from a batch
type Record struct {
	SequenceNumber string
	Event          event.Event
}

// Failure is a batch record that could not be read. SequenceNumber is what
// Lambda expects back in the batch item failures.
type Failure struct {
	SequenceNumber string
	RecordID       string
	Err            error
}

func (f Failure) Error() string {
	return fmt.Sprintf("record %s: %v", f.RecordID, f.Err)
}

// Decode reads every record of a batch. Records that are not inserts into
// the event table are skipped; those that fail to decode are returned as
// failures.
func Decode(batch events.KinesisEvent) ([]Record, []Failure) {
	var records []Record
	var failures []Failure

	for _, r := range batch.Records {
		e, ok, err := DecodeRecord(r)
		if err != nil {
			failures = append(failures, Failure{
				SequenceNumber: r.Kinesis.SequenceNumber,
				RecordID:       r.EventID,
				Err:            err,
			})
			continue
		}
		if ok {
			records = append(records, Record{SequenceNumber: r.Kinesis.SequenceNumber, Event: e})
		}
	}
	return records, failures
}

// DecodeRecord unwraps the DynamoDB stream record carried by a Kinesis
// record. ok is false for modifications and removals.
func DecodeRecord(r events.KinesisEventRecord) (e event.Event, ok bool, err error) {
	var change events.DynamoDBEventRecord
	if err := json.Unmarshal(r.Kinesis.Data, &change); err != nil {
		return event.Event{}, false, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return DecodeStreamRecord(change)
}

// DecodeStreamRecord reads a record delivered by a DynamoDB stream trigger
func DecodeStreamRecord(r events.DynamoDBEventRecord) (e event.Event, ok bool, err error) {
	if r.EventName != insert {
		return event.Event{}, false, nil
	}
	e, err = fromImage(r.Change.NewImage)
	if err != nil {
		return event.Event{}, false, err
	}
	return e, true, nil
}

func fromImage(image map[string]events.DynamoDBAttributeValue) (event.Event, error) {
	if len(image) == 0 {
		return event.Event{}, ErrEmptyImage
	}

	str := func(name string) string {
		if v, ok := image[name]; ok && v.DataType() == events.DataTypeString {
			return v.String()
		}
		return ""
	}

	e := event.Event{
		ID:            str("id"),
		AggregateID:   str("aggregate_id"),
		AggregateType: str("aggregate_type"),
		EventType:     str("event_type"),
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"id", e.ID},
		{"aggregate_id", e.AggregateID},
		{"event_type", e.EventType},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return event.Event{}, fmt.Errorf("event image is missing %s", strings.Join(missing, ", "))
	}

	if data := str("data"); data != "" {
		if !json.Valid([]byte(data)) {
			return event.Event{}, fmt.Errorf("event %s has invalid data payload", e.ID)
		}
		e.Data = json.RawMessage(data)
	}

	if ts := str("created_at"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return event.Event{}, fmt.Errorf("event %s: bad created_at: %w", e.ID, err)
		}
		e.Timestamp = t
	}

	if v, ok := image["version"]; ok && v.DataType() == events.DataTypeNumber {
		n, err := v.Integer()
		if err != nil {
			return event.Event{}, fmt.Errorf("event %s: bad version: %w", e.ID, err)
		}
		e.Version = int(n)
	}
	return e, nil
}
