package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/kinesis"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/notification"
	"go.uber.org/zap"
)

var (
	notificationHandler *notification.Handler
	logger              *zap.Logger
)

func init() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err = logging.New(cfg.Logging.Level, false)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	emailSvc := email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	notificationHandler = notification.NewHandler(notification.LogSink{Logger: logger}, emailSvc, logger)

	logger.Info("lambda notifier initialized", zap.String("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port))
}

func handler(ctx context.Context, batch events.KinesisEvent) (events.KinesisEventResponse, error) {
	records, failures := kinesis.Decode(batch)
	for _, f := range failures {
		logger.Error("failed to decode record", zap.String("record_id", f.RecordID), zap.Error(f.Err))
	}

	for _, r := range records {
		if err := notificationHandler.Handle(ctx, r.Event); err != nil {
			logger.Error("failed to process event",
				zap.String("event_id", r.Event.ID),
				zap.String("event_type", r.Event.EventType),
				zap.Error(err),
			)
			failures = append(failures, kinesis.Failure{SequenceNumber: r.SequenceNumber, RecordID: r.Event.ID, Err: err})
		}
	}

	response := events.KinesisEventResponse{}
	for _, f := range failures {
		response.BatchItemFailures = append(response.BatchItemFailures, events.KinesisBatchItemFailure{
			ItemIdentifier: f.SequenceNumber,
		})
	}

	logger.Info("processed batch",
		zap.Int("records", len(batch.Records)),
		zap.Int("events", len(records)),
		zap.Int("failed", len(failures)),
	)
	return response, nil
}

func main() {
	lambda.Start(handler)
}
