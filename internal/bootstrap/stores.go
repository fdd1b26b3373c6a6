// Package bootstrap opens the backends named by the configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/infrastructure/store"
	"go.uber.org/zap"
)

const redisSlotPrefix = "storefront:"

// Stores are the durable backends of a process
type Stores struct {
	Slots store.SlotStore

	// EventLog is nil when no event log is configured. PostgresLog is set
	// only for the postgres event log, which can also be read back.
	EventLog    event.Publisher
	PostgresLog *store.PostgresEventLog

	db       *sql.DB
	dbClosed bool
	dynamo   *dynamodb.Client
	logger   *zap.Logger
}

// OpenStores connects the slot store and the event log. Postgres and
// DynamoDB connections are shared between the two.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stores{logger: logger}

	slots, err := s.openSlots(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Slots = slots

	if err := s.openEventLog(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stores) openSlots(ctx context.Context, cfg *config.Config) (store.SlotStore, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		slots, err := store.NewSQLiteSlotStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.logger.Info("cart slots in SQLite", zap.String("path", cfg.Store.SQLitePath))
		return slots, nil

	case config.BackendPostgres:
		db, err := s.postgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		slots := store.NewPostgresSlotStore(db)
		if err := slots.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		// closing the slot store closes the shared connection
		s.dbClosed = true
		s.logger.Info("cart slots in PostgreSQL")
		return slots, nil

	case config.BackendRedis:
		client, err := store.ConnectRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			return nil, err
		}
		s.logger.Info("cart slots in Redis", zap.String("addr", cfg.Store.RedisAddr), zap.Duration("ttl", cfg.GetRedisTTL()))
		return store.NewRedisSlotStore(client, redisSlotPrefix, cfg.GetRedisTTL()), nil

	case config.BackendDynamoDB:
		client, err := s.dynamoClient(ctx)
		if err != nil {
			return nil, err
		}
		s.logger.Info("cart slots in DynamoDB", zap.String("table", cfg.Store.DynamoTable))
		return store.NewDynamoSlotStore(client, cfg.Store.DynamoTable), nil

	case config.BackendMemory, "":
		s.logger.Info("cart slots in memory")
		return store.NewMemorySlotStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func (s *Stores) openEventLog(ctx context.Context, cfg *config.Config) error {
	switch cfg.Events.LogBackend {
	case "":
		return nil

	case config.BackendPostgres:
		db, err := s.postgres(ctx, cfg)
		if err != nil {
			return err
		}
		log := store.NewPostgresEventLog(db)
		if err := log.EnsureSchema(ctx); err != nil {
			return err
		}
		s.EventLog = log
		s.PostgresLog = log
		s.logger.Info("event log in PostgreSQL")
		return nil

	case config.BackendDynamoDB:
		client, err := s.dynamoClient(ctx)
		if err != nil {
			return err
		}
		s.EventLog = store.NewDynamoEventLog(client, cfg.Events.DynamoTable)
		s.logger.Info("event log in DynamoDB", zap.String("table", cfg.Events.DynamoTable))
		return nil

	default:
		return fmt.Errorf("unknown event log: %s", cfg.Events.LogBackend)
	}
}

func (s *Stores) postgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := store.ConnectPostgres(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.db = db
	return db, nil
}

func (s *Stores) dynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	if s.dynamo != nil {
		return s.dynamo, nil
	}
	client, err := store.NewDynamoClient(ctx)
	if err != nil {
		return nil, err
	}
	s.dynamo = client
	return client, nil
}

// Close releases every connection
func (s *Stores) Close() error {
	var errs []error
	if s.Slots != nil {
		errs = append(errs, s.Slots.Close())
	}
	if s.db != nil && !s.dbClosed {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
