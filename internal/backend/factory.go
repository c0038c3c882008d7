package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finanze/internal/amqp"
	"finanze/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		repo storage.Repository
		err  error
	)
	switch config.Type {
	case JSONBackend:
		repo = storage.NewFileRepository(config.DataFile)
		f.logger.DebugContext(ctx, "Initialized JSON backend", "path", config.DataFile)
	case SQLiteBackend:
		repo, err = f.createSQLiteRepository(ctx, config)
	case MemoryBackend:
		repo = f.createMemoryRepository(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	return &BackendResult{
		Repository: repo,
		Notifier:   f.createNotifier(ctx, config),
	}, nil
}

func (f *DefaultFactory) createSQLiteRepository(ctx context.Context, config Config) (storage.Repository, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.DebugContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"schema_version", sqliteRepo.SchemaVersion())
	return sqliteRepo, nil
}

func (f *DefaultFactory) createMemoryRepository(ctx context.Context, config Config) storage.Repository {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	f.logger.DebugContext(ctx, "Initialized memory backend", "data_directory", dataDir)
	return storage.NewMemoryRepositoryFromFiles(dataDir)
}

// createNotifier connects to the broker when one is configured. An
// unreachable broker disables notifications instead of failing startup.
func (f *DefaultFactory) createNotifier(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications", "error", err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
