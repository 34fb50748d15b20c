package relational

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
)

// Store implements repositories.Store on a relational database. Meetings keep
// their action items as a JSONB column while team membership is fully
// normalized. Subscriptions are emulated by interval polling since the
// database offers no change feed.
type Store struct {
	db           *gorm.DB
	logger       *zap.Logger
	pollInterval time.Duration
}

// Options tunes the polling subscriptions.
type Options struct {
	PollInterval time.Duration
}

// NewStore creates a relational Store on an open gorm handle.
func NewStore(db *gorm.DB, logger *zap.Logger, opts Options) *Store {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:           db,
		logger:       logger,
		pollInterval: opts.PollInterval,
	}
}

// Backend identifies this store as the relational engine.
func (s *Store) Backend() repositories.Backend {
	return repositories.BackendRelational
}

// Ping verifies connectivity on the underlying sql pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
