package facade

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/document"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/relational"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/database"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

// Selector decides which backend serves the process and memoizes the
// answer: the choice is made once, every later call returns the same store.
// The relational backend is used only when it is both enabled and fully
// configured; anything less falls back to the document backend rather than
// failing startup.
type Selector struct {
	cfg    *config.Config
	logger *zap.Logger

	once  sync.Once
	store repositories.Store
	err   error
}

// NewSelector creates an unresolved Selector.
func NewSelector(cfg *config.Config, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{cfg: cfg, logger: logger}
}

// Resolve returns the facade-wrapped store for this process, building it on
// first call.
func (s *Selector) Resolve(ctx context.Context) (repositories.Store, error) {
	s.once.Do(func() {
		raw, err := s.build(ctx)
		if err != nil {
			s.err = err
			return
		}
		s.store = New(raw, s.cfg, s.logger)
	})
	return s.store, s.err
}

func (s *Selector) build(ctx context.Context) (repositories.Store, error) {
	if s.cfg.Backend.UseRelational {
		if !s.cfg.HasRelationalDSN() {
			s.logger.Warn("relational backend requested but no dsn configured, using document backend")
		} else {
			store, err := s.buildRelational()
			if err == nil {
				s.logger.Info("using relational backend")
				return store, nil
			}
			s.logger.Warn("relational backend unavailable, falling back to document backend", zap.Error(err))
		}
	}

	store, err := s.buildDocument(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("using document backend")
	return store, nil
}

// Stores holds one unwrapped instance of each backend, for migration and
// comparison tooling that needs to read both sides.
type Stores struct {
	Document   repositories.Store
	Relational repositories.Store
}

// Services builds both backends without the facade wrapper. The document
// backend is required; when the relational backend cannot be constructed
// the failure is logged and Relational is left nil.
func (s *Selector) Services(ctx context.Context) (*Stores, error) {
	doc, err := s.buildDocument(ctx)
	if err != nil {
		return nil, err
	}
	stores := &Stores{Document: doc}
	if s.cfg.HasRelationalDSN() {
		rel, err := s.buildRelational()
		if err != nil {
			s.logger.Warn("relational backend unavailable for tooling", zap.Error(err))
		} else {
			stores.Relational = rel
		}
	}
	return stores, nil
}

func (s *Selector) buildRelational() (repositories.Store, error) {
	db, err := database.NewPostgresDB(s.cfg)
	if err != nil {
		return nil, err
	}
	if s.cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			database.CloseDB(db)
			return nil, err
		}
	}
	return relational.NewStore(db, s.logger, relational.Options{
		PollInterval: s.cfg.Notify.PollInterval,
	}), nil
}

func (s *Selector) buildDocument(ctx context.Context) (repositories.Store, error) {
	client, err := database.NewMongoClient(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	return document.NewStore(client, s.cfg.Mongo.Database, s.cfg.Mongo.AppID, s.logger, document.Options{
		Debounce:     s.cfg.Notify.Debounce,
		PollInterval: s.cfg.Notify.PollInterval,
	}), nil
}
