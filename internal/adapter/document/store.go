package document

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
)

// Store implements repositories.Store on a hierarchical document database.
// Every collection is scoped under one application id so multiple tenants
// can share a database. It is the default backend and the only one with
// native push subscriptions.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	appID        string
	logger       *zap.Logger
	debounce     time.Duration
	pollInterval time.Duration
}

// Options tunes subscription behavior.
type Options struct {
	// Debounce coalesces bursts of change events into one callback.
	Debounce time.Duration
	// PollInterval drives the degraded polling path used when a change
	// stream cannot be established.
	PollInterval time.Duration
}

// NewStore creates a document-backed Store scoped under appID.
func NewStore(client *mongo.Client, database, appID string, logger *zap.Logger, opts Options) *Store {
	if opts.Debounce <= 0 {
		opts.Debounce = 120 * time.Millisecond
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:       client,
		db:           client.Database(database),
		appID:        appID,
		logger:       logger,
		debounce:     opts.Debounce,
		pollInterval: opts.PollInterval,
	}
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(fmt.Sprintf("%s_%s", s.appID, name))
}

func (s *Store) meetings() *mongo.Collection      { return s.collection("meetings") }
func (s *Store) teamMeetings() *mongo.Collection  { return s.collection("team_meetings") }
func (s *Store) teams() *mongo.Collection         { return s.collection("teams") }
func (s *Store) tasks() *mongo.Collection         { return s.collection("tasks") }
func (s *Store) notifications() *mongo.Collection { return s.collection("notifications") }
func (s *Store) profiles() *mongo.Collection      { return s.collection("user_profiles") }

// Backend identifies this store as the document engine.
func (s *Store) Backend() repositories.Backend {
	return repositories.BackendDocument
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the database.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
