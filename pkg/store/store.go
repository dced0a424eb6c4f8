package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. The chapter collection is keyed by link rather than
// by document id, see EnsureIndexes.
const (
	colBook        = "book"
	colChapterList = "bookchapters"
	colChapter     = "chapter"
	colRuns        = "runs"
)

type Config struct {
	URI      string
	Database string
}

// Store wraps one MongoDB database connection shared by all components.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("store: connect %s: %w", cfg.URI, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: ping %s: %w", cfg.URI, err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// MustOpen is Open with a fatal exit on failure, for use in main.
func MustOpen(ctx context.Context, cfg Config) *Store {
	s, err := Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	return s
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Database exposes the underlying handle for read-side components.
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the unique link index the chapter existence
// checks rely on. Safe to call on every startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(colChapter).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "link", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("store: ensure chapter link index: %w", err)
	}
	return nil
}
