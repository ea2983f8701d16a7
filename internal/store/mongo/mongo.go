// Package mongo implements store.Store on a MongoDB collection.
//
// Each document is one record keyed by the store key:
//
//	{ "_id": "users", "value": "<JSON text>", "updatedAt": ISODate(...) }
//
// The value is kept as JSON text, not BSON, so every backend stores the
// same bytes and a dump from one can be loaded into another.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/campus-connect/internal/store"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultCollection = "kv_entries"
)

var _ store.Store = (*Store)(nil)

// Config selects the server, database and collection.
type Config struct {
	URI        string
	Database   string
	Collection string // defaults to kv_entries
	Timeout    time.Duration
}

type entry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Store keeps documents in one collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to cfg.URI and pings the primary within cfg.Timeout
// (10s when zero). The collection is created lazily by the first save.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var e entry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("mongo: loading %s: %w", key, err)
	}
	return []byte(e.Value), true, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	e := entry{Key: key, Value: string(data), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: saving %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo: clearing %s: %w", key, err)
	}
	return nil
}

// Drop removes the whole collection. Tests use it to clean up.
func (s *Store) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
