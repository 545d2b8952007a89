package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "fontastic"
	DefaultMongoCollection = "sessions"
)

// MongoStore keeps one document per session, keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI        string
	Database   string // default "fontastic"
	Collection string // default "sessions"
}

// NewMongoStore connects to MongoDB, verifies the connection, and ensures
// a TTL index on expires_at so the server removes stale sessions. Sessions
// with a zero expiry are excluded from the index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := newMongoStore(client, cfg)
	s.owned = true
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient wraps a connected client. Close leaves it
// connected.
func NewMongoStoreFromClient(client *mongo.Client, cfg MongoConfig) *MongoStore {
	return newMongoStore(client, cfg)
}

func newMongoStore(client *mongo.Client, cfg MongoConfig) *MongoStore {
	db := cfg.Database
	if db == "" {
		db = DefaultMongoDatabase
	}
	coll := cfg.Collection
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}
}

// expiryIndex is the TTL index on expires_at. Documents with a zero
// expiry fall outside its partial filter and are never removed.
func expiryIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().
			SetName("expires_at_ttl").
			SetExpireAfterSeconds(0).
			SetPartialFilterExpression(bson.M{"expires_at": bson.M{"$gt": time.Time{}}}),
	}
}

// expiredFilter matches sessions with an expiry before now.
func expiredFilter(now time.Time) bson.M {
	return bson.M{"expires_at": bson.M{"$gt": time.Time{}, "$lt": now}}
}

func byID(sessionID string) bson.M {
	return bson.M{"_id": sessionID}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, expiryIndex())
	if err != nil {
		return fmt.Errorf("create session index: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	err := s.coll.FindOne(ctx, byID(sessionID)).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *MongoStore) Set(ctx context.Context, sess *Session) error {
	_, err := s.coll.ReplaceOne(ctx, byID(sess.ID), sess, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.coll.DeleteOne(ctx, byID(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup deletes expired sessions right away instead of waiting for the
// TTL monitor, which runs about once a minute.
func (s *MongoStore) Cleanup(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, expiredFilter(time.Now())); err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
