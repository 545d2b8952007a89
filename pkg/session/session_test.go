package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/fontastic/pkg/design"
)

// storeContract runs the behaviour every backend shares.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		sess, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("round trip", func(t *testing.T) {
		sess := NewWithID("abc", time.Hour)
		sess.Design.SetText("My Logo")
		sess.Design.SetSpacing(2.5)
		sess.Design.SetSuggestion(design.Suggestion{SuggestedSpacing: 3.14159, LayoutSuggestions: "Wider."})
		require.NoError(t, store.Set(ctx, sess))

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "My Logo", got.Design.Text)
		assert.Equal(t, 2.5, got.Design.Spacing)
		require.NotNil(t, got.Design.Suggestion)
		assert.Equal(t, 3.14159, got.Design.Suggestion.SuggestedSpacing)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, NewWithID("gone", time.Hour)))
		require.NoError(t, store.Delete(ctx, "gone"))
		got, err := store.Get(ctx, "gone")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, store.Delete(ctx, "gone"))
	})

	t.Run("expired", func(t *testing.T) {
		sess := NewWithID("old", time.Hour)
		sess.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Set(ctx, sess))
		got, err := store.Get(ctx, "old")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, store.Cleanup(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sess := NewWithID("a", 0)
	sess.Design.SetSuggestion(design.Suggestion{SuggestedSpacing: 1})
	require.NoError(t, store.Set(ctx, sess))

	sess.Design.Suggestion.SuggestedSpacing = 9
	got, _ := store.Get(ctx, "a")
	assert.Equal(t, 1.0, got.Design.Suggestion.SuggestedSpacing)
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	old := NewWithID("old", time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Set(ctx, old))
	require.NoError(t, store.Set(ctx, NewWithID("new", time.Hour)))

	require.NoError(t, store.Cleanup(ctx))
	assert.Equal(t, 1, store.Len())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, store)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "../escape")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), NewWithID("a/b", 0)))
}

func TestFileStoreCleanupRemovesFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	old := NewWithID("old", time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Set(ctx, old))
	require.NoError(t, store.Cleanup(ctx))

	_, err = os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(ctx, mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, NewWithID("a", time.Minute)))
	assert.True(t, mr.Exists(keyPrefix+"a"))
	assert.Greater(t, mr.TTL(keyPrefix+"a"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FONTASTIC_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FONTASTIC_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	store, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "fontastic_test"})
	require.NoError(t, err)
	defer func() {
		_ = store.coll.Drop(ctx)
		store.Close()
	}()

	storeContract(t, store)
}

func TestMongoDocument(t *testing.T) {
	sess := NewWithID("abc", time.Hour)
	sess.Design.SetText("My Logo")
	sess.Design.SetSuggestion(design.Suggestion{SuggestedSpacing: 2.5, LayoutSuggestions: "Wider."})
	// BSON datetimes carry millisecond precision.
	sess.CreatedAt = sess.CreatedAt.Truncate(time.Millisecond).UTC()
	sess.UpdatedAt = sess.UpdatedAt.Truncate(time.Millisecond).UTC()
	sess.ExpiresAt = sess.ExpiresAt.Truncate(time.Millisecond).UTC()

	raw, err := bson.Marshal(sess)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "abc", doc["_id"])
	assert.Contains(t, doc, "expires_at")
	inner, ok := doc["design"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "My Logo", inner["text"])
	assert.Contains(t, inner, "suggestion")

	var got Session
	require.NoError(t, bson.Unmarshal(raw, &got))
	got.CreatedAt = got.CreatedAt.UTC()
	got.UpdatedAt = got.UpdatedAt.UTC()
	got.ExpiresAt = got.ExpiresAt.UTC()
	assert.Equal(t, *sess, got)
}

func TestMongoDocumentOmitsEmptySuggestion(t *testing.T) {
	raw, err := bson.Marshal(NewWithID("abc", 0))
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	inner, ok := doc["design"].(bson.M)
	require.True(t, ok)
	assert.NotContains(t, inner, "suggestion")
}

func TestMongoExpiryIndex(t *testing.T) {
	idx := expiryIndex()
	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
	assert.Equal(t,
		bson.M{"expires_at": bson.M{"$gt": time.Time{}}},
		idx.Options.PartialFilterExpression)
}

func TestMongoExpiredFilter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		bson.M{"expires_at": bson.M{"$gt": time.Time{}, "$lt": now}},
		expiredFilter(now))
	assert.Equal(t, bson.M{"_id": "abc"}, byID("abc"))
}

func TestMongoStoreDefaults(t *testing.T) {
	ctx := context.Background()
	// Connect is lazy; nothing is dialled until an operation runs.
	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(ctx) }()

	store := NewMongoStoreFromClient(client, MongoConfig{})
	assert.Equal(t, DefaultMongoDatabase, store.coll.Database().Name())
	assert.Equal(t, DefaultMongoCollection, store.coll.Name())
	assert.False(t, store.owned)

	custom := NewMongoStoreFromClient(client, MongoConfig{Database: "db", Collection: "c"})
	assert.Equal(t, "db", custom.coll.Database().Name())
	assert.Equal(t, "c", custom.coll.Name())
}

func TestLoadAndSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := Load(ctx, store, DefaultID, DefaultTTL)
	require.NoError(t, err)
	assert.Equal(t, DefaultID, sess.ID)
	assert.Equal(t, design.New(), sess.Design)
	assert.Equal(t, 0, store.Len(), "Load must not save")

	sess.Design.SetFontSize(100)
	before := sess.UpdatedAt
	time.Sleep(time.Millisecond)
	require.NoError(t, Save(ctx, store, sess, DefaultTTL))
	assert.True(t, sess.UpdatedAt.After(before))

	again, err := Load(ctx, store, DefaultID, DefaultTTL)
	require.NoError(t, err)
	assert.Equal(t, 100, again.Design.FontSize)
}

func TestNewGeneratesDistinctIDs(t *testing.T) {
	a, b := New(DefaultTTL), New(DefaultTTL)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.IsExpired())
	assert.False(t, NewWithID("x", 0).IsExpired())
}
