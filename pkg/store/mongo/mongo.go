// Package mongo stores walls in MongoDB, one document per wall.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/wall"
)

// Defaults for database and collection names.
const (
	DefaultDatabase   = "myseum"
	DefaultCollection = "walls"
)

// Store is a MongoDB-backed [store.Store].
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri, checks the server is reachable and ensures the
// owner index exists. An empty database selects DefaultDatabase.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, wrap(err, "ping mongo")
	}

	s := New(client, client.Database(database).Collection(DefaultCollection))
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, wrap(err, "create owner index")
	}
	return s, nil
}

// New creates a store on an existing collection.
func New(client *mongo.Client, coll *mongo.Collection) *Store {
	return &Store{client: client, coll: coll}
}

func (s *Store) Get(ctx context.Context, id string) (*wall.Wall, error) {
	var w wall.Wall
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.NotFound(id)
	}
	if err != nil {
		return nil, wrap(err, "get wall")
	}
	if w.Items == nil {
		w.Items = []wall.Item{}
	}
	return &w, nil
}

// Save replaces the wall document, inserting it if absent.
func (s *Store) Save(ctx context.Context, w *wall.Wall) error {
	if err := store.CheckSave(w); err != nil {
		return err
	}
	next := w.Clone()
	next.Touch()
	// BSON dates carry millisecond precision.
	next.UpdatedAt = next.UpdatedAt.Truncate(time.Millisecond)
	next.CreatedAt = next.CreatedAt.Truncate(time.Millisecond)

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": next.ID}, next, options.Replace().SetUpsert(true))
	if err != nil {
		return wrap(err, "save wall %s", w.ID)
	}
	w.Version = next.Version
	w.CreatedAt = next.CreatedAt
	w.UpdatedAt = next.UpdatedAt
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete wall")
	}
	if res.DeletedCount == 0 {
		return store.NotFound(id)
	}
	return nil
}

// List projects summaries server-side so item arrays are never transferred.
func (s *Store) List(ctx context.Context, ownerID string) ([]wall.Summary, error) {
	match := bson.M{}
	if ownerID != "" {
		match["owner_id"] = ownerID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"owner_id":   1,
			"name":       1,
			"public":     1,
			"width":      1,
			"height":     1,
			"updated_at": 1,
			"item_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$items", bson.A{}}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(err, "list walls")
	}
	out := []wall.Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap(err, "decode walls")
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// wrap converts a driver error to a storage error. Network errors and
// timeouts are marked retryable.
func wrap(err error, format string, args ...any) error {
	e := apperrors.Wrap(apperrors.ErrCodeStorage, err, format, args...)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return store.Retryable(e)
	}
	return e
}

var _ store.Store = (*Store)(nil)
