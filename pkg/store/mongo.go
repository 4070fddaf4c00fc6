package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parti-studio/parti/pkg/errors"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	// URI is the connection string, e.g. mongodb://localhost:27017.
	URI string

	// Database holds the designs collection. Defaults to "parti".
	Database string

	// Collection name. Defaults to "designs".
	Collection string
}

// MongoStore persists records in a MongoDB collection, keyed by design
// fingerprint.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "parti"
	}
	if cfg.Collection == "" {
		cfg.Collection = "designs"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a record by design fingerprint.
func (s *MongoStore) Get(ctx context.Context, fingerprint string) (*DesignRecord, error) {
	var rec DesignRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": fingerprint}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, NotFound(fingerprint)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load design %s", fingerprint)
	}
	return &rec, nil
}

// Put stores a record, replacing any previous version with the same
// fingerprint.
func (s *MongoStore) Put(ctx context.Context, rec *DesignRecord) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": rec.Fingerprint},
		rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store design %s", rec.Fingerprint)
	}
	return nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, fingerprint string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": fingerprint}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete design %s", fingerprint)
	}
	return nil
}

// List returns the most recent records, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*DesignRecord, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list designs")
	}
	defer cur.Close(ctx)

	var out []*DesignRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode designs")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
