// Package store persists generated design versions for the serving
// layer.
//
// This package defines the record type and storage interface, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for shared deployments
//
// # Architecture
//
// A DesignRecord freezes one accepted design version: the input
// specification, the derived building model, and the program lock used
// by compliance gates. Records are keyed by design fingerprint and are
// immutable once written - a design change produces a new fingerprint
// and therefore a new record.
//
// The geometry core never imports this package; only the API serving
// layer reads and writes records.
//
// # Usage
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Shared deployments
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "parti",
//	})
//
//	rec := store.NewRecord(spec, model)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"time"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/spec"
)

// DesignRecord is one frozen design version.
type DesignRecord struct {
	Fingerprint string                    `json:"fingerprint" bson:"_id"`
	Spec        *spec.DesignSpecification `json:"spec" bson:"spec"`
	Model       *model.BuildingModel      `json:"model" bson:"model"`
	Lock        model.ProgramLock         `json:"lock" bson:"lock"`
	Seed        int64                     `json:"seed" bson:"seed"`
	CreatedAt   time.Time                 `json:"created_at" bson:"created_at"`
}

// NewRecord freezes a generated model and its specification into a
// record keyed by the model's fingerprint.
func NewRecord(s *spec.DesignSpecification, m *model.BuildingModel) *DesignRecord {
	return &DesignRecord{
		Fingerprint: m.Fingerprint,
		Spec:        s,
		Model:       m,
		Lock:        m.Lock(),
		Seed:        m.Seed,
		CreatedAt:   time.Now().UTC(),
	}
}

// Store is the interface for design version storage backends.
type Store interface {
	// Get retrieves a record by design fingerprint.
	Get(ctx context.Context, fingerprint string) (*DesignRecord, error)

	// Put stores a record. Writing an existing fingerprint replaces
	// the record; identical content makes that a no-op in practice.
	Put(ctx context.Context, rec *DesignRecord) error

	// Delete removes a record.
	Delete(ctx context.Context, fingerprint string) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]*DesignRecord, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NotFound builds the standard missing-design error.
func NotFound(fingerprint string) error {
	return errors.New(errors.ErrCodeDesignNotFound, "design %s not found", fingerprint)
}
