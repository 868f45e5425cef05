// Package store is the persistence gateway: single-collection, single-record
// operations over schemaless documents.
package store

import (
	"context"
	"encoding/json"
	"time"

	"swcommons/pkg/models"
)

// Order selects the iteration order of QueryAll
type Order int

const (
	// OrderInsertion lists oldest first
	OrderInsertion Order = iota
	// OrderNewestFirst lists most recently inserted first
	OrderNewestFirst
)

// DefaultOrder is the list order used for c by the query layer
func DefaultOrder(c models.Collection) Order {
	if c.NewestFirst() {
		return OrderNewestFirst
	}
	return OrderInsertion
}

// Stored is a persisted document with its store-assigned metadata
type Stored struct {
	ID        string
	Seq       int64
	CreatedAt time.Time
	Fields    models.Document
}

// Gateway is implemented by every persistence backend.
// Identifiers are unique within a collection only.
type Gateway interface {
	Insert(ctx context.Context, c models.Collection, doc models.Document) (string, error)
	// Patch sets the given fields; a nil value removes the field
	Patch(ctx context.Context, c models.Collection, id string, fields models.Document) error
	Delete(ctx context.Context, c models.Collection, id string) error
	QueryAll(ctx context.Context, c models.Collection, order Order) ([]Stored, error)
	// GetByID returns found=false when the id is absent
	GetByID(ctx context.Context, c models.Collection, id string) (Stored, bool, error)
	Ping(ctx context.Context) error
	Close() error
}

func notFound(c models.Collection, id string) error {
	return &models.NotFoundError{Collection: c, ID: id}
}

// copyDocument deep-copies a document through JSON so callers never share
// nested lists with the store.
func copyDocument(doc models.Document) (models.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out models.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = models.Document{}
	}
	return out, nil
}

// applyPatch returns base with fields applied
func applyPatch(base, fields models.Document) models.Document {
	out := make(models.Document, len(base)+len(fields))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range fields {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
