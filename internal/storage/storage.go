// Package storage is the object storage collaborator: it hands out
// single-use upload destinations and resolves stored objects to URLs.
package storage

import (
	"context"
	"errors"

	"swcommons/pkg/models"
)

var (
	// ErrObjectNotFound is returned when a storage id does not resolve
	ErrObjectNotFound = errors.New("stored object not found")
	// ErrObjectTooLarge is returned when an upload exceeds the configured limit
	ErrObjectTooLarge = errors.New("object exceeds upload limit")
)

// ObjectStorage is implemented by the local and Spaces backends
type ObjectStorage interface {
	// GenerateUploadURL returns a short-lived destination for one direct transfer
	GenerateUploadURL(ctx context.Context) (models.UploadDestination, error)
	// ResolveURL converts a storage id into a fetchable, possibly temporary URL
	ResolveURL(ctx context.Context, storageID string) (string, error)
	// Put stores server-generated content and returns its storage id
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Health(ctx context.Context) error
}
