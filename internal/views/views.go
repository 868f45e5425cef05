// Package views is the client engine behind every browse screen: one
// schema-driven list/filter view, the inline edit controller, the composite
// submission form, the detail view for file-bearing records and the
// admin-mode capability that gates mutations.
package views

import (
	"context"
	"errors"
	"io"

	"swcommons/internal/records"
	"swcommons/pkg/models"
)

// ErrAdminMode is returned when a mutation is attempted with admin mode off
var ErrAdminMode = errors.New("admin mode is off")

// Backend is the data-access contract the views run against. It is
// satisfied in-process by *records.Service and remotely by *client.Client.
type Backend interface {
	List(ctx context.Context, c models.Collection, opts records.ListOptions) ([]models.Record, error)
	Get(ctx context.Context, ref models.Ref) (models.Record, error)
	Create(ctx context.Context, rec models.Record) (models.Ref, error)
	Update(ctx context.Context, rec models.Record) error
	Delete(ctx context.Context, ref models.Ref) error
}

// FileStore performs the two-step upload: request a destination, then
// transfer bytes to it.
type FileStore interface {
	GenerateUploadURL(ctx context.Context) (models.UploadDestination, error)
	Transfer(ctx context.Context, dest models.UploadDestination, contentType string, body io.Reader) (string, error)
}

// Capability reports whether mutation affordances are available
type Capability interface {
	Enabled() bool
}

// Static is a fixed capability
type Static bool

// Enabled implements Capability
func (s Static) Enabled() bool { return bool(s) }
