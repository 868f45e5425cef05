package views

import (
	"context"
	"errors"

	"swcommons/internal/render"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// DetailState is the lifecycle of a detail view
type DetailState int

const (
	DetailLoading DetailState = iota
	DetailNotFound
	DetailFound
)

func (s DetailState) String() string {
	switch s {
	case DetailNotFound:
		return "not_found"
	case DetailFound:
		return "found"
	}
	return "loading"
}

// Texts of the detail view's fixed panels
const (
	NotFoundTitle   = "Archive Error 404"
	NotFoundMessage = "The requested document could not be located in the central repository."
	FileUnavailable = "Manuscript not available"
)

// Clipboard receives a copied link
type Clipboard interface {
	Copy(text string) error
}

// DetailView shows one research paper or reading
type DetailView struct {
	def     *schema.EntityDefinition
	backend Backend
	baseURL string
	id      string

	state  DetailState
	record models.Record
}

// NewDetailView prepares the view of record id. Only kinds with a detail
// route are accepted.
func NewDetailView(def *schema.EntityDefinition, backend Backend, baseURL, id string) (*DetailView, error) {
	if def.DetailPath == "" {
		return nil, &models.ValidationError{Collection: def.Collection, Reason: "has no detail view"}
	}
	if id == "" {
		return nil, &models.ValidationError{Collection: def.Collection, Field: "id", Reason: "is required"}
	}
	return &DetailView{def: def, backend: backend, baseURL: baseURL, id: id}, nil
}

// Load fetches the record. An absent id moves the view to DetailNotFound
// without an error; other failures leave it loading.
func (d *DetailView) Load(ctx context.Context) error {
	ref, err := models.NewRef(d.def.Collection, d.id)
	if err != nil {
		return &models.ValidationError{Collection: d.def.Collection, Reason: err.Error()}
	}
	rec, err := d.backend.Get(ctx, ref)
	var nf *models.NotFoundError
	switch {
	case errors.As(err, &nf):
		d.state, d.record = DetailNotFound, nil
		return nil
	case err != nil:
		return err
	}
	d.state, d.record = DetailFound, rec
	return nil
}

// State is the current lifecycle state
func (d *DetailView) State() DetailState {
	return d.state
}

// Record is the loaded record, nil unless found
func (d *DetailView) Record() models.Record {
	return d.record
}

// ReturnRoute is the list route linked from the not-found panel
func (d *DetailView) ReturnRoute() string {
	return d.def.Route
}

// DownloadURL returns the resolved file URL, if the record has one
func (d *DetailView) DownloadURL() (string, bool) {
	var url *string
	switch r := d.record.(type) {
	case *models.Research:
		url = r.FileURL
	case *models.Reading:
		url = r.FileURL
	}
	if url == nil || *url == "" {
		return "", false
	}
	return *url, true
}

// FileStatus is the download link or the unavailable placeholder
func (d *DetailView) FileStatus() string {
	if url, ok := d.DownloadURL(); ok {
		return url
	}
	return FileUnavailable
}

// CanonicalURL is the shareable address of this document
func (d *DetailView) CanonicalURL() string {
	return render.CanonicalURL(d.baseURL, d.def.DetailPath, d.id)
}

// Share copies the canonical URL. A nil clipboard only returns the link.
func (d *DetailView) Share(cb Clipboard) (string, error) {
	link := d.CanonicalURL()
	if cb == nil {
		return link, nil
	}
	if err := cb.Copy(link); err != nil {
		return link, &models.UnknownError{Op: "copy link", Err: err}
	}
	return link, nil
}
