package views

import (
	"context"
	"errors"

	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// NoMatches is shown in place of an empty filtered list
const NoMatches = "No matching records found."

// ListView is the browse screen of one collection: the fetched records,
// the operator's search and category filters, and the edit controller for
// that screen.
type ListView struct {
	def     *schema.EntityDefinition
	lens    lens
	backend Backend
	admin   Capability
	editor  *Editor
	logger  logging.Logger

	all      []models.Record
	docs     []models.Document
	search   string
	category string
}

// NewListView builds the view for def. admin gates every mutation.
func NewListView(def *schema.EntityDefinition, backend Backend, admin Capability) *ListView {
	if admin == nil {
		admin = Static(false)
	}
	return &ListView{
		def:     def,
		lens:    lensFor(def.Collection),
		backend: backend,
		admin:   admin,
		editor:  NewEditor(def, backend),
		logger:  logging.GetGlobalLogger(),
	}
}

// Definition is the schema of the listed collection
func (v *ListView) Definition() *schema.EntityDefinition {
	return v.def
}

// Editor is the screen's inline edit controller
func (v *ListView) Editor() *Editor {
	return v.editor
}

// ListOptions are the query parameters for fetching or subscribing
func (v *ListView) ListOptions() records.ListOptions {
	if v.lens.serverCategory {
		return records.ListOptions{Category: v.category}
	}
	return records.ListOptions{}
}

// Load fetches the collection
func (v *ListView) Load(ctx context.Context) error {
	recs, err := v.backend.List(ctx, v.def.Collection, v.ListOptions())
	if err != nil {
		return err
	}
	return v.Replace(recs)
}

// Replace installs a full snapshot, typically pushed by a live subscription
func (v *ListView) Replace(recs []models.Record) error {
	docs := make([]models.Document, len(recs))
	for i, rec := range recs {
		doc, err := models.ToDocument(rec)
		if err != nil {
			return &models.UnknownError{Op: "index " + string(v.def.Collection), Err: err}
		}
		docs[i] = doc
	}
	v.all, v.docs = recs, docs
	return nil
}

// Searchable reports whether the screen offers a free-text filter
func (v *ListView) Searchable() bool {
	return len(v.lens.search) > 0
}

// SetSearch sets the case-insensitive substring filter; "" shows everything
func (v *ListView) SetSearch(s string) {
	v.search = s
}

// CategoryField names the field of the equality filter, or ""
func (v *ListView) CategoryField() string {
	return v.lens.category
}

// SetCategory sets the equality filter; "" clears it. For collections
// filtered by the query the caller reloads or resubscribes afterwards.
func (v *ListView) SetCategory(c string) error {
	if c != "" && v.lens.category == "" {
		return &models.ValidationError{Collection: v.def.Collection, Field: "category", Reason: "is not filterable on this screen"}
	}
	v.category = c
	return nil
}

// CategoryOptions are the distinct values of the category field present
// in the fetched records, so the choices follow the data
func (v *ListView) CategoryOptions() []string {
	if v.lens.category == "" {
		return nil
	}
	opts := distinct(v.docs, v.lens.category)
	if v.lens.serverCategory {
		// a filtered query only returns the selected category
		if f, ok := v.def.Field(v.lens.category); ok {
			opts = union(f.Options, opts)
		}
	}
	return opts
}

// Visible returns the fetched records passing both filters, in fetched order
func (v *ListView) Visible() []models.Record {
	out := make([]models.Record, 0, len(v.all))
	for i, rec := range v.all {
		doc := v.docs[i]
		if !v.lens.matches(doc, v.search) {
			continue
		}
		if v.category != "" && v.lens.category != "" && doc[v.lens.category] != v.category {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Placeholder is the empty-state text, or "" when records are visible
func (v *ListView) Placeholder() string {
	if len(v.Visible()) == 0 {
		return NoMatches
	}
	return ""
}

// CanMutate reports whether edit and delete controls are shown
func (v *ListView) CanMutate() bool {
	return v.admin.Enabled()
}

// Find returns the fetched record with id
func (v *ListView) Find(id string) (models.Record, bool) {
	for _, rec := range v.all {
		if rec.Ref().String() == id {
			return rec, true
		}
	}
	return nil, false
}

// Edit opens the edit controller on rec
func (v *ListView) Edit(rec models.Record) error {
	if !v.CanMutate() {
		return ErrAdminMode
	}
	return v.editor.Begin(rec)
}

// Save commits the open draft. A record deleted meanwhile triggers a reload
// so the stale row disappears.
func (v *ListView) Save(ctx context.Context) error {
	if !v.CanMutate() {
		return ErrAdminMode
	}
	err := v.editor.Save(ctx)
	if err != nil {
		v.reconcile(ctx, "update", err)
		return err
	}
	return v.Load(ctx)
}

// Delete removes ref after confirm approves; a nil confirm never approves.
// It reports whether the delete was carried out.
func (v *ListView) Delete(ctx context.Context, ref models.Ref, confirm func() bool) (bool, error) {
	if !v.CanMutate() {
		return false, ErrAdminMode
	}
	if confirm == nil || !confirm() {
		return false, nil
	}
	if err := v.backend.Delete(ctx, ref); err != nil {
		v.reconcile(ctx, "delete", err)
		return false, err
	}
	if v.editor.Editing() && v.editor.Target().String() == ref.String() {
		v.editor.Cancel()
	}
	return true, v.Load(ctx)
}

func (v *ListView) reconcile(ctx context.Context, op string, err error) {
	var nf *models.NotFoundError
	if !errors.As(err, &nf) {
		return
	}
	if loadErr := v.Load(ctx); loadErr != nil {
		v.logger.Warn("Failed to refresh list after stale "+op, map[string]interface{}{
			"collection": string(v.def.Collection),
			"error":      loadErr.Error(),
		})
	}
}

func union(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
