package views

import (
	"context"
	"fmt"

	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// Editor is the inline edit controller. It is Viewing until Begin selects a
// record, then Editing with a draft copy of that record's fields until Save
// succeeds or Cancel discards the draft. Only one record is edited at a time.
type Editor struct {
	def     *schema.EntityDefinition
	backend Backend

	target models.Ref
	draft  models.Document
}

// NewEditor creates an editor for records of def
func NewEditor(def *schema.EntityDefinition, backend Backend) *Editor {
	return &Editor{def: def, backend: backend}
}

// Editing reports whether a draft is open
func (e *Editor) Editing() bool {
	return e.target != nil
}

// Target is the record being edited, or nil
func (e *Editor) Target() models.Ref {
	return e.target
}

// Begin opens a draft initialized from rec. It fails with
// models.ErrEditInProgress while another draft is open.
func (e *Editor) Begin(rec models.Record) error {
	if e.Editing() {
		return models.ErrEditInProgress
	}
	if rec.Collection() != e.def.Collection {
		return &models.ValidationError{Collection: e.def.Collection, Reason: fmt.Sprintf("cannot edit a %s record here", rec.Collection())}
	}
	doc, err := models.ToDocument(rec)
	if err != nil {
		return &models.UnknownError{Op: "copy " + string(rec.Collection()), Err: err}
	}
	e.target = rec.Ref()
	e.draft = doc
	return nil
}

// Draft returns a copy of the draft fields
func (e *Editor) Draft() models.Document {
	out := make(models.Document, len(e.draft))
	for k, v := range e.draft {
		out[k] = v
	}
	return out
}

// Set changes one scalar field of the draft
func (e *Editor) Set(field, value string) error {
	if !e.Editing() {
		return models.ErrNotEditing
	}
	f, ok := e.def.Field(field)
	if !ok {
		return &models.ValidationError{Collection: e.def.Collection, Field: field, Reason: "is not a field of this record"}
	}
	if f.Type == schema.FieldTypeObjectList {
		return &models.ValidationError{Collection: e.def.Collection, Field: field, Reason: "is a list; edit its entries"}
	}
	e.draft[field] = value
	return nil
}

// AddEntry appends a blank entry to an object list field
func (e *Editor) AddEntry(field string) error {
	f, err := e.listField(field)
	if err != nil {
		return err
	}
	blank := make(map[string]interface{}, len(f.Fields))
	for _, sub := range f.Fields {
		blank[sub.Name] = ""
	}
	e.draft[field] = append(e.entries(field), blank)
	return nil
}

// RemoveEntry drops the entry at index. A draft may be emptied completely.
func (e *Editor) RemoveEntry(field string, index int) error {
	if _, err := e.listField(field); err != nil {
		return err
	}
	entries := e.entries(field)
	if index < 0 || index >= len(entries) {
		return &models.ValidationError{Collection: e.def.Collection, Field: field, Reason: fmt.Sprintf("has no entry %d", index)}
	}
	out := make([]interface{}, 0, len(entries)-1)
	out = append(out, entries[:index]...)
	e.draft[field] = append(out, entries[index+1:]...)
	return nil
}

// SetEntry changes one field of the entry at index
func (e *Editor) SetEntry(field string, index int, sub, value string) error {
	f, err := e.listField(field)
	if err != nil {
		return err
	}
	entries := e.entries(field)
	if index < 0 || index >= len(entries) {
		return &models.ValidationError{Collection: e.def.Collection, Field: field, Reason: fmt.Sprintf("has no entry %d", index)}
	}
	if !hasSubField(f, sub) {
		return &models.ValidationError{Collection: e.def.Collection, Field: field + "." + sub, Reason: "is not a field of this record"}
	}

	entry := map[string]interface{}{}
	if old, ok := entries[index].(map[string]interface{}); ok {
		for k, v := range old {
			entry[k] = v
		}
	}
	entry[sub] = value
	out := make([]interface{}, len(entries))
	copy(out, entries)
	out[index] = entry
	e.draft[field] = out
	return nil
}

// Save sends the whole draft as an update. The editor returns to Viewing
// only on success; on failure the draft is kept for correction.
func (e *Editor) Save(ctx context.Context) error {
	if !e.Editing() {
		return models.ErrNotEditing
	}
	rec, err := models.FromDocument(e.def.Collection, e.target.String(), e.draft)
	if err != nil {
		return &models.ValidationError{Collection: e.def.Collection, Reason: err.Error()}
	}
	if err := e.backend.Update(ctx, rec); err != nil {
		return err
	}
	e.reset()
	return nil
}

// Cancel discards the draft unconditionally
func (e *Editor) Cancel() {
	e.reset()
}

func (e *Editor) reset() {
	e.target = nil
	e.draft = nil
}

func (e *Editor) listField(field string) (*schema.FieldDefinition, error) {
	if !e.Editing() {
		return nil, models.ErrNotEditing
	}
	f, ok := e.def.Field(field)
	if !ok || f.Type != schema.FieldTypeObjectList {
		return nil, &models.ValidationError{Collection: e.def.Collection, Field: field, Reason: "is not a list field"}
	}
	return f, nil
}

func (e *Editor) entries(field string) []interface{} {
	entries, _ := e.draft[field].([]interface{})
	return entries
}

func hasSubField(f *schema.FieldDefinition, name string) bool {
	for _, sub := range f.Fields {
		if sub.Name == name {
			return true
		}
	}
	return false
}
