package views

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"swcommons/internal/logging"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// DateLayout is used for dates stamped at submission
const DateLayout = "2006-01-02"

// Attachment is a file submitted with a research or reading record
type Attachment struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Submission is the outcome of a successful submit
type Submission struct {
	Ref models.Ref
	// Redirect is the browse route of the created record's collection
	Redirect string
}

// Form is the composite submission form. The selected kind decides which
// inputs exist; every input is a named slot that one or more schema fields
// read from.
type Form struct {
	registry *schema.Registry
	backend  Backend
	files    FileStore
	admin    Capability
	logger   logging.Logger
	now      func() time.Time

	def        *schema.EntityDefinition
	values     map[string]string
	entries    []map[string]string
	attachment *Attachment
	// uploaded is the storage id of the transferred attachment, reused by
	// later submits until the attachment or kind changes
	uploaded string
}

// NewForm creates a form with the first registered kind selected
func NewForm(registry *schema.Registry, backend Backend, files FileStore, admin Capability, logger logging.Logger) *Form {
	if registry == nil {
		registry = schema.Default()
	}
	if admin == nil {
		admin = Static(false)
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	f := &Form{
		registry: registry,
		backend:  backend,
		files:    files,
		admin:    admin,
		logger:   logger,
		now:      time.Now,
	}
	f.switchTo(registry.Entities()[0], nil)
	return f
}

// Kind is the selected entity kind
func (f *Form) Kind() *schema.EntityDefinition {
	return f.def
}

// SelectKind switches the form to kind. Values of inputs the new kind also
// renders are kept; everything else is dropped.
func (f *Form) SelectKind(kind string) error {
	def, err := f.registry.Resolve(kind)
	if err != nil {
		return &models.ValidationError{Reason: err.Error()}
	}
	if def == f.def {
		return nil
	}
	f.switchTo(def, f.values)
	return nil
}

func (f *Form) switchTo(def *schema.EntityDefinition, previous map[string]string) {
	f.def = def
	f.values = make(map[string]string)
	for _, fd := range def.Fields {
		if fd.Default != "" && !fd.Hidden {
			f.values[fd.InputSlot()] = fd.Default
		}
	}
	var lookups []string
	for _, slot := range def.Slots() {
		if _, ok := previous[slot]; !ok {
			continue
		}
		if fd := f.lookupField(slot); fd != nil && fd.Lookup != "" {
			lookups = append(lookups, slot)
			continue
		}
		f.values[slot] = previous[slot]
	}
	// closed-set inputs only keep a value the reference list accepts
	for _, slot := range lookups {
		_ = f.Set(slot, previous[slot])
	}
	f.entries = nil
	if f.listField() != nil {
		f.entries = []map[string]string{{}}
	}
	f.attachment = nil
	f.uploaded = ""
}

// Slots are the inputs rendered for the selected kind
func (f *Form) Slots() []string {
	return f.def.Slots()
}

// Value returns the current content of an input
func (f *Form) Value(slot string) string {
	return f.values[slot]
}

// Set fills an input. Choosing a country from the closed reference list
// also fills the region input, which stays editable.
func (f *Form) Set(slot, value string) error {
	if !f.hasSlot(slot) {
		return &models.ValidationError{Collection: f.def.Collection, Field: slot, Reason: "is not an input of this form"}
	}
	if fd := f.lookupField(slot); fd != nil && fd.Lookup == "country" {
		if !schema.IsKnownCountry(value) {
			return &models.ValidationError{Collection: f.def.Collection, Field: fd.Name, Reason: "must be a country from the reference list"}
		}
		region, ok := schema.RegionFor(value)
		if !ok {
			region = schema.FallbackRegion
		}
		f.values["region"] = region
	}
	f.values[slot] = value
	return nil
}

// Entries returns the repeatable entry rows
func (f *Form) Entries() []map[string]string {
	out := make([]map[string]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = make(map[string]string, len(e))
		for k, v := range e {
			out[i][k] = v
		}
	}
	return out
}

// AddEntry appends a blank row
func (f *Form) AddEntry() error {
	if f.listField() == nil {
		return &models.ValidationError{Collection: f.def.Collection, Reason: "has no repeatable entries"}
	}
	f.entries = append(f.entries, map[string]string{})
	return nil
}

// RemoveEntry drops the row at index while more than one row remains
func (f *Form) RemoveEntry(index int) error {
	if f.listField() == nil {
		return &models.ValidationError{Collection: f.def.Collection, Reason: "has no repeatable entries"}
	}
	if index < 0 || index >= len(f.entries) {
		return &models.ValidationError{Collection: f.def.Collection, Reason: fmt.Sprintf("has no entry %d", index)}
	}
	if len(f.entries) == 1 {
		return nil
	}
	f.entries = append(f.entries[:index], f.entries[index+1:]...)
	return nil
}

// SetEntry fills one field of the row at index
func (f *Form) SetEntry(index int, field, value string) error {
	lf := f.listField()
	if lf == nil {
		return &models.ValidationError{Collection: f.def.Collection, Reason: "has no repeatable entries"}
	}
	if index < 0 || index >= len(f.entries) {
		return &models.ValidationError{Collection: f.def.Collection, Field: lf.Name, Reason: fmt.Sprintf("has no entry %d", index)}
	}
	if !hasSubField(lf, field) {
		return &models.ValidationError{Collection: f.def.Collection, Field: lf.Name + "." + field, Reason: "is not a field of this record"}
	}
	f.entries[index][field] = value
	return nil
}

// Attach sets the file uploaded on submit
func (f *Form) Attach(a *Attachment) error {
	if f.def.FileField == "" {
		return &models.ValidationError{Collection: f.def.Collection, Field: "file", Reason: "is not accepted for this kind"}
	}
	f.attachment = a
	f.uploaded = ""
	return nil
}

// Submit uploads the attachment, if any, then creates the record. On
// success the form is cleared; on failure every value is kept.
func (f *Form) Submit(ctx context.Context) (*Submission, error) {
	if !f.admin.Enabled() {
		return nil, ErrAdminMode
	}
	if fd := f.countryField(); fd != nil && !schema.IsKnownCountry(f.values[fd.InputSlot()]) {
		return nil, &models.ValidationError{Collection: f.def.Collection, Field: fd.Name, Reason: "must be a country from the reference list"}
	}

	storageID, err := f.upload(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := models.FromDocument(f.def.Collection, "", f.document(storageID))
	if err != nil {
		return nil, &models.ValidationError{Collection: f.def.Collection, Reason: err.Error()}
	}
	ref, err := f.backend.Create(ctx, rec)
	if err != nil {
		if storageID != "" {
			f.logger.Warn("Uploaded file is orphaned after failed create", map[string]interface{}{
				"collection": string(f.def.Collection),
				"storage_id": storageID,
				"error":      err.Error(),
			})
		}
		return nil, err
	}

	f.logger.Info("Submission created", map[string]interface{}{
		"collection": string(f.def.Collection),
		"id":         ref.String(),
	})
	redirect := f.def.Route
	f.switchTo(f.def, nil)
	return &Submission{Ref: ref, Redirect: redirect}, nil
}

func (f *Form) upload(ctx context.Context) (string, error) {
	if f.attachment == nil || f.def.FileField == "" {
		return "", nil
	}
	if f.uploaded != "" {
		return f.uploaded, nil
	}
	if f.files == nil {
		return "", &models.TransferError{Stage: "request destination", Err: fmt.Errorf("no file store configured")}
	}
	dest, err := f.files.GenerateUploadURL(ctx)
	if err != nil {
		return "", asTransferError("request destination", err)
	}
	storageID, err := f.files.Transfer(ctx, dest, f.attachment.ContentType, f.attachment.Body)
	if err != nil {
		return "", asTransferError("transfer", err)
	}
	f.uploaded = storageID
	f.logger.Debug("File uploaded", map[string]interface{}{
		"collection": string(f.def.Collection),
		"storage_id": storageID,
		"file":       f.attachment.Name,
	})
	return storageID, nil
}

// document maps the inputs onto the selected kind's fields
func (f *Form) document(storageID string) models.Document {
	now := f.now()
	doc := models.Document{}
	for _, fd := range f.def.Fields {
		switch {
		case fd.Type == schema.FieldTypeObjectList:
			doc[fd.Name] = f.entryList(fd)
			continue
		case fd.Name == f.def.FileField:
			if storageID != "" {
				doc[fd.Name] = storageID
			}
			continue
		case fd.Auto == schema.AutoToday:
			doc[fd.Name] = now.Format(DateLayout)
			continue
		}

		value := f.values[fd.InputSlot()]
		if blank(value) && fd.Fallback != "" {
			value = f.values[fd.Fallback]
		}
		if blank(value) && fd.Hidden {
			value = fd.Default
		}
		if blank(value) && fd.Auto == schema.AutoCurrentYear {
			value = strconv.Itoa(now.Year())
		}
		if !blank(value) {
			doc[fd.Name] = value
		}
	}
	return doc
}

// entryList drops rows with a blank first field and blank optional values
func (f *Form) entryList(fd *schema.FieldDefinition) []interface{} {
	out := []interface{}{}
	for _, row := range f.entries {
		if len(fd.Fields) > 0 && blank(row[fd.Fields[0].Name]) {
			continue
		}
		entry := map[string]interface{}{}
		for _, sub := range fd.Fields {
			if v := row[sub.Name]; !blank(v) {
				entry[sub.Name] = v
			}
		}
		out = append(out, entry)
	}
	return out
}

func (f *Form) hasSlot(slot string) bool {
	for _, s := range f.def.Slots() {
		if s == slot {
			return true
		}
	}
	return false
}

func (f *Form) lookupField(slot string) *schema.FieldDefinition {
	for _, fd := range f.def.Fields {
		if fd.InputSlot() == slot {
			return fd
		}
	}
	return nil
}

func (f *Form) countryField() *schema.FieldDefinition {
	for _, fd := range f.def.Fields {
		if fd.Lookup == "country" {
			return fd
		}
	}
	return nil
}

func (f *Form) listField() *schema.FieldDefinition {
	for _, fd := range f.def.Fields {
		if fd.Type == schema.FieldTypeObjectList {
			return fd
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func asTransferError(stage string, err error) error {
	if models.Classify(err) == models.KindTransfer {
		return err
	}
	return &models.TransferError{Stage: stage, Err: err}
}
