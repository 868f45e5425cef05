// Package schema declares the field layout of every entity kind and
// validates documents against it.
package schema

import "swcommons/pkg/models"

// FieldType is the storage type of a field
type FieldType string

const (
	FieldTypeString     FieldType = "string"
	FieldTypeOptional   FieldType = "optional_string"
	FieldTypeEnum       FieldType = "enum"
	FieldTypeObjectList FieldType = "object_list"
)

// AutoFill names a value computed by the submission form instead of typed by the operator
type AutoFill string

const (
	AutoNone        AutoFill = ""
	AutoToday       AutoFill = "today"        // always stamped at submit
	AutoCurrentYear AutoFill = "current_year" // used when left blank
)

// FieldDefinition describes one field of an entity
type FieldDefinition struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`

	// Values is the closed literal set of an enum field
	Values []string `json:"values,omitempty"`
	// Fields describes the entries of an object_list field
	Fields []*FieldDefinition `json:"fields,omitempty"`

	// Slot is the composite form input that feeds this field; empty means Name
	Slot string `json:"slot,omitempty"`
	// Fallback is read when Slot is blank
	Fallback string `json:"fallback,omitempty"`
	Default  string `json:"default,omitempty"`
	// Options are suggestions for free-text fields, not a constraint
	Options   []string `json:"options,omitempty"`
	Auto      AutoFill `json:"auto,omitempty"`
	Hidden    bool     `json:"hidden,omitempty"`
	Multiline bool     `json:"multiline,omitempty"`
	RichText  bool     `json:"richText,omitempty"`
	// Lookup names a closed reference list the form selects from
	Lookup string `json:"lookup,omitempty"`
	// KeepOnUpdate fields are set at creation and carried over by updates
	KeepOnUpdate bool `json:"keepOnUpdate,omitempty"`
}

// InputSlot returns the form input feeding this field
func (f *FieldDefinition) InputSlot() string {
	if f.Slot != "" {
		return f.Slot
	}
	return f.Name
}

// Optional reports whether the field may be absent
func (f *FieldDefinition) Optional() bool {
	return !f.Required
}

// EntityDefinition describes one entity kind
type EntityDefinition struct {
	Collection models.Collection  `json:"collection"`
	Kind       string             `json:"kind"` // submission form category id
	Label      string             `json:"label"`
	Group      string             `json:"group"`
	Route      string             `json:"route"`
	DetailPath string             `json:"detailPath,omitempty"`
	FileField  string             `json:"fileField,omitempty"`
	Fields     []*FieldDefinition `json:"fields"`
}

// Field returns the named field definition
func (e *EntityDefinition) Field(name string) (*FieldDefinition, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldNames returns the ordered field names
func (e *EntityDefinition) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

// Slots returns the distinct form inputs this kind renders, in field order
func (e *EntityDefinition) Slots() []string {
	seen := map[string]bool{}
	var slots []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			slots = append(slots, s)
		}
	}
	for _, f := range e.Fields {
		if f.Hidden {
			continue
		}
		add(f.InputSlot())
		add(f.Fallback)
	}
	return slots
}
