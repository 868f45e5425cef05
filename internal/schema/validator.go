package schema

import (
	"fmt"
	"strings"

	"swcommons/pkg/models"
)

// Validate checks a complete document for insertion.
// It returns the first *models.ValidationError in field order.
func (r *Registry) Validate(c models.Collection, doc models.Document) error {
	def, err := r.Entity(c)
	if err != nil {
		return &models.ValidationError{Collection: c, Reason: err.Error()}
	}
	if err := rejectUnknown(def, doc); err != nil {
		return err
	}
	for _, f := range def.Fields {
		value, present := doc[f.Name]
		if err := validateField(c, f, value, present, f.Name); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePatch checks the fields present in a partial document.
// A nil value clears the field and is only allowed for optional fields.
func (r *Registry) ValidatePatch(c models.Collection, patch models.Document) error {
	def, err := r.Entity(c)
	if err != nil {
		return &models.ValidationError{Collection: c, Reason: err.Error()}
	}
	if err := rejectUnknown(def, patch); err != nil {
		return err
	}
	for _, f := range def.Fields {
		value, present := patch[f.Name]
		if !present {
			continue
		}
		if value == nil && f.Type == FieldTypeObjectList {
			return &models.ValidationError{Collection: c, Field: f.Name, Reason: "cannot be cleared"}
		}
		if err := validateField(c, f, value, value != nil, f.Name); err != nil {
			return err
		}
	}
	return nil
}

func rejectUnknown(def *EntityDefinition, doc models.Document) error {
	for name := range doc {
		if _, ok := def.Field(name); !ok {
			return &models.ValidationError{Collection: def.Collection, Field: name, Reason: "is not a field of this record"}
		}
	}
	return nil
}

func validateField(c models.Collection, f *FieldDefinition, value interface{}, present bool, path string) error {
	fail := func(reason string) error {
		return &models.ValidationError{Collection: c, Field: path, Reason: reason}
	}

	if !present || value == nil {
		switch {
		case f.Type == FieldTypeObjectList:
			return nil
		case f.Required:
			return fail("is required")
		default:
			return nil
		}
	}

	switch f.Type {
	case FieldTypeString, FieldTypeOptional:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		if strings.TrimSpace(s) == "" {
			if f.Required {
				return fail("is required")
			}
			return fail("must be absent rather than blank")
		}
	case FieldTypeEnum:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		if !contains(f.Values, s) {
			return fail(fmt.Sprintf("must be one of %s", strings.Join(quoteAll(f.Values), ", ")))
		}
	case FieldTypeObjectList:
		items, ok := value.([]interface{})
		if !ok {
			return fail("must be a list")
		}
		for i, item := range items {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return fail(fmt.Sprintf("entry %d must be an object", i))
			}
			for name := range entry {
				known := false
				for _, sub := range f.Fields {
					if sub.Name == name {
						known = true
						break
					}
				}
				if !known {
					return &models.ValidationError{Collection: c, Field: fmt.Sprintf("%s[%d].%s", path, i, name), Reason: "is not a field of this entry"}
				}
			}
			for _, sub := range f.Fields {
				v, has := entry[sub.Name]
				if err := validateField(c, sub, v, has, fmt.Sprintf("%s[%d].%s", path, i, sub.Name)); err != nil {
					return err
				}
			}
		}
	default:
		return fail(fmt.Sprintf("has unsupported type %s", f.Type))
	}
	return nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
