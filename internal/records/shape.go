package records

import (
	"strings"

	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// shape normalizes an encoded record before validation: blank optional
// strings become absent, at the top level and inside object lists, and an
// absent object list becomes empty.
func shape(def *schema.EntityDefinition, doc models.Document) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, f := range def.Fields {
		switch f.Type {
		case schema.FieldTypeOptional:
			if isBlank(out[f.Name]) {
				delete(out, f.Name)
			}
		case schema.FieldTypeObjectList:
			out[f.Name] = shapeList(f, out[f.Name])
		}
	}
	return out
}

func shapeList(f *schema.FieldDefinition, value interface{}) []interface{} {
	items, _ := value.([]interface{})
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			out = append(out, item)
			continue
		}
		cleaned := make(map[string]interface{}, len(entry))
		for k, v := range entry {
			cleaned[k] = v
		}
		for _, sub := range f.Fields {
			if sub.Optional() && isBlank(cleaned[sub.Name]) {
				delete(cleaned, sub.Name)
			}
		}
		out = append(out, cleaned)
	}
	return out
}

// isBlank treats a missing value like an empty string
func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// replacement is the patch that turns a stored record into doc: every
// schema field is sent, absent ones as nil so the gateway removes them.
func replacement(def *schema.EntityDefinition, doc models.Document) models.Document {
	patch := make(models.Document, len(def.Fields))
	for _, f := range def.Fields {
		if v, ok := doc[f.Name]; ok {
			patch[f.Name] = v
			continue
		}
		patch[f.Name] = nil
	}
	return patch
}
