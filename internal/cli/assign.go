package cli

import (
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"swcommons/internal/schema"
	"swcommons/internal/views"
)

// assignment is one key=value pair from the command line
type assignment struct {
	key   string
	value string
}

func parseAssignments(pairs []string) ([]assignment, error) {
	out := make([]assignment, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, usagef("expected key=value, got %q", p)
		}
		out = append(out, assignment{key: key, value: value})
	}
	return out, nil
}

// entryAssignment is i.field=value addressing one sub-field of a list entry
type entryAssignment struct {
	index int
	field string
	value string
}

func parseEntryAssignments(pairs []string) ([]entryAssignment, error) {
	assigns, err := parseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	out := make([]entryAssignment, 0, len(assigns))
	for _, a := range assigns {
		idx, field, ok := strings.Cut(a.key, ".")
		i, err := strconv.Atoi(idx)
		if !ok || err != nil || i < 0 || field == "" {
			return nil, usagef("expected index.field=value, got %q", a.key+"="+a.value)
		}
		out = append(out, entryAssignment{index: i, field: field, value: a.value})
	}
	return out, nil
}

// listField is the repeatable field of def, if it has one
func listField(def *schema.EntityDefinition) *schema.FieldDefinition {
	for _, f := range def.Fields {
		if f.Type == schema.FieldTypeObjectList {
			return f
		}
	}
	return nil
}

// descending dedupes and sorts indexes so removing one does not shift the next
func descending(indexes []int) []int {
	seen := make(map[int]bool, len(indexes))
	out := make([]int, 0, len(indexes))
	for _, i := range indexes {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func openAttachment(path string) (*views.Attachment, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &views.Attachment{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Body:        f,
	}, f.Close, nil
}
