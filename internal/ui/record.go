package ui

import (
	"fmt"
	"strings"

	"swcommons/internal/schema"
	"swcommons/internal/views"
	"swcommons/pkg/models"
	"swcommons/pkg/utils"
)

// Record renders every field of rec with its schema label. Rich text is
// rendered as Markdown.
func (d *Display) Record(def *schema.EntityDefinition, rec models.Record) (string, error) {
	doc, err := models.ToDocument(rec)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", d.style(AccentBold, def.Label), d.style(Muted, rec.Ref().String()))
	for _, f := range def.Fields {
		value, ok := doc[f.Name]
		if !ok || value == nil {
			continue
		}
		if f.RichText {
			body, err := d.Markdown(cellText(f, value))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s\n%s", d.style(Bold, f.Label+":"), body)
			continue
		}
		if f.Type == schema.FieldTypeObjectList {
			fmt.Fprintf(&b, "%s\n", d.style(Bold, f.Label+":"))
			items, _ := value.([]interface{})
			for i, item := range items {
				entry, _ := item.(map[string]interface{})
				fmt.Fprintf(&b, "  %d. %s\n", i, entryLine(f, entry))
			}
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", d.style(Bold, f.Label+":"), value)
	}
	return b.String(), nil
}

func entryLine(f *schema.FieldDefinition, entry map[string]interface{}) string {
	var parts []string
	for _, sub := range f.Fields {
		if s, ok := entry[sub.Name].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "  ")
}

// List renders a browse screen: active filters, then rows or the
// empty-state placeholder
func (d *Display) List(v *views.ListView, search, category string) (string, error) {
	var b strings.Builder
	def := v.Definition()
	fmt.Fprintf(&b, "%s\n", d.style(AccentBold, def.Label))
	if search != "" {
		fmt.Fprintf(&b, "%s %q\n", d.style(Muted, "search:"), search)
	}
	if category != "" {
		fmt.Fprintf(&b, "%s %s\n", d.style(Muted, v.CategoryField()+":"), category)
	}
	if opts := v.CategoryOptions(); len(opts) > 0 {
		fmt.Fprintf(&b, "%s %s\n", d.style(Muted, "filter by "+v.CategoryField()+":"), strings.Join(opts, " | "))
	}

	visible := v.Visible()
	if len(visible) == 0 {
		fmt.Fprintf(&b, "\n%s\n", d.style(Muted, views.NoMatches))
		return b.String(), nil
	}
	tbl, err := d.RecordTable(def, visible, v.CanMutate())
	if err != nil {
		return "", err
	}
	b.WriteString("\n")
	b.WriteString(tbl)
	return b.String(), nil
}

// Detail renders a detail view in its current state
func (d *Display) Detail(v *views.DetailView, def *schema.EntityDefinition) (string, error) {
	switch v.State() {
	case views.DetailLoading:
		return d.style(Muted, "Loading document...") + "\n", nil
	case views.DetailNotFound:
		body := fmt.Sprintf("%s\n%s\nReturn to %s", views.NotFoundTitle, views.NotFoundMessage, v.ReturnRoute())
		if d.TTY {
			return Panel.Render(body) + "\n", nil
		}
		return body + "\n", nil
	}

	out, err := d.Record(def, v.Record())
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(out)
	if url, ok := v.DownloadURL(); ok {
		fmt.Fprintf(&b, "%s %s\n", d.style(Bold, "Download:"), d.style(Accent, url))
	} else {
		fmt.Fprintf(&b, "%s\n", d.style(Muted, views.FileUnavailable))
	}
	fmt.Fprintf(&b, "%s %s\n", d.style(Bold, "Share:"), v.CanonicalURL())
	return b.String(), nil
}

// ExportStatus renders the state of a background export
func (d *Display) ExportStatus(status *models.AsyncTaskStatusResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", d.style(Bold, status.ProcessID), status.Status)
	if status.ProcessingTime != nil {
		fmt.Fprintf(&b, "%s %s\n", d.style(Muted, "took:"), utils.FormatDuration(*status.ProcessingTime))
	}
	if status.Data != nil {
		fmt.Fprintf(&b, "%s %d rows\n", d.style(Muted, "rows:"), status.Data.Rows)
		fmt.Fprintf(&b, "%s %s\n", d.style(Muted, "file:"), d.style(Accent, status.Data.FileURL))
	}
	if status.Error != "" {
		fmt.Fprintf(&b, "%s %s\n", d.style(Muted, "error:"), status.Error)
	}
	return b.String()
}

// Failure is the operator-facing line for a failed action
func (d *Display) Failure(err error) string {
	return d.style(AccentBold, "✗ ") + models.UserMessage(err) + "\n"
}

// Success is a confirmation line
func (d *Display) Success(msg string) string {
	return d.style(Bold, "✓ ") + msg + "\n"
}
