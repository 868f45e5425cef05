package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

const maxColumns = 4

// RecordTable renders records as rows under the schema's leading fields.
// The id column is shown only when mutation controls are available.
func (d *Display) RecordTable(def *schema.EntityDefinition, recs []models.Record, withIDs bool) (string, error) {
	columns := tableColumns(def)
	headers := make([]string, 0, len(columns)+2)
	headers = append(headers, "#")
	if withIDs {
		headers = append(headers, "ID")
	}
	for _, f := range columns {
		headers = append(headers, f.Label)
	}

	cellWidth := (d.Width - 8) / len(columns)
	if withIDs {
		cellWidth = (d.Width - 46) / len(columns)
	}
	if cellWidth < 12 {
		cellWidth = 12
	}

	rows := make([][]string, 0, len(recs))
	for i, rec := range recs {
		doc, err := models.ToDocument(rec)
		if err != nil {
			return "", err
		}
		row := []string{fmt.Sprintf("%d", i+1)}
		if withIDs {
			row = append(row, rec.Ref().String())
		}
		for _, f := range columns {
			row = append(row, truncate(cellText(f, doc[f.Name]), cellWidth))
		}
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			if !d.TTY {
				return style
			}
			switch {
			case row == table.HeaderRow:
				return style.Inherit(AccentBold)
			case col == 0 || (withIDs && col == 1):
				return style.Inherit(Muted)
			}
			return style
		})
	if d.TTY {
		tbl = tbl.BorderStyle(Muted)
	}
	return tbl.String() + "\n", nil
}

func tableColumns(def *schema.EntityDefinition) []*schema.FieldDefinition {
	var out []*schema.FieldDefinition
	for _, f := range def.Fields {
		if f.Multiline || f.RichText || f.Name == def.FileField {
			continue
		}
		out = append(out, f)
		if len(out) == maxColumns {
			break
		}
	}
	return out
}

func cellText(f *schema.FieldDefinition, value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.Join(strings.Fields(v), " ")
	case []interface{}:
		var names []string
		for _, item := range v {
			if entry, ok := item.(map[string]interface{}); ok && len(f.Fields) > 0 {
				if name, ok := entry[f.Fields[0].Name].(string); ok {
					names = append(names, name)
				}
			}
		}
		return strings.Join(names, ", ")
	}
	return fmt.Sprint(value)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
