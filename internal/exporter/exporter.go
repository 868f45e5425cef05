// Package exporter writes a collection to an XLSX workbook and stores it
// through the object storage collaborator.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/render"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrQuery  = errors.New("query_failed")
	ErrRender = errors.New("render_error")
	ErrUpload = errors.New("upload_failed")
)

// ContentType is the MIME type of the produced workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Lister reads a collection in feed order
type Lister interface {
	List(ctx context.Context, c models.Collection, opts records.ListOptions) ([]models.Record, error)
}

// Storage is the part of the object storage collaborator the exporter needs
type Storage interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	ResolveURL(ctx context.Context, storageID string) (string, error)
}

// Exporter renders collections to XLSX
type Exporter struct {
	records  Lister
	registry *schema.Registry
	storage  Storage
	logger   logging.Logger
	now      func() time.Time
}

// New builds an exporter. A nil registry means the built-in one.
func New(l Lister, registry *schema.Registry, s Storage) *Exporter {
	if registry == nil {
		registry = schema.Default()
	}
	return &Exporter{
		records:  l,
		registry: registry,
		storage:  s,
		logger:   logging.GetGlobalLogger(),
		now:      time.Now,
	}
}

// Export renders every record of c into one sheet and uploads the workbook
func (e *Exporter) Export(ctx context.Context, c models.Collection) (*models.ExportCompletionData, error) {
	def, err := e.registry.Entity(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	recs, err := e.records.List(ctx, c, records.ListOptions{})
	if err != nil {
		e.logger.Error("Failed to load collection for export", map[string]interface{}{
			"collection": string(c),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	data, err := Workbook(def, recs)
	if err != nil {
		e.logger.Error("Failed to render export workbook", map[string]interface{}{
			"collection": string(c),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	fileName := fmt.Sprintf("%s-%s.xlsx", render.Slug(def.Label), e.now().UTC().Format("20060102-150405"))
	storageID, err := e.storage.Put(ctx, fileName, ContentType, data)
	if err != nil {
		e.logger.Error("Failed to upload export workbook", map[string]interface{}{
			"collection": string(c),
			"file_name":  fileName,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	url, err := e.storage.ResolveURL(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	e.logger.Info("Collection exported", map[string]interface{}{
		"collection": string(c),
		"rows":       len(recs),
		"storage_id": storageID,
	})
	return &models.ExportCompletionData{
		Collection: c,
		StorageID:  storageID,
		FileURL:    url,
		FileName:   fileName,
		Rows:       len(recs),
	}, nil
}

// Workbook lays recs out as a single sheet: a bold header row of field
// labels, then one row per record. Rich text is flattened to plain text
// and regulator lists are joined into one cell.
func Workbook(def *schema.EntityDefinition, recs []models.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(def.Collection)
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"ID"}
	for _, field := range def.Fields {
		header = append(header, field.Label)
	}
	if def.FileField != "" {
		header = append(header, "File URL")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, rec := range recs {
		row, err := rowFor(def, rec)
		if err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rowFor(def *schema.EntityDefinition, rec models.Record) ([]interface{}, error) {
	doc, err := models.ToDocument(rec)
	if err != nil {
		return nil, err
	}
	row := []interface{}{rec.Ref().String()}
	for _, field := range def.Fields {
		value, err := cellValue(field, doc[field.Name])
		if err != nil {
			return nil, err
		}
		row = append(row, value)
	}
	if def.FileField != "" {
		row = append(row, fileURL(rec))
	}
	return row, nil
}

func cellValue(field *schema.FieldDefinition, value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		if field.RichText {
			return render.MarkdownText(v)
		}
		return v, nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			entry, _ := item.(map[string]interface{})
			name, _ := entry["name"].(string)
			if url, ok := entry["url"].(string); ok && url != "" {
				name = fmt.Sprintf("%s (%s)", name, url)
			}
			parts = append(parts, name)
		}
		return strings.Join(parts, "; "), nil
	}
	return fmt.Sprint(value), nil
}

func fileURL(rec models.Record) string {
	switch r := rec.(type) {
	case *models.Reading:
		return models.Deref(r.FileURL)
	case *models.Research:
		return models.Deref(r.FileURL)
	}
	return ""
}
