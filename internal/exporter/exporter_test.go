package exporter

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/storage"
	"swcommons/internal/store"
	"swcommons/pkg/models"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewLocalStorage(t.TempDir(), "http://files.test", time.Minute)
	require.NoError(t, err)
	svc := records.NewService(store.NewMemoryStore(), nil, files, logging.Discard())

	_, err = svc.CreateBlogPost(ctx, models.BlogPost{Title: "Self-Care", Date: "2024-05-15", Excerpt: "How to rest", Content: "Take **breaks**."})
	require.NoError(t, err)
	_, err = svc.CreateBlogPost(ctx, models.BlogPost{Title: "AI and Ethics", Date: "2024-03-10", Excerpt: "Can AI help?", Content: "- Documentation\n- Risk"})
	require.NoError(t, err)

	exp := New(svc, nil, files)
	exp.logger = logging.Discard()
	exp.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	result, err := exp.Export(ctx, models.BlogPosts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, "blog-entry-20240601-120000.xlsx", result.FileName)
	assert.Equal(t, "http://files.test/files/"+result.StorageID, result.FileURL)

	rc, info, err := files.Open(result.StorageID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, ContentType, info.ContentType)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("blogPosts")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Title", "Date", "Excerpt", "Content", "Author"}, rows[0])
	assert.Equal(t, "AI and Ethics", rows[1][1], "newest first")
	assert.Equal(t, "Documentation\nRisk", rows[1][4])
	assert.Equal(t, "Take breaks.", rows[2][4])
}

func TestWorkbookCountries(t *testing.T) {
	def, err := records.NewService(store.NewMemoryStore(), nil, nil, logging.Discard()).Registry().Entity(models.Countries)
	require.NoError(t, err)

	recs := []models.Record{
		&models.Country{ID: "c1", Name: "United Kingdom", Region: "Europe", Regulators: []models.Regulator{
			{Name: "Social Work England", URL: models.StringPtr("https://www.socialworkengland.org.uk")},
			{Name: "SSSC (Scotland)"},
		}},
	}
	data, err := Workbook(def, recs)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("countries")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"c1", "United Kingdom", "Europe", "Social Work England (https://www.socialworkengland.org.uk); SSSC (Scotland)"}, rows[1])
}

type failingStorage struct{}

func (failingStorage) Put(context.Context, string, string, []byte) (string, error) {
	return "", io.ErrClosedPipe
}

func (failingStorage) ResolveURL(context.Context, string) (string, error) {
	return "", storage.ErrObjectNotFound
}

func TestExportUploadFailure(t *testing.T) {
	svc := records.NewService(store.NewMemoryStore(), nil, nil, logging.Discard())
	exp := New(svc, nil, failingStorage{})
	exp.logger = logging.Discard()

	_, err := exp.Export(context.Background(), models.Theories)
	assert.ErrorIs(t, err, ErrUpload)

	_, err = exp.Export(context.Background(), models.Collection("nope"))
	assert.ErrorIs(t, err, ErrQuery)
}
