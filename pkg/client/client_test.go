package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/api/apitest"
	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/pkg/client"
	"swcommons/pkg/models"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(logging.NewMultiLogger())
	os.Exit(m.Run())
}

func newClient(t *testing.T) (*client.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return client.New(srv.URL, 5*time.Second), srv
}

func TestRecordRoundTrip(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	ref, err := c.Create(ctx, &models.Country{
		Name:   "Ireland",
		Region: "Europe",
		Regulators: []models.Regulator{
			{Name: "CORU", URL: models.StringPtr("https://coru.ie")},
			{Name: "IASW", URL: models.StringPtr(" ")},
		},
	})
	require.NoError(t, err)
	assert.IsType(t, models.CountryID(""), ref)

	got, err := c.Get(ctx, ref)
	require.NoError(t, err)
	country := got.(*models.Country)
	assert.Equal(t, "Ireland", country.Name)
	require.Len(t, country.Regulators, 2)
	assert.Equal(t, "CORU", country.Regulators[0].Name)
	assert.Nil(t, country.Regulators[1].URL)

	country.Regulators = country.Regulators[:1]
	require.NoError(t, c.Update(ctx, country))

	list, err := c.List(ctx, models.Countries, records.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].(*models.Country).Regulators, 1)

	require.NoError(t, c.Delete(ctx, ref))
	_, err = c.Get(ctx, ref)
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, models.Countries, nf.Collection)
	assert.Equal(t, ref.String(), nf.ID)

	err = c.Delete(ctx, ref)
	assert.ErrorAs(t, err, &nf)
}

func TestTypedErrors(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()

	_, err := c.Create(ctx, &models.Event{
		Title: "Webinar", Date: "2024-07-01", Location: "Online", Description: "x", Type: "party",
	})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)
	assert.Equal(t, models.Events, ve.Collection)

	list, err := srv.Records.List(ctx, models.Events, records.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)

	err = c.Update(ctx, &models.Theory{ID: "missing", Name: "Systems", Description: "x"})
	var nf *models.NotFoundError
	assert.ErrorAs(t, err, &nf)

	err = c.Update(ctx, &models.Theory{Name: "Systems", Description: "x"})
	assert.ErrorAs(t, err, &ve)

	offline := client.New("http://127.0.0.1:1", time.Second)
	_, err = offline.List(ctx, models.Theories, records.ListOptions{})
	var unknown *models.UnknownError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, models.KindUnknown, models.Classify(err))
}

func TestUploadTransferAndResolve(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	dest, err := c.GenerateUploadURL(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, dest.UploadURL)

	storageID, err := c.Transfer(ctx, dest, "application/pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NotEmpty(t, storageID)

	_, err = c.Transfer(ctx, dest, "application/pdf", strings.NewReader("again"))
	var te *models.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "transfer", te.Stage)

	ref, err := c.Create(ctx, &models.Research{
		Title: "Outcomes", Author: "A. Author", Year: "2024", Type: "Dissertation",
		Description: "Abstract", FileStorageID: &storageID,
	})
	require.NoError(t, err)

	got, err := c.Get(ctx, ref)
	require.NoError(t, err)
	paper := got.(*models.Research)
	require.NotNil(t, paper.FileURL)

	resolved, err := c.ResolveURL(ctx, storageID)
	require.NoError(t, err)
	assert.Equal(t, *paper.FileURL, resolved)

	resp, err := http.Get(resolved)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(body))
}

func TestSchema(t *testing.T) {
	c, _ := newClient(t)

	defs, err := c.Schema(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 15)
	assert.Equal(t, models.Jobs, defs[0].Collection)
}

func TestExport(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()

	_, err := srv.Records.Create(ctx, &models.Theory{Name: "Systems Theory", Description: "Holistic view"})
	require.NoError(t, err)

	accepted, err := c.Export(ctx, models.Theories)
	require.NoError(t, err)
	require.NotEmpty(t, accepted.ProcessID)

	var status *models.AsyncTaskStatusResponse
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err = c.ExportStatus(ctx, accepted.ProcessID)
		require.NoError(t, err)
		if status.Status == models.AsyncStatusSuccess || status.Status == models.AsyncStatusFailure {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, models.AsyncStatusSuccess, status.Status, status.Error)
	require.NotNil(t, status.Data)
	assert.Equal(t, 1, status.Data.Rows)

	_, err = c.ExportStatus(ctx, "export_missing")
	var nf *models.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSubscribe(t *testing.T) {
	c, srv := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps, err := c.Subscribe(ctx, models.ForumPosts, records.ListOptions{Category: "Case Consultation"})
	require.NoError(t, err)

	first := next(t, snaps)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Records)

	_, err = srv.Records.Create(ctx, &models.ForumPost{
		Category: "Case Consultation", Title: "Boundaries", Content: "x", Author: "Sam", PostedAt: "2024-06-01",
	})
	require.NoError(t, err)

	second := next(t, snaps)
	require.NoError(t, second.Err)
	require.Len(t, second.Records, 1)
	assert.Equal(t, "Boundaries", second.Records[0].(*models.ForumPost).Title)

	cancel()
	for range snaps {
	}
}

func TestSubscribeUnknownCollection(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.Subscribe(context.Background(), models.Collection("nope"), records.ListOptions{})
	require.Error(t, err)
	var ve *models.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func next(t *testing.T, snaps <-chan client.Snapshot) client.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-snaps:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return client.Snapshot{}
}
