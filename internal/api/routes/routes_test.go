package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/api/apitest"
	"swcommons/internal/config"
	"swcommons/internal/logging"
	"swcommons/pkg/models"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(logging.NewMultiLogger())
	os.Exit(m.Run())
}

func do(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeError(t *testing.T, data []byte) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestCollectionLifecycle(t *testing.T) {
	srv := apitest.New(t)
	base := srv.URL + "/api/v1/collections/jobs"

	resp, data := do(t, http.MethodPost, base, map[string]interface{}{
		"title":        "Case Manager",
		"organization": "City Services",
		"location":     "Austin, TX",
		"type":         "Full-time",
		"salary":       "  ",
		"description":  "Coordinate services",
		"postedAt":     "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var created models.CreateResponse
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, models.Jobs, created.Collection)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, data = do(t, http.MethodGet, base+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var job models.Job
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, "Case Manager", job.Title)
	assert.Nil(t, job.Salary, "blank salary is stored as absent")
	assert.NotContains(t, string(data), `"salary"`)

	resp, data = do(t, http.MethodPut, base+"/"+created.ID, map[string]interface{}{
		"title":        "Senior Case Manager",
		"organization": "City Services",
		"location":     "Austin, TX",
		"type":         "Full-time",
		"salary":       "$60k",
		"description":  "Lead the team",
		"postedAt":     "2030-01-01",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(data))

	resp, data = do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list models.ListResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Equal(t, 1, list.Count)
	require.NoError(t, json.Unmarshal(list.Items[0], &job))
	assert.Equal(t, "Senior Case Manager", job.Title)
	assert.Equal(t, "$60k", models.Deref(job.Salary))
	assert.Equal(t, "2024-06-01", job.PostedAt, "postedAt is kept from creation")

	resp, _ = do(t, http.MethodDelete, base+"/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = do(t, http.MethodDelete, base+"/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decodeError(t, data)
	assert.Equal(t, models.KindNotFound, errResp.Error)
	assert.Equal(t, created.ID, errResp.ID)

	resp, _ = do(t, http.MethodGet, base+"/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRejectedRequests(t *testing.T) {
	srv := apitest.New(t)
	api := srv.URL + "/api/v1/collections/"

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		kind   models.ErrorKind
		field  string
	}{
		{
			name:   "enumerated value outside its set",
			method: http.MethodPost,
			path:   "events",
			body:   map[string]string{"title": "Summit", "date": "2025-01-01", "location": "Online", "description": "d", "type": "party"},
			status: http.StatusBadRequest,
			kind:   models.KindValidation,
			field:  "type",
		},
		{
			name:   "missing required field",
			method: http.MethodPost,
			path:   "theories",
			body:   map[string]string{"name": "Systems Theory"},
			status: http.StatusBadRequest,
			kind:   models.KindValidation,
			field:  "description",
		},
		{
			name:   "unknown collection",
			method: http.MethodGet,
			path:   "widgets",
			status: http.StatusBadRequest,
			kind:   models.KindValidation,
		},
		{
			name:   "body is not an object",
			method: http.MethodPost,
			path:   "theories",
			body:   []string{"x"},
			status: http.StatusBadRequest,
			kind:   models.KindValidation,
		},
		{
			name:   "update of an unknown id",
			method: http.MethodPut,
			path:   "theories/missing",
			body:   map[string]string{"name": "Systems Theory", "description": "d"},
			status: http.StatusNotFound,
			kind:   models.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, tt.method, api+tt.path, tt.body)
			require.Equal(t, tt.status, resp.StatusCode, string(data))
			errResp := decodeError(t, data)
			assert.Equal(t, tt.kind, errResp.Error)
			assert.Equal(t, tt.field, errResp.Field)
			assert.NotEmpty(t, errResp.RequestID)
		})
	}

	resp, data := do(t, http.MethodGet, api+"events", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"count":0`, "rejected creates leave the store untouched")
}

func TestForumCategoryQuery(t *testing.T) {
	srv := apitest.New(t)
	ctx := context.Background()
	for i, category := range []string{"General Discussion", "Case Consultation", "General Discussion"} {
		_, err := srv.Records.CreateForumPost(ctx, models.ForumPost{
			Category: category,
			Title:    []string{"first", "second", "third"}[i],
			Content:  "c",
			Author:   "Anonymous",
			PostedAt: "2024-01-01",
		})
		require.NoError(t, err)
	}

	resp, data := do(t, http.MethodGet, srv.URL+"/api/v1/collections/forumPosts?category=General%20Discussion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list models.ListResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Equal(t, 2, list.Count)

	var titles []string
	for _, item := range list.Items {
		var post models.ForumPost
		require.NoError(t, json.Unmarshal(item, &post))
		titles = append(titles, post.Title)
	}
	assert.Equal(t, []string{"third", "first"}, titles)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/collections/theories?category=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadAndResolve(t *testing.T) {
	srv := apitest.New(t)

	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/uploads", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var dest models.UploadDestination
	require.NoError(t, json.Unmarshal(data, &dest))
	require.True(t, strings.HasPrefix(dest.UploadURL, srv.URL+"/uploads/"))

	upload := func() (*http.Response, []byte) {
		req, err := http.NewRequest(dest.Method, dest.UploadURL, strings.NewReader("%PDF-1.7 abstract"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/pdf")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, body
	}

	resp, data = upload()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var result models.UploadResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, dest.StorageID, result.StorageID)

	resp, _ = upload()
	assert.Equal(t, http.StatusGone, resp.StatusCode, "upload destinations are single-use")

	resp, data = do(t, http.MethodPost, srv.URL+"/api/v1/collections/research", map[string]string{
		"title":         "Outcomes in Kinship Care",
		"author":        "R. Okafor",
		"year":          "2023",
		"type":          "Dissertation",
		"description":   "A study",
		"fileStorageId": result.StorageID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var created models.CreateResponse
	require.NoError(t, json.Unmarshal(data, &created))

	resp, data = do(t, http.MethodGet, srv.URL+"/api/v1/collections/research/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var paper models.Research
	require.NoError(t, json.Unmarshal(data, &paper))
	require.NotNil(t, paper.FileURL)
	assert.Equal(t, srv.URL+"/files/"+result.StorageID, *paper.FileURL)

	resp, data = do(t, http.MethodGet, *paper.FileURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.7 abstract", string(data))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp, data = do(t, http.MethodGet, srv.URL+"/api/v1/files/"+result.StorageID+"/url", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resolved models.FileURLResponse
	require.NoError(t, json.Unmarshal(data, &resolved))
	assert.Equal(t, *paper.FileURL, resolved.URL)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/files/00000000-0000-0000-0000-000000000000/url", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadTooLarge(t *testing.T) {
	srv := apitest.New(t, func(cfg *config.Config) {
		cfg.Server.UploadLimit = "8B"
	})

	dest, err := srv.Storage.GenerateUploadURL(context.Background())
	require.NoError(t, err)
	resp, err := http.Post(dest.UploadURL, "application/pdf", strings.NewReader("far more than eight bytes"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSchemaAndHealth(t *testing.T) {
	srv := apitest.New(t)

	resp, data := do(t, http.MethodGet, srv.URL+"/api/v1/schema", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var defs []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &defs))
	assert.Len(t, defs, len(models.AllCollections))

	resp, data = do(t, http.MethodGet, srv.URL+"/api/v1/schema/countries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"regulators"`)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/schema/widgets", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = do(t, http.MethodGet, srv.URL+"/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(data, &health))
	assert.Equal(t, "ok", health.Checks["store"])
	assert.Equal(t, "ok", health.Checks["storage"])
}

func TestExport(t *testing.T) {
	srv := apitest.New(t)
	_, err := srv.Records.CreateTheory(context.Background(), models.Theory{Name: "Systems Theory", Description: "Systems"})
	require.NoError(t, err)

	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/exports/theories", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(data))
	var accepted models.AsyncExportResponse
	require.NoError(t, json.Unmarshal(data, &accepted))
	require.NotEmpty(t, accepted.ProcessID)

	var status models.AsyncTaskStatusResponse
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, data := do(t, http.MethodGet, srv.URL+"/api/v1/exports/"+accepted.ProcessID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		status = models.AsyncTaskStatusResponse{}
		require.NoError(t, json.Unmarshal(data, &status))
		if status.Status == models.AsyncStatusSuccess || status.Status == models.AsyncStatusFailure {
			break
		}
		require.True(t, time.Now().Before(deadline), "export did not finish")
		time.Sleep(20 * time.Millisecond)
	}

	require.Equal(t, models.AsyncStatusSuccess, status.Status, status.Error)
	require.NotNil(t, status.Data)
	assert.Equal(t, 1, status.Data.Rows)

	resp, data = do(t, http.MethodGet, status.Data.FileURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, data)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/exports/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscribePushesSnapshots(t *testing.T) {
	srv := apitest.New(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/subscribe/theories"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() models.SnapshotMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var msg models.SnapshotMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	first := read()
	assert.Equal(t, "snapshot", first.Type)
	assert.Empty(t, first.Items)

	require.Eventually(t, func() bool {
		return srv.Hub.Subscribers(models.Theories) == 1
	}, time.Second, 10*time.Millisecond)

	_, err = srv.Records.CreateTheory(context.Background(), models.Theory{Name: "Strengths Perspective", Description: "Strengths"})
	require.NoError(t, err)

	next := read()
	assert.Equal(t, models.Theories, next.Collection)
	require.Len(t, next.Items, 1)
	assert.Contains(t, string(next.Items[0]), "Strengths Perspective")
}

func TestMutationsAreRateLimited(t *testing.T) {
	srv := apitest.New(t, func(cfg *config.Config) {
		cfg.Server.RateLimit.RequestsPerSecond = 0.001
		cfg.Server.RateLimit.Burst = 1
	})
	theory := map[string]string{"name": "Systems Theory", "description": "d"}

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/v1/collections/theories", theory)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/collections/theories", theory)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, models.KindRateLimit, decodeError(t, data).Error)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/collections/theories", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "reads are not limited")
}
