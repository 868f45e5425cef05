// Package client is the HTTP client for the records API. It returns the
// same typed errors as the in-process data-access layer.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"swcommons/internal/config"
	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// Client talks to a running server
type Client struct {
	http    *resty.Client
	baseURL string
	logger  logging.Logger
}

// New creates a client for baseURL. Requests are never retried
// automatically; every retry is the operator's decision.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logging.GetGlobalLogger(),
	}
}

// NewFromConfig uses the console section of cfg
func NewFromConfig(cfg *config.Config) *Client {
	return New(cfg.Console.BaseURL, cfg.Console.RequestTimeout)
}

// BaseURL is the server root this client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns every record of a collection in feed order
func (c *Client) List(ctx context.Context, coll models.Collection, opts records.ListOptions) ([]models.Record, error) {
	req := c.http.R().SetContext(ctx).SetPathParam("collection", string(coll))
	if opts.Category != "" {
		req.SetQueryParam("category", opts.Category)
	}

	var list models.ListResponse
	resp, err := req.SetResult(&list).Get("/api/v1/collections/{collection}")
	if err := c.check("list "+string(coll), resp, err); err != nil {
		return nil, err
	}
	return decodeItems(coll, list.Items)
}

// Get fetches one record with its file URL resolved
func (c *Client) Get(ctx context.Context, ref models.Ref) (models.Record, error) {
	if ref == nil || ref.String() == "" {
		return nil, &models.ValidationError{Reason: "record reference is required"}
	}
	resp, err := c.http.R().SetContext(ctx).
		SetPathParams(map[string]string{"collection": string(ref.Collection()), "id": ref.String()}).
		Get("/api/v1/collections/{collection}/{id}")
	if err := c.check("get "+string(ref.Collection()), resp, err); err != nil {
		return nil, err
	}
	rec, err := models.DecodeRecord(ref.Collection(), resp.Body())
	if err != nil {
		return nil, &models.UnknownError{Op: "decode response", Err: err}
	}
	return rec, nil
}

// Create inserts rec and returns its typed identifier
func (c *Client) Create(ctx context.Context, rec models.Record) (models.Ref, error) {
	coll := rec.Collection()
	var created models.CreateResponse
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("collection", string(coll)).
		SetHeader("Content-Type", "application/json").
		SetBody(rec).
		SetResult(&created).
		Post("/api/v1/collections/{collection}")
	if err := c.check("create "+string(coll), resp, err); err != nil {
		return nil, err
	}
	ref, err := models.NewRef(coll, created.ID)
	if err != nil {
		return nil, &models.UnknownError{Op: "create " + string(coll), Err: err}
	}
	return ref, nil
}

// Update replaces the record identified by rec.Ref()
func (c *Client) Update(ctx context.Context, rec models.Record) error {
	coll := rec.Collection()
	if rec.Ref() == nil || rec.Ref().String() == "" {
		return &models.ValidationError{Collection: coll, Field: "id", Reason: "is required"}
	}
	resp, err := c.http.R().SetContext(ctx).
		SetPathParams(map[string]string{"collection": string(coll), "id": rec.Ref().String()}).
		SetHeader("Content-Type", "application/json").
		SetBody(rec).
		Put("/api/v1/collections/{collection}/{id}")
	return c.check("update "+string(coll), resp, err)
}

// Delete removes the record identified by ref
func (c *Client) Delete(ctx context.Context, ref models.Ref) error {
	if ref == nil || ref.String() == "" {
		return &models.ValidationError{Reason: "record reference is required"}
	}
	resp, err := c.http.R().SetContext(ctx).
		SetPathParams(map[string]string{"collection": string(ref.Collection()), "id": ref.String()}).
		Delete("/api/v1/collections/{collection}/{id}")
	return c.check("delete "+string(ref.Collection()), resp, err)
}

// Schema fetches every entity definition
func (c *Client) Schema(ctx context.Context) ([]*schema.EntityDefinition, error) {
	var defs []*schema.EntityDefinition
	resp, err := c.http.R().SetContext(ctx).SetResult(&defs).Get("/api/v1/schema")
	if err := c.check("get schema", resp, err); err != nil {
		return nil, err
	}
	return defs, nil
}

// GenerateUploadURL requests a single-use upload destination
func (c *Client) GenerateUploadURL(ctx context.Context) (models.UploadDestination, error) {
	var dest models.UploadDestination
	resp, err := c.http.R().SetContext(ctx).SetResult(&dest).Post("/api/v1/uploads")
	if err := c.check("request upload destination", resp, err); err != nil {
		return models.UploadDestination{}, asTransfer("request destination", err)
	}
	return dest, nil
}

// Transfer sends body to dest and returns the storage id to reference in a record
func (c *Client) Transfer(ctx context.Context, dest models.UploadDestination, contentType string, body io.Reader) (string, error) {
	method := dest.Method
	if method == "" {
		method = http.MethodPut
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Execute(method, dest.UploadURL)
	if err != nil {
		return "", &models.TransferError{Stage: "transfer", Err: err}
	}
	if resp.IsError() {
		return "", &models.TransferError{Stage: "transfer", Err: fmt.Errorf("upload rejected with status %d", resp.StatusCode())}
	}

	// object stores answer with an empty body; the id was assigned up front
	var result models.UploadResult
	if json.Unmarshal(resp.Body(), &result) == nil && result.StorageID != "" {
		return result.StorageID, nil
	}
	return dest.StorageID, nil
}

// ResolveURL converts a storage id into a fetchable URL
func (c *Client) ResolveURL(ctx context.Context, storageID string) (string, error) {
	var out models.FileURLResponse
	resp, err := c.http.R().SetContext(ctx).
		SetResult(&out).
		Get("/api/v1/files/" + url.PathEscape(storageID) + "/url")
	if err := c.check("resolve file url", resp, err); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Export queues an XLSX export of a collection
func (c *Client) Export(ctx context.Context, coll models.Collection) (*models.AsyncExportResponse, error) {
	var out models.AsyncExportResponse
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("collection", string(coll)).
		SetResult(&out).
		Post("/api/v1/exports/{collection}")
	if err := c.check("export "+string(coll), resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportStatus reports the state of an export
func (c *Client) ExportStatus(ctx context.Context, processID string) (*models.AsyncTaskStatusResponse, error) {
	var out models.AsyncTaskStatusResponse
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("processId", processID).
		SetResult(&out).
		Get("/api/v1/exports/{processId}")
	if err := c.check("export status", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// check converts transport failures and error responses into typed errors
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Debug("Request failed", map[string]interface{}{"operation": op, "error": err.Error()})
		return &models.UnknownError{Op: op, Err: err}
	}
	if !resp.IsError() {
		return nil
	}

	var body models.ErrorResponse
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr != nil || body.Error == "" {
		return &models.UnknownError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
	c.logger.Debug("Request rejected", map[string]interface{}{
		"operation":  op,
		"status":     resp.StatusCode(),
		"error":      string(body.Error),
		"request_id": body.RequestID,
	})
	return body.AsError()
}

func asTransfer(stage string, err error) error {
	var te *models.TransferError
	if errors.As(err, &te) {
		te.Stage = stage
		return te
	}
	return &models.TransferError{Stage: stage, Err: err}
}

func decodeItems(coll models.Collection, items []json.RawMessage) ([]models.Record, error) {
	out := make([]models.Record, 0, len(items))
	for _, item := range items {
		rec, err := models.DecodeRecord(coll, item)
		if err != nil {
			return nil, &models.UnknownError{Op: "decode " + string(coll), Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}
