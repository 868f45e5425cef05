package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"swcommons/internal/api/middleware"
	"swcommons/internal/logging"
	"swcommons/internal/storage"
	"swcommons/pkg/models"
)

// LocalObjects is the part of the local storage backend served over HTTP
type LocalObjects interface {
	Accept(ctx context.Context, token, contentType string, body io.Reader, limit int64) (string, error)
	Open(storageID string) (io.ReadCloser, storage.ObjectInfo, error)
}

// UploadURLHandler hands out a single-use upload destination
func UploadURLHandler(objects storage.ObjectStorage) echo.HandlerFunc {
	return func(c echo.Context) error {
		dest, err := objects.GenerateUploadURL(c.Request().Context())
		if err != nil {
			return errorJSON(c, &models.TransferError{Stage: "request destination", Err: err})
		}
		logging.LogWithRequestID(middleware.RequestID(c)).Debug("Upload destination issued", map[string]interface{}{
			"storage_id": dest.StorageID,
			"expires_at": dest.ExpiresAt,
		})
		return c.JSON(http.StatusOK, dest)
	}
}

// AcceptUploadHandler receives the bytes for one upload token
func AcceptUploadHandler(objects LocalObjects, limit int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if limit > 0 && req.ContentLength > limit {
			return statusJSON(c, http.StatusRequestEntityTooLarge, models.KindTransfer, "file exceeds the upload limit")
		}

		storageID, err := objects.Accept(req.Context(), c.Param("token"), req.Header.Get(echo.HeaderContentType), req.Body, limit)
		switch {
		case errors.Is(err, models.ErrUploadSpent):
			return statusJSON(c, http.StatusGone, models.KindTransfer, err.Error())
		case errors.Is(err, storage.ErrObjectTooLarge):
			return statusJSON(c, http.StatusRequestEntityTooLarge, models.KindTransfer, err.Error())
		case err != nil:
			return errorJSON(c, &models.TransferError{Stage: "transfer", Err: err})
		}
		return c.JSON(http.StatusOK, models.UploadResult{StorageID: storageID})
	}
}

// FileHandler streams a locally stored object
func FileHandler(objects LocalObjects) echo.HandlerFunc {
	return func(c echo.Context) error {
		storageID := storageIDParam(c)
		rc, info, err := objects.Open(storageID)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return errorJSON(c, &models.NotFoundError{Collection: "files", ID: storageID})
		}
		if err != nil {
			return errorJSON(c, &models.UnknownError{Op: "open file", Err: err})
		}
		defer rc.Close()

		header := c.Response().Header()
		header.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
		if info.Name != "" {
			header.Set(echo.HeaderContentDisposition, `attachment; filename="`+info.Name+`"`)
		}
		return c.Stream(http.StatusOK, info.ContentType, rc)
	}
}

// FileURLHandler resolves a storage id to a fetchable URL
func FileURLHandler(objects storage.ObjectStorage) echo.HandlerFunc {
	return func(c echo.Context) error {
		storageID := storageIDParam(c)
		resolved, err := objects.ResolveURL(c.Request().Context(), storageID)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return errorJSON(c, &models.NotFoundError{Collection: "files", ID: storageID})
		}
		if err != nil {
			return errorJSON(c, &models.TransferError{Stage: "resolve url", Err: err})
		}
		return c.JSON(http.StatusOK, models.FileURLResponse{StorageID: storageID, URL: resolved})
	}
}

// storageIDParam unescapes :storageId. Spaces keys contain slashes, which
// clients send as %2F.
func storageIDParam(c echo.Context) string {
	raw := c.Param("storageId")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
