package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"swcommons/internal/api/middleware"
	"swcommons/internal/live"
	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// RecordService is the data-access contract served over HTTP
type RecordService interface {
	Registry() *schema.Registry
	Create(ctx context.Context, rec models.Record) (models.Ref, error)
	Update(ctx context.Context, rec models.Record) error
	Get(ctx context.Context, ref models.Ref) (models.Record, error)
	List(ctx context.Context, c models.Collection, opts records.ListOptions) ([]models.Record, error)
	Delete(ctx context.Context, ref models.Ref) error
}

// ListHandler returns a collection in its feed order. ?category= applies
// the equality filter on collections that carry a category field.
func ListHandler(svc RecordService) echo.HandlerFunc {
	return func(c echo.Context) error {
		coll, err := collectionParam(c)
		if err != nil {
			return errorJSON(c, err)
		}

		recs, err := svc.List(c.Request().Context(), coll, records.ListOptions{Category: c.QueryParam("category")})
		if err != nil {
			return errorJSON(c, err)
		}
		items, err := live.EncodeRecords(recs)
		if err != nil {
			return errorJSON(c, &models.UnknownError{Op: "encode " + string(coll), Err: err})
		}

		return c.JSON(http.StatusOK, models.ListResponse{
			Collection: coll,
			Count:      len(items),
			Items:      items,
		})
	}
}

// GetHandler returns one record with its file URL resolved
func GetHandler(svc RecordService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref, err := refParam(c)
		if err != nil {
			return errorJSON(c, err)
		}
		rec, err := svc.Get(c.Request().Context(), ref)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, rec)
	}
}

// CreateHandler inserts the record in the request body
func CreateHandler(svc RecordService) echo.HandlerFunc {
	return func(c echo.Context) error {
		coll, err := collectionParam(c)
		if err != nil {
			return errorJSON(c, err)
		}
		doc, err := readDocument(c, coll)
		if err != nil {
			return errorJSON(c, err)
		}
		rec, err := models.FromDocument(coll, "", doc)
		if err != nil {
			return errorJSON(c, &models.ValidationError{Collection: coll, Reason: err.Error()})
		}

		ref, err := svc.Create(c.Request().Context(), rec)
		if err != nil {
			return errorJSON(c, err)
		}

		logging.LogWithRequestID(middleware.RequestID(c)).Debug("Create request served", map[string]interface{}{
			"collection": string(coll),
			"id":         ref.String(),
		})
		return c.JSON(http.StatusCreated, models.CreateResponse{ID: ref.String(), Collection: coll})
	}
}

// UpdateHandler replaces every mutable field of the record named in the path.
// An id in the body is ignored.
func UpdateHandler(svc RecordService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref, err := refParam(c)
		if err != nil {
			return errorJSON(c, err)
		}
		doc, err := readDocument(c, ref.Collection())
		if err != nil {
			return errorJSON(c, err)
		}
		rec, err := models.FromDocument(ref.Collection(), ref.String(), doc)
		if err != nil {
			return errorJSON(c, &models.ValidationError{Collection: ref.Collection(), Reason: err.Error()})
		}

		if err := svc.Update(c.Request().Context(), rec); err != nil {
			return errorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// DeleteHandler removes the record named in the path
func DeleteHandler(svc RecordService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref, err := refParam(c)
		if err != nil {
			return errorJSON(c, err)
		}
		if err := svc.Delete(c.Request().Context(), ref); err != nil {
			return errorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// readDocument decodes the request body as a JSON object
func readDocument(c echo.Context, coll models.Collection) (models.Document, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, &models.UnknownError{Op: "read request body", Err: err}
	}
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		return nil, &models.ValidationError{Collection: coll, Reason: "request body must be a JSON object"}
	}
	delete(doc, "id")
	return doc, nil
}
