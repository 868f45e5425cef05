package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"swcommons/internal/api/middleware"
	"swcommons/internal/logging"
	"swcommons/pkg/models"
)

// errorJSON writes the wire form of err with the status of its kind
func errorJSON(c echo.Context, err error) error {
	resp := models.NewErrorResponse(err, middleware.RequestID(c))
	status := models.StatusCode(resp.Error)

	logger := logging.LogWithRequestID(resp.RequestID)
	fields := map[string]interface{}{
		"method": c.Request().Method,
		"path":   c.Path(),
		"status": status,
		"error":  err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields)
	} else {
		logger.Debug("Request rejected", fields)
	}
	return c.JSON(status, resp)
}

// statusJSON writes an error body with an explicit status, for conditions
// outside the record error taxonomy such as a spent upload token.
func statusJSON(c echo.Context, status int, kind models.ErrorKind, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     kind,
		Message:   message,
		RequestID: middleware.RequestID(c),
		Timestamp: time.Now(),
	})
}

// collectionParam parses the :collection path parameter
func collectionParam(c echo.Context) (models.Collection, error) {
	coll, err := models.ParseCollection(c.Param("collection"))
	if err != nil {
		return "", &models.ValidationError{Reason: err.Error()}
	}
	return coll, nil
}

// refParam builds the typed identifier from :collection and :id
func refParam(c echo.Context) (models.Ref, error) {
	coll, err := collectionParam(c)
	if err != nil {
		return nil, err
	}
	ref, err := models.NewRef(coll, c.Param("id"))
	if err != nil {
		return nil, &models.ValidationError{Collection: coll, Field: "id", Reason: "is required"}
	}
	return ref, nil
}
