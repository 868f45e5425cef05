package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"swcommons/internal/api/middleware"
	"swcommons/internal/background"
	"swcommons/internal/logging"
	"swcommons/pkg/models"
	"swcommons/pkg/utils"
)

// ExportHandler queues an XLSX export of a collection and returns its process id
func ExportHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)
		logger := logging.LogWithRequestID(requestID)

		coll, err := collectionParam(c)
		if err != nil {
			return errorJSON(c, err)
		}

		processID := utils.GenerateExportProcessID()
		err = taskManager.SubmitExportTask(c.Request().Context(), processID, coll)
		switch {
		case errors.Is(err, background.ErrQueueFull), errors.Is(err, background.ErrNotRunning):
			logger.Warn("Export rejected", map[string]interface{}{
				"collection": string(coll),
				"error":      err.Error(),
			})
			return statusJSON(c, http.StatusServiceUnavailable, models.KindUnknown, err.Error())
		case err != nil:
			return errorJSON(c, &models.UnknownError{Op: "submit export", Err: err})
		}

		logger.Info("Export accepted", map[string]interface{}{
			"collection": string(coll),
			"process_id": processID,
		})
		return c.JSON(http.StatusAccepted, models.CreateAsyncExportResponse(processID, coll))
	}
}

// ExportStatusHandler reports the state of an export task
func ExportStatusHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		processID := c.Param("processId")
		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if errors.Is(err, background.ErrTaskNotFound) {
			return errorJSON(c, &models.NotFoundError{Collection: "exports", ID: processID})
		}
		if err != nil {
			return errorJSON(c, &models.UnknownError{Op: "get export status", Err: err})
		}
		return c.JSON(http.StatusOK, result.StatusResponse())
	}
}
