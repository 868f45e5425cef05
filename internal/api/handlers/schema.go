package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// SchemaHandler lists every entity definition in navigation order
func SchemaHandler(registry *schema.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, registry.Entities())
	}
}

// EntitySchemaHandler returns one entity definition. The parameter may be a
// collection name or a submission form kind.
func EntitySchemaHandler(registry *schema.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		def, err := registry.Resolve(c.Param("collection"))
		if err != nil {
			return errorJSON(c, &models.NotFoundError{Collection: "schema", ID: c.Param("collection")})
		}
		return c.JSON(http.StatusOK, def)
	}
}
