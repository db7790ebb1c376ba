package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/app/services"
)

// InventoryRoutes registers read-side inventory endpoints.
type InventoryRoutes struct {
	read *services.InventoryReadService
}

// NewInventoryRoutes constructs inventory read routes.
func NewInventoryRoutes(read *services.InventoryReadService) *InventoryRoutes {
	return &InventoryRoutes{read: read}
}

// RegisterRoutes registers inventory read endpoints.
func (r *InventoryRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group("/api/v1")

	api.GET("/inventory/:shop/:variant", r.handleGetLevels)
	api.GET("/inventory/:shop/:variant/locations/:location", r.handleGetLevel)
}

func (r *InventoryRoutes) handleGetLevels(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("variant"), 10, 64)
	if err != nil || variantID <= 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Details: "variant must be a positive integer"})
	}

	levels, err := r.read.GetLevels(c.Request().Context(), c.Param("shop"), variantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, levels)
}

func (r *InventoryRoutes) handleGetLevel(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("variant"), 10, 64)
	if err != nil || variantID <= 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Details: "variant must be a positive integer"})
	}

	level, err := r.read.GetLevel(c.Request().Context(), c.Param("shop"), variantID, c.Param("location"))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorBody{Error: "not found", Details: "no stock row for this location"})
		}
		return err
	}
	return c.JSON(http.StatusOK, level)
}
