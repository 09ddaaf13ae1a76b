package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/repository"
)

// HallHandler exposes the public hall catalogue.  These routes require
// no authentication so guests can browse before registering.
type HallHandler struct {
	Halls *repository.HallRepo
}

func NewHallHandler(halls *repository.HallRepo) *HallHandler {
	if halls == nil {
		panic("nil repository passed to NewHallHandler")
	}
	return &HallHandler{Halls: halls}
}

// ListHalls handles GET /v1/halls.  Optional query parameters: city
// (substring match), capacity (minimum guest capacity), date
// (YYYY-MM-DD; hides halls already locked for that date).
func (h *HallHandler) ListHalls(c echo.Context) error {
	var f repository.HallFilter
	f.City = c.QueryParam("city")
	if capStr := c.QueryParam("capacity"); capStr != "" {
		n, err := strconv.ParseUint(capStr, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid capacity"})
		}
		f.MinCapacity = uint32(n)
	}
	if dateStr := c.QueryParam("date"); dateStr != "" {
		if _, err := time.Parse("2006-01-02", dateStr); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		f.Date = dateStr
	}

	halls, err := h.Halls.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": halls})
}

// GetHall handles GET /v1/halls/:id and returns one hall.
func (h *HallHandler) GetHall(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hall"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": hall})
}
