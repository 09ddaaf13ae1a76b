package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/repository"
	"github.com/iliyamo/banquet-hall-booking/internal/workflow"
)

// BookingHandler serves the customer-facing booking endpoints.  All
// writes go through the workflow orchestrator; the repository is used
// directly only for reads.  Methods assume JWT authentication and role
// validation have been performed by middleware.
type BookingHandler struct {
	Bookings     *repository.BookingRepo
	Orchestrator *workflow.Orchestrator
}

func NewBookingHandler(bookings *repository.BookingRepo, orch *workflow.Orchestrator) *BookingHandler {
	if bookings == nil || orch == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Orchestrator: orch}
}

type createBookingReq struct {
	EventType  string   `json:"event_type"`
	EventDate  string   `json:"event_date"` // YYYY-MM-DD
	StartTime  string   `json:"start_time"` // RFC3339
	EndTime    string   `json:"end_time"`   // RFC3339
	GuestCount uint32   `json:"guest_count"`
	HallIDs    []uint64 `json:"hall_ids"`
}

// CreateBooking handles POST /v1/bookings.  Validation is fail-fast:
// the first malformed field produces a 400 naming that field.  A
// request whose halls are already locked for the date gets a 409.  On
// success the booking is returned in status PENDING.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	eventType := model.EventType(req.EventType)
	if !eventType.IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown event type"})
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event date, expected YYYY-MM-DD"})
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start time, expected RFC3339"})
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end time, expected RFC3339"})
	}

	b, err := h.Orchestrator.CreateBooking(c.Request().Context(), workflow.CreateBookingInput{
		CustomerID: customerID,
		EventType:  eventType,
		EventDate:  eventDate,
		StartTime:  startTime.UTC(),
		EndTime:    endTime.UTC(),
		GuestCount: req.GuestCount,
		HallIDs:    req.HallIDs,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListMyBookings handles GET /v1/my-bookings and returns every booking
// of the authenticated customer, newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Customers may only see
// their own bookings; any admin tier may inspect any booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	if !role.IsAdmin() && b.CustomerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}
