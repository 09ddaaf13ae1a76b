package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/repository"
	"github.com/iliyamo/banquet-hall-booking/internal/workflow"
)

// AdminBookingHandler serves the admin approval surface: the per-level
// work queue, the decision endpoint, price allocation and dashboard
// stats.  The actor's role is read once from the verified JWT and then
// passed explicitly into the orchestrator; the workflow never inspects
// any ambient session state.
type AdminBookingHandler struct {
	Bookings     *repository.BookingRepo
	Orchestrator *workflow.Orchestrator
}

func NewAdminBookingHandler(bookings *repository.BookingRepo, orch *workflow.Orchestrator) *AdminBookingHandler {
	if bookings == nil || orch == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: bookings, Orchestrator: orch}
}

// queueStatuses maps each admin tier to the statuses it works on.
// Every booking is processed by whichever admin of the required level
// picks it up; there is no per-booking assignment.
func queueStatuses(role model.Role) []model.BookingStatus {
	switch role {
	case model.RoleAdmin1:
		return []model.BookingStatus{model.StatusPending}
	case model.RoleAdmin2:
		return []model.BookingStatus{model.StatusApproved}
	case model.RoleAdmin3:
		return []model.BookingStatus{model.StatusPaymentCompleted}
	case model.RoleSuperAdmin:
		return []model.BookingStatus{model.StatusPending, model.StatusApproved, model.StatusPaymentCompleted}
	}
	return nil
}

// ListQueue handles GET /v1/admin/bookings.  ADMIN1 sees PENDING,
// ADMIN2 sees APPROVED, ADMIN3 sees PAYMENT_COMPLETED and SUPERADMIN
// sees all three, oldest first.
func (h *AdminBookingHandler) ListQueue(c echo.Context) error {
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	statuses := queueStatuses(role)
	if statuses == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	items, err := h.Bookings.ListByStatuses(c.Request().Context(), statuses)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type decisionReq struct {
	Decision string `json:"decision"` // approve | reject | request-change
	Comment  string `json:"comment"`
}

// Decide handles POST /v1/admin/bookings/:id/decision.  The decision
// is translated by the workflow's transition table; an illegal
// (status, role, decision) triple — wrong level, terminal status or a
// booking that already moved on — yields a 409 and leaves the booking
// untouched.
func (h *AdminBookingHandler) Decide(c echo.Context) error {
	actorID, err := getUserID(c)
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
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	decision := workflow.Decision(req.Decision)
	if !decision.IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown decision, expected approve, reject or request-change"})
	}

	b, err := h.Orchestrator.Act(c.Request().Context(), id, actorID, role, decision, req.Comment)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

type allocatePriceReq struct {
	AllocatedPrice uint64 `json:"allocated_price_cents"`
}

// AllocatePrice handles PATCH /v1/admin/bookings/:id/halls/:hallId/price.
// Admins set the final price of a hall allocation during review; the
// value stays zero until then.
func (h *AdminBookingHandler) AllocatePrice(c echo.Context) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	hallID, err := strconv.ParseUint(c.Param("hallId"), 10, 64)
	if err != nil || hallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req allocatePriceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Bookings.SetAllocatedPrice(c.Request().Context(), bookingID, hallID, req.AllocatedPrice); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetStats handles GET /v1/admin/stats and returns the dashboard
// booking counters.
func (h *AdminBookingHandler) GetStats(c echo.Context) error {
	stats, err := h.Bookings.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
