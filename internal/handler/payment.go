package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/repository"
	"github.com/iliyamo/banquet-hall-booking/internal/workflow"
)

// PaymentHandler is the thin payment collaborator surface.  It tracks
// payment rows against a mock gateway; the workflow core only consumes
// the completion signal emitted from VerifyPayment.
type PaymentHandler struct {
	Payments     *repository.PaymentRepo
	Bookings     *repository.BookingRepo
	Orchestrator *workflow.Orchestrator
}

func NewPaymentHandler(payments *repository.PaymentRepo, bookings *repository.BookingRepo, orch *workflow.Orchestrator) *PaymentHandler {
	if payments == nil || bookings == nil || orch == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, Bookings: bookings, Orchestrator: orch}
}

type initiatePaymentReq struct {
	BookingID uint64 `json:"booking_id"`
	Amount    uint64 `json:"amount_cents"`
}

// InitiatePayment handles POST /v1/payments.  It creates an INITIATED
// payment row with a mock gateway reference for a booking owned by the
// caller.  Initiation is idempotent: a second call returns the
// existing payment unchanged.
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req initiatePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.BookingID == 0 || req.Amount == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id and amount_cents are required"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if b.CustomerID != customerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	// Idempotency: reuse an existing payment for the booking.
	if existing, err := h.Payments.GetByBookingID(ctx, req.BookingID); err == nil {
		return c.JSON(http.StatusOK, existing)
	} else if !errors.Is(err, model.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payment"})
	}

	p := &model.Payment{
		BookingID:  req.BookingID,
		CustomerID: customerID,
		Amount:     req.Amount,
		Status:     model.PaymentInitiated,
		GatewayRef: "MOCK_" + uuid.NewString(),
	}
	if err := h.Payments.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment"})
	}
	return c.JSON(http.StatusCreated, p)
}

type verifyPaymentReq struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// VerifyPayment handles POST /v1/payments/:id/verify.  It records the
// gateway result on a payment owned by the caller.  A COMPLETED result
// generates an invoice number and signals the workflow, moving the
// booking from PAYMENT_REQUESTED to PAYMENT_COMPLETED.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var req verifyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.TransactionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_id is required"})
	}
	status := model.PaymentStatus(req.Status)
	if !status.IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment status"})
	}

	ctx := c.Request().Context()
	p, err := h.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if p.CustomerID != customerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var invoice *string
	if status == model.PaymentCompleted {
		inv := newInvoiceNumber()
		invoice = &inv
	}
	if err := h.Payments.RecordResult(ctx, p.ID, status, req.TransactionID, invoice); err != nil {
		return writeDomainError(c, err)
	}

	if status == model.PaymentCompleted {
		if _, err := h.Orchestrator.SignalPaymentCompleted(ctx, p.BookingID); err != nil {
			return writeDomainError(c, err)
		}
	}

	p, err = h.Payments.GetByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reload payment"})
	}
	return c.JSON(http.StatusOK, p)
}

// newInvoiceNumber derives a short, unique invoice number.
func newInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("INV-%s", id[:12])
}
