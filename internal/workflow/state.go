// Package workflow implements the booking approval pipeline: the
// state machine that owns every legal status transition and the
// orchestrator that applies admin decisions and payment signals to
// bookings.  All post-creation mutations of a booking flow through
// this package; no other layer computes a next status.
package workflow

import (
	"fmt"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
)

// Decision enumerates the actions an admin can take on a booking.
type Decision string

const (
	DecisionApprove       Decision = "approve"
	DecisionReject        Decision = "reject"
	DecisionRequestChange Decision = "request-change"
)

// IsValid reports whether d is a recognised decision.
func (d Decision) IsValid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionRequestChange:
		return true
	}
	return false
}

// transitionKey identifies one row of the transition table.
type transitionKey struct {
	Status   model.BookingStatus
	Role     model.Role
	Decision Decision
}

// transitions is the single authority for admin-driven status moves.
// Level 1 (ADMIN1) verifies the request, level 2 (ADMIN2) checks
// availability and requests payment, level 3 (ADMIN3) confirms after
// payment.  PAYMENT_REQUESTED -> PAYMENT_COMPLETED is intentionally
// absent: it is driven by the payment collaborator's completion
// signal, not by an admin decision.  SUPERADMIN holds no rows and can
// therefore never move a booking.
var transitions = map[transitionKey]model.BookingStatus{
	{model.StatusPending, model.RoleAdmin1, DecisionApprove}:       model.StatusApproved,
	{model.StatusPending, model.RoleAdmin1, DecisionRequestChange}: model.StatusChangeRequested,

	{model.StatusApproved, model.RoleAdmin2, DecisionApprove}: model.StatusPaymentRequested,
	{model.StatusApproved, model.RoleAdmin2, DecisionReject}:  model.StatusRejected,

	{model.StatusPaymentCompleted, model.RoleAdmin3, DecisionApprove}: model.StatusConfirmed,
	{model.StatusPaymentCompleted, model.RoleAdmin3, DecisionReject}:  model.StatusRejected,
}

// Transition returns the status a booking moves to when an actor with
// the given role takes the given decision in the current status.  It
// is pure: it performs no I/O and does not check hall availability.
// Any (current, role, decision) triple outside the table fails with
// model.ErrInvalidTransition and the booking must be left unchanged
// by the caller.
func Transition(current model.BookingStatus, role model.Role, decision Decision) (model.BookingStatus, error) {
	next, ok := transitions[transitionKey{current, role, decision}]
	if !ok {
		return "", fmt.Errorf("%w: %s cannot %s a %s booking",
			model.ErrInvalidTransition, role, decision, current)
	}
	return next, nil
}
