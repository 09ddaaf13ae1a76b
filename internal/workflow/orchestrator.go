package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/queue"
)

// BookingStore is the persistence surface the orchestrator needs.  It
// is implemented by repository.BookingRepo; tests substitute mocks.
type BookingStore interface {
	// Create atomically inserts the booking and one hall reservation
	// per hall ID, populating generated fields on b.
	Create(ctx context.Context, b *model.Booking, hallIDs []uint64) error
	// GetByID loads a booking with its hall reservations.  A missing
	// booking yields an error satisfying errors.Is(err, model.ErrNotFound).
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	// UpdateStatus performs a compare-and-swap from the expected
	// status to the next one, optionally appending notes.  It returns
	// false when the booking no longer is in the expected status.
	UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus, notes *string) (bool, error)
	// HasConflict reports whether any of the halls is reserved for
	// the date by a booking in a locking status.  The booking with
	// excludeID is ignored so a booking never conflicts with itself.
	HasConflict(ctx context.Context, hallIDs []uint64, date time.Time, excludeID uint64) (bool, error)
}

// HallLocker serialises writes to hall/date inventory.  AcquireAll
// blocks out every (hall, date) pair for the duration of a promotion
// and returns a release function.  Implementations may degrade to a
// no-op when the lock backend is unavailable; the conflict re-check
// and the status CAS still hold then.
type HallLocker interface {
	AcquireAll(ctx context.Context, hallIDs []uint64, date time.Time) (release func(), err error)
}

// AuditPublisher emits one audit event per successful status move.
type AuditPublisher interface {
	PublishAudit(ctx context.Context, ev queue.BookingAuditEvent) error
}

// Orchestrator is the single entry point for creating bookings and
// for every post-creation mutation.  Authorisation is role based
// only: bookings are processed by whichever admin of the required
// level picks them up, there is no per-booking assignment.
type Orchestrator struct {
	store  BookingStore
	locker HallLocker
	audit  AuditPublisher
}

// NewOrchestrator constructs an Orchestrator.  store must be non-nil;
// locker and audit may be nil and are then skipped.
func NewOrchestrator(store BookingStore, locker HallLocker, audit AuditPublisher) *Orchestrator {
	if store == nil {
		panic("nil store passed to NewOrchestrator")
	}
	return &Orchestrator{store: store, locker: locker, audit: audit}
}

// CreateBookingInput carries the validated-typed creation request.
type CreateBookingInput struct {
	CustomerID uint64
	EventType  model.EventType
	EventDate  time.Time
	StartTime  time.Time
	EndTime    time.Time
	GuestCount uint32
	HallIDs    []uint64
}

// CreateBooking validates the input fail-fast, rejects requests whose
// halls are already locked for the date, and materialises the booking
// in PENDING together with one hall reservation per hall.  Two
// PENDING requests for the same hall/date may coexist; the definitive
// inventory check happens again at the PENDING -> APPROVED promotion.
func (o *Orchestrator) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if !in.EventType.IsValid() {
		return nil, fmt.Errorf("%w: unknown event type %q", model.ErrInvalidInput, in.EventType)
	}
	if in.EventDate.IsZero() {
		return nil, fmt.Errorf("%w: event date is required", model.ErrInvalidInput)
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, fmt.Errorf("%w: start time must be before end time", model.ErrInvalidInput)
	}
	if in.GuestCount == 0 {
		return nil, fmt.Errorf("%w: guest count must be positive", model.ErrInvalidInput)
	}
	hallIDs := dedupe(in.HallIDs)
	if len(hallIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one hall is required", model.ErrInvalidInput)
	}

	conflict, err := o.store.HasConflict(ctx, hallIDs, in.EventDate, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("%w: selected hall(s) are not available for the requested date",
			model.ErrInventoryConflict)
	}

	b := &model.Booking{
		CustomerID: in.CustomerID,
		EventType:  in.EventType,
		EventDate:  in.EventDate,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		GuestCount: in.GuestCount,
		Status:     model.StatusPending,
	}
	if err := o.store.Create(ctx, b, hallIDs); err != nil {
		return nil, err
	}
	return b, nil
}

// Act applies one admin decision to a booking.  It loads the booking,
// asks the transition table for the next status, re-validates hall
// inventory when the move is the PENDING -> APPROVED promotion, then
// persists the new status with a compare-and-swap.  Exactly one
// status mutation and one audit emission happen per successful call;
// nothing is mutated on failure.
func (o *Orchestrator) Act(ctx context.Context, bookingID, actorID uint64, role model.Role, decision Decision, comment string) (*model.Booking, error) {
	b, err := o.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := Transition(b.Status, role, decision)
	if err != nil {
		return nil, err
	}

	// Promotion out of PENDING turns the booking into a binding hold
	// on its halls, so the availability seen at creation time must be
	// re-validated here under the hall/date lock.  This closes the
	// window in which two PENDING requests for the same slot could
	// both be approved.
	if b.Status == model.StatusPending && next == model.StatusApproved {
		hallIDs := hallIDsOf(b)
		if o.locker != nil {
			release, err := o.locker.AcquireAll(ctx, hallIDs, b.EventDate)
			if err != nil {
				return nil, err
			}
			defer release()
		}
		conflict, err := o.store.HasConflict(ctx, hallIDs, b.EventDate, b.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, fmt.Errorf("%w: another booking already holds a requested hall for %s",
				model.ErrInventoryConflict, b.EventDate.Format("2006-01-02"))
		}
	}

	var notes *string
	if comment != "" {
		notes = &comment
	}
	swapped, err := o.store.UpdateStatus(ctx, b.ID, b.Status, next, notes)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: booking %d is no longer %s", model.ErrInvalidTransition, b.ID, b.Status)
	}

	o.publish(ctx, queue.BookingAuditEvent{
		BookingID:      b.ID,
		ActorID:        actorID,
		ActorRole:      string(role),
		Decision:       string(decision),
		PreviousStatus: string(b.Status),
		NextStatus:     string(next),
		Comment:        comment,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})

	b.Status = next
	if notes != nil {
		b.Notes = notes
	}
	return b, nil
}

// SignalPaymentCompleted moves a booking from PAYMENT_REQUESTED to
// PAYMENT_COMPLETED.  It is invoked by the payment collaborator once
// funds are confirmed and is the only transition not gated by a role.
func (o *Orchestrator) SignalPaymentCompleted(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := o.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.StatusPaymentRequested {
		return nil, fmt.Errorf("%w: payment completion signalled while booking %d is %s",
			model.ErrInvalidTransition, b.ID, b.Status)
	}
	swapped, err := o.store.UpdateStatus(ctx, b.ID, model.StatusPaymentRequested, model.StatusPaymentCompleted, nil)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: booking %d is no longer %s", model.ErrInvalidTransition, b.ID, b.Status)
	}

	o.publish(ctx, queue.BookingAuditEvent{
		BookingID:      b.ID,
		ActorRole:      "SYSTEM",
		Decision:       "payment-completed",
		PreviousStatus: string(model.StatusPaymentRequested),
		NextStatus:     string(model.StatusPaymentCompleted),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})

	b.Status = model.StatusPaymentCompleted
	return b, nil
}

// publish emits an audit event.  Broker failures are logged, not
// propagated: the status mutation already committed and the audit
// collaborator tolerates gaps.
func (o *Orchestrator) publish(ctx context.Context, ev queue.BookingAuditEvent) {
	if o.audit == nil {
		return
	}
	if err := o.audit.PublishAudit(ctx, ev); err != nil {
		log.Printf("workflow: audit publish failed for booking %d: %v", ev.BookingID, err)
	}
}

// dedupe returns the distinct, non-zero hall IDs preserving order.
func dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func hallIDsOf(b *model.Booking) []uint64 {
	ids := make([]uint64, 0, len(b.Halls))
	for _, h := range b.Halls {
		ids = append(ids, h.HallID)
	}
	return ids
}
