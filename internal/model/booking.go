package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A booking
// starts in PENDING and is moved exclusively by the approval workflow.
// REJECTED and CONFIRMED are terminal; once reached the booking is
// immutable except for audit annotation.
type BookingStatus string

const (
	StatusPending          BookingStatus = "PENDING"           // awaiting level-1 verification
	StatusChangeRequested  BookingStatus = "CHANGE_REQUESTED"  // level-1 admin asked the customer to resubmit
	StatusApproved         BookingStatus = "APPROVED"          // cleared level-1, awaiting level-2
	StatusRejected         BookingStatus = "REJECTED"          // terminal
	StatusPaymentRequested BookingStatus = "PAYMENT_REQUESTED" // level-2 admin asked for payment
	StatusPaymentCompleted BookingStatus = "PAYMENT_COMPLETED" // payment collaborator confirmed funds
	StatusConfirmed        BookingStatus = "CONFIRMED"         // terminal
)

// bookingStatuses is the closed set of recognised statuses.
var bookingStatuses = map[BookingStatus]struct{}{
	StatusPending:          {},
	StatusChangeRequested:  {},
	StatusApproved:         {},
	StatusRejected:         {},
	StatusPaymentRequested: {},
	StatusPaymentCompleted: {},
	StatusConfirmed:        {},
}

// IsValid reports whether s is a member of the booking status enum.
func (s BookingStatus) IsValid() bool {
	_, ok := bookingStatuses[s]
	return ok
}

// IsTerminal reports whether no further transition is defined from s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusConfirmed
}

// LockingStatuses are the statuses in which a booking holds its halls
// exclusively for its event date.  Two PENDING requests for the same
// hall/date may coexist; only a booking that cleared level-1 review
// blocks the inventory.
var LockingStatuses = []BookingStatus{
	StatusApproved,
	StatusPaymentRequested,
	StatusPaymentCompleted,
	StatusConfirmed,
}

// IsLocking reports whether a booking in status s reserves hall
// inventory for its date.
func (s BookingStatus) IsLocking() bool {
	for _, l := range LockingStatuses {
		if s == l {
			return true
		}
	}
	return false
}

// EventType enumerates the kinds of events a hall can be booked for.
type EventType string

const (
	EventWedding        EventType = "WEDDING"
	EventCorporateEvent EventType = "CORPORATE_EVENT"
	EventBirthday       EventType = "BIRTHDAY"
	EventAnniversary    EventType = "ANNIVERSARY"
	EventConference     EventType = "CONFERENCE"
	EventConcert        EventType = "CONCERT"
	EventOther          EventType = "OTHER"
)

var eventTypes = map[EventType]struct{}{
	EventWedding:        {},
	EventCorporateEvent: {},
	EventBirthday:       {},
	EventAnniversary:    {},
	EventConference:     {},
	EventConcert:        {},
	EventOther:          {},
}

// IsValid reports whether t is a recognised event type.
func (t EventType) IsValid() bool {
	_, ok := eventTypes[t]
	return ok
}

// Booking represents one customer's request to reserve one or more
// banquet halls for an event on a single date.  Status is owned by the
// approval workflow and is never written by handlers directly.
//
// Fields:
//  ID         – primary key identifier.
//  CustomerID – user who placed the booking.
//  EventType  – kind of event (WEDDING, CONFERENCE, ...).
//  EventDate  – calendar date of the event (midnight UTC).
//  StartTime  – event start timestamp.
//  EndTime    – event end timestamp (always after StartTime).
//  GuestCount – expected number of guests (always > 0).
//  Status     – workflow state of the booking.
//  Notes      – free-text notes, updated alongside admin decisions.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64        `json:"id"`          // bookings.id
	CustomerID uint64        `json:"customer_id"` // bookings.customer_id
	EventType  EventType     `json:"event_type"`  // bookings.event_type
	EventDate  time.Time     `json:"event_date"`  // bookings.event_date (DATE)
	StartTime  time.Time     `json:"start_time"`  // bookings.start_time
	EndTime    time.Time     `json:"end_time"`    // bookings.end_time
	GuestCount uint32        `json:"guest_count"` // bookings.guest_count
	Status     BookingStatus `json:"status"`      // bookings.status
	Notes      *string       `json:"notes"`       // bookings.notes (nullable)
	CreatedAt  time.Time     `json:"created_at"`  // bookings.created_at
	UpdatedAt  time.Time     `json:"updated_at"`  // bookings.updated_at

	// Halls carries the hall allocations of the booking when loaded
	// with details.  It is nil for status-only reads.
	Halls []HallReservation `json:"halls,omitempty"`
}

// HallReservation links a booking to a single hall.  It is created
// atomically with its booking and never mutated afterwards except for
// AllocatedPrice, which an admin sets during review (zero until then).
//
// Fields:
//  ID             – primary key identifier.
//  BookingID      – reference to the parent booking.
//  HallID         – reference to the reserved hall.
//  AllocatedPrice – price in cents allocated by an admin; 0 means unset.
//  CreatedAt      – creation timestamp.
type HallReservation struct {
	ID             uint64    `json:"id"`              // hall_reservations.id
	BookingID      uint64    `json:"booking_id"`      // hall_reservations.booking_id
	HallID         uint64    `json:"hall_id"`         // hall_reservations.hall_id
	AllocatedPrice uint64    `json:"allocated_price"` // hall_reservations.allocated_price_cents
	CreatedAt      time.Time `json:"created_at"`      // hall_reservations.created_at

	// HallName is populated on detail reads for display purposes.
	HallName string `json:"hall_name,omitempty"`
}
