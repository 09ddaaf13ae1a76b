package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Predicates(t *testing.T) {
	locking := map[BookingStatus]bool{
		StatusApproved:         true,
		StatusPaymentRequested: true,
		StatusPaymentCompleted: true,
		StatusConfirmed:        true,
	}
	terminal := map[BookingStatus]bool{
		StatusRejected:  true,
		StatusConfirmed: true,
	}
	all := []BookingStatus{
		StatusPending, StatusChangeRequested, StatusApproved, StatusRejected,
		StatusPaymentRequested, StatusPaymentCompleted, StatusConfirmed,
	}
	for _, s := range all {
		assert.True(t, s.IsValid(), "%s", s)
		assert.Equal(t, locking[s], s.IsLocking(), "IsLocking(%s)", s)
		assert.Equal(t, terminal[s], s.IsTerminal(), "IsTerminal(%s)", s)
	}
	assert.False(t, BookingStatus("DRAFT").IsValid())
	assert.False(t, BookingStatus("").IsLocking())

	// LockingStatuses is what the conflict query filters on; it must
	// agree with the predicate.
	assert.Len(t, LockingStatuses, 4)
	for _, s := range LockingStatuses {
		assert.True(t, s.IsLocking(), "%s", s)
	}
}

func TestEventType_IsValid(t *testing.T) {
	for _, et := range []EventType{
		EventWedding, EventCorporateEvent, EventBirthday, EventAnniversary,
		EventConference, EventConcert, EventOther,
	} {
		assert.True(t, et.IsValid(), "%s", et)
	}
	assert.False(t, EventType("FUNERAL").IsValid())
	assert.False(t, EventType("").IsValid())
}

func TestRole_Predicates(t *testing.T) {
	assert.True(t, RoleAdmin1.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleCustomer.IsAdmin())
	assert.True(t, RoleCustomer.IsValid())
	assert.False(t, Role("ROOT").IsValid())
}
