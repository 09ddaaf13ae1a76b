package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/queue"
)

// --- mocks -----------------------------------------------------------------

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, b *model.Booking, hallIDs []uint64) error {
	args := m.Called(ctx, b, hallIDs)
	return args.Error(0)
}

func (m *mockStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*model.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus, notes *string) (bool, error) {
	args := m.Called(ctx, id, from, to, notes)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) HasConflict(ctx context.Context, hallIDs []uint64, date time.Time, excludeID uint64) (bool, error) {
	args := m.Called(ctx, hallIDs, date, excludeID)
	return args.Bool(0), args.Error(1)
}

type mockLocker struct{ mock.Mock }

func (m *mockLocker) AcquireAll(ctx context.Context, hallIDs []uint64, date time.Time) (func(), error) {
	args := m.Called(ctx, hallIDs, date)
	if f, ok := args.Get(0).(func()); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingPublisher captures emitted audit events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingAuditEvent
}

func (p *recordingPublisher) PublishAudit(_ context.Context, ev queue.BookingAuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func validInput() CreateBookingInput {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return CreateBookingInput{
		CustomerID: 7,
		EventType:  model.EventWedding,
		EventDate:  date,
		StartTime:  date.Add(18 * time.Hour),
		EndTime:    date.Add(23 * time.Hour),
		GuestCount: 150,
		HallIDs:    []uint64{1},
	}
}

// --- creation --------------------------------------------------------------

func TestCreateBooking_ValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"unknown event type", func(in *CreateBookingInput) { in.EventType = "RAVE" }},
		{"zero event date", func(in *CreateBookingInput) { in.EventDate = time.Time{} }},
		{"start equals end", func(in *CreateBookingInput) { in.EndTime = in.StartTime }},
		{"start after end", func(in *CreateBookingInput) { in.StartTime = in.EndTime.Add(time.Hour) }},
		{"zero guests", func(in *CreateBookingInput) { in.GuestCount = 0 }},
		{"no halls", func(in *CreateBookingInput) { in.HallIDs = nil }},
		{"only zero hall ids", func(in *CreateBookingInput) { in.HallIDs = []uint64{0, 0} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(mockStore)
			orch := NewOrchestrator(store, nil, nil)

			in := validInput()
			tc.mutate(&in)

			b, err := orch.CreateBooking(context.Background(), in)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			store.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_StartsPending(t *testing.T) {
	store := new(mockStore)
	orch := NewOrchestrator(store, nil, nil)
	in := validInput()

	store.On("HasConflict", mock.Anything, []uint64{1}, in.EventDate, uint64(0)).Return(false, nil)
	store.On("Create", mock.Anything, mock.AnythingOfType("*model.Booking"), []uint64{1}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Booking).ID = 42
		}).
		Return(nil)

	b, err := orch.CreateBooking(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, in.CustomerID, b.CustomerID)
	assert.Equal(t, model.EventWedding, b.EventType)
	store.AssertExpectations(t)
}

func TestCreateBooking_DeduplicatesHallIDs(t *testing.T) {
	store := new(mockStore)
	orch := NewOrchestrator(store, nil, nil)
	in := validInput()
	in.HallIDs = []uint64{3, 1, 3, 0, 1}

	store.On("HasConflict", mock.Anything, []uint64{3, 1}, in.EventDate, uint64(0)).Return(false, nil)
	store.On("Create", mock.Anything, mock.Anything, []uint64{3, 1}).Return(nil)

	_, err := orch.CreateBooking(context.Background(), in)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCreateBooking_RejectsOccupiedHall(t *testing.T) {
	store := new(mockStore)
	orch := NewOrchestrator(store, nil, nil)
	in := validInput()

	store.On("HasConflict", mock.Anything, []uint64{1}, in.EventDate, uint64(0)).Return(true, nil)

	b, err := orch.CreateBooking(context.Background(), in)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, model.ErrInventoryConflict)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// --- decisions -------------------------------------------------------------

func pendingBooking() *model.Booking {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &model.Booking{
		ID:         42,
		CustomerID: 7,
		EventType:  model.EventWedding,
		EventDate:  date,
		StartTime:  date.Add(18 * time.Hour),
		EndTime:    date.Add(23 * time.Hour),
		GuestCount: 150,
		Status:     model.StatusPending,
		Halls:      []model.HallReservation{{ID: 1, BookingID: 42, HallID: 1}},
	}
}

func TestAct_WrongLevelLeavesBookingUntouched(t *testing.T) {
	store := new(mockStore)
	orch := NewOrchestrator(store, nil, nil)
	b := pendingBooking()
	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)

	got, err := orch.Act(context.Background(), b.ID, 100, model.RoleAdmin2, DecisionApprove, "")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAct_PromotionRevalidatesInventory(t *testing.T) {
	store := new(mockStore)
	locker := new(mockLocker)
	audit := &recordingPublisher{}
	orch := NewOrchestrator(store, locker, audit)
	b := pendingBooking()

	released := false
	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	locker.On("AcquireAll", mock.Anything, []uint64{1}, b.EventDate).
		Return(func() { released = true }, nil)
	store.On("HasConflict", mock.Anything, []uint64{1}, b.EventDate, b.ID).Return(false, nil)
	store.On("UpdateStatus", mock.Anything, b.ID, model.StatusPending, model.StatusApproved, (*string)(nil)).
		Return(true, nil)

	got, err := orch.Act(context.Background(), b.ID, 100, model.RoleAdmin1, DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.True(t, released, "hall/date lock was not released")

	require.Len(t, audit.events, 1)
	ev := audit.events[0]
	assert.Equal(t, b.ID, ev.BookingID)
	assert.Equal(t, uint64(100), ev.ActorID)
	assert.Equal(t, string(model.RoleAdmin1), ev.ActorRole)
	assert.Equal(t, string(model.StatusPending), ev.PreviousStatus)
	assert.Equal(t, string(model.StatusApproved), ev.NextStatus)
	store.AssertExpectations(t)
	locker.AssertExpectations(t)
}

// Two PENDING bookings on the same hall/date may coexist; only one may
// be promoted.  The loser fails the re-check and stays PENDING.
func TestAct_PromotionLosesToEarlierApproval(t *testing.T) {
	store := new(mockStore)
	audit := &recordingPublisher{}
	orch := NewOrchestrator(store, nil, audit)
	b := pendingBooking()

	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	store.On("HasConflict", mock.Anything, []uint64{1}, b.EventDate, b.ID).Return(true, nil)

	got, err := orch.Act(context.Background(), b.ID, 100, model.RoleAdmin1, DecisionApprove, "")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrInventoryConflict)
	assert.Empty(t, audit.events)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAct_HeldLockAbortsPromotion(t *testing.T) {
	store := new(mockStore)
	locker := new(mockLocker)
	orch := NewOrchestrator(store, locker, nil)
	b := pendingBooking()

	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	locker.On("AcquireAll", mock.Anything, []uint64{1}, b.EventDate).
		Return(nil, model.ErrInventoryConflict)

	_, err := orch.Act(context.Background(), b.ID, 100, model.RoleAdmin1, DecisionApprove, "")
	assert.ErrorIs(t, err, model.ErrInventoryConflict)
	store.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A decision that arrives after the booking already moved on fails on
// the compare-and-swap, so replaying the same approval is harmless.
func TestAct_LostCompareAndSwapFails(t *testing.T) {
	store := new(mockStore)
	audit := &recordingPublisher{}
	orch := NewOrchestrator(store, nil, audit)

	b := pendingBooking()
	b.Status = model.StatusApproved
	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	store.On("UpdateStatus", mock.Anything, b.ID, model.StatusApproved, model.StatusPaymentRequested, (*string)(nil)).
		Return(false, nil)

	got, err := orch.Act(context.Background(), b.ID, 200, model.RoleAdmin2, DecisionApprove, "")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Empty(t, audit.events)
}

func TestAct_RequestChangeRecordsComment(t *testing.T) {
	store := new(mockStore)
	audit := &recordingPublisher{}
	orch := NewOrchestrator(store, nil, audit)
	b := pendingBooking()

	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	store.On("UpdateStatus", mock.Anything, b.ID, model.StatusPending, model.StatusChangeRequested,
		mock.MatchedBy(func(notes *string) bool { return notes != nil && *notes == "halve the guest count" })).
		Return(true, nil)

	got, err := orch.Act(context.Background(), b.ID, 100, model.RoleAdmin1, DecisionRequestChange, "halve the guest count")
	require.NoError(t, err)
	assert.Equal(t, model.StatusChangeRequested, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "halve the guest count", *got.Notes)

	require.Len(t, audit.events, 1)
	assert.Equal(t, "halve the guest count", audit.events[0].Comment)
}

func TestAct_MissingBooking(t *testing.T) {
	store := new(mockStore)
	orch := NewOrchestrator(store, nil, nil)
	store.On("GetByID", mock.Anything, uint64(999)).Return(nil, model.ErrNotFound)

	_, err := orch.Act(context.Background(), 999, 100, model.RoleAdmin1, DecisionApprove, "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAct_StoreFailurePropagates(t *testing.T) {
	store := new(mockStore)
	orch := NewOrchestrator(store, nil, nil)
	b := pendingBooking()
	b.Status = model.StatusApproved
	boom := errors.New("connection reset")

	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	store.On("UpdateStatus", mock.Anything, b.ID, model.StatusApproved, model.StatusRejected, (*string)(nil)).
		Return(false, boom)

	_, err := orch.Act(context.Background(), b.ID, 200, model.RoleAdmin2, DecisionReject, "")
	assert.ErrorIs(t, err, boom)
}

// --- payment signal --------------------------------------------------------

func TestSignalPaymentCompleted(t *testing.T) {
	store := new(mockStore)
	audit := &recordingPublisher{}
	orch := NewOrchestrator(store, nil, audit)

	b := pendingBooking()
	b.Status = model.StatusPaymentRequested
	store.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	store.On("UpdateStatus", mock.Anything, b.ID, model.StatusPaymentRequested, model.StatusPaymentCompleted, (*string)(nil)).
		Return(true, nil)

	got, err := orch.SignalPaymentCompleted(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaymentCompleted, got.Status)

	require.Len(t, audit.events, 1)
	assert.Equal(t, "SYSTEM", audit.events[0].ActorRole)
	assert.Equal(t, "payment-completed", audit.events[0].Decision)
}

func TestSignalPaymentCompleted_WrongStatus(t *testing.T) {
	for _, s := range []model.BookingStatus{
		model.StatusPending, model.StatusApproved, model.StatusPaymentCompleted, model.StatusConfirmed,
	} {
		store := new(mockStore)
		orch := NewOrchestrator(store, nil, nil)
		b := pendingBooking()
		b.Status = s
		store.On("GetByID", mock.Anything, b.ID).Return(b, nil)

		_, err := orch.SignalPaymentCompleted(context.Background(), b.ID)
		assert.ErrorIs(t, err, model.ErrInvalidTransition, "status %s", s)
		store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

// --- full pipeline over an in-memory store ---------------------------------

type memStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, bookings: make(map[uint64]*model.Booking)}
}

func (s *memStore) Create(_ context.Context, b *model.Booking, hallIDs []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	for _, id := range hallIDs {
		b.Halls = append(b.Halls, model.HallReservation{BookingID: b.ID, HallID: id})
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uint64, from, to model.BookingStatus, notes *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	if notes != nil {
		b.Notes = notes
	}
	return true, nil
}

func (s *memStore) HasConflict(_ context.Context, hallIDs []uint64, date time.Time, excludeID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[uint64]struct{}, len(hallIDs))
	for _, id := range hallIDs {
		want[id] = struct{}{}
	}
	for _, b := range s.bookings {
		if b.ID == excludeID || !b.Status.IsLocking() || !b.EventDate.Equal(date) {
			continue
		}
		for _, h := range b.Halls {
			if _, ok := want[h.HallID]; ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// TestFullApprovalPipeline walks one booking through the whole happy
// path and then shows a second booking for the same hall/date being
// shut out at creation time.
func TestFullApprovalPipeline(t *testing.T) {
	store := newMemStore()
	audit := &recordingPublisher{}
	orch := NewOrchestrator(store, nil, audit)
	ctx := context.Background()

	b, err := orch.CreateBooking(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, b.Status)

	b, err = orch.Act(ctx, b.ID, 100, model.RoleAdmin1, DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, b.Status)

	// The approved booking now locks its hall for the date.
	_, err = orch.CreateBooking(ctx, validInput())
	assert.ErrorIs(t, err, model.ErrInventoryConflict)

	b, err = orch.Act(ctx, b.ID, 200, model.RoleAdmin2, DecisionApprove, "price set")
	require.NoError(t, err)
	require.Equal(t, model.StatusPaymentRequested, b.Status)

	b, err = orch.SignalPaymentCompleted(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPaymentCompleted, b.Status)

	b, err = orch.Act(ctx, b.ID, 300, model.RoleAdmin3, DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.True(t, b.Status.IsTerminal())

	// Replaying the final approval must not move anything.
	_, err = orch.Act(ctx, b.ID, 300, model.RoleAdmin3, DecisionApprove, "")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	assert.Len(t, audit.events, 4)
}

// mutexLocker serialises promotions the way the Redis hall/date lock
// does in production.
type mutexLocker struct{ mu sync.Mutex }

func (l *mutexLocker) AcquireAll(context.Context, []uint64, time.Time) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

// TestConcurrentPromotionOnlyOneWins creates two PENDING bookings for
// the same hall/date and lets two approvals race under the lock.
// Exactly one must end APPROVED.
func TestConcurrentPromotionOnlyOneWins(t *testing.T) {
	store := newMemStore()
	orch := NewOrchestrator(store, &mutexLocker{}, nil)
	ctx := context.Background()

	first, err := orch.CreateBooking(ctx, validInput())
	require.NoError(t, err)
	second, err := orch.CreateBooking(ctx, validInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint64{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id uint64) {
			defer wg.Done()
			_, errs[i] = orch.Act(ctx, id, 100, model.RoleAdmin1, DecisionApprove, "")
		}(i, id)
	}
	wg.Wait()

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
		} else {
			assert.ErrorIs(t, err, model.ErrInventoryConflict)
		}
	}
	assert.Equal(t, 1, approved, "exactly one of two racing promotions may win")
}
