package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their hall
// reservations.  It implements workflow.BookingStore.  All timestamp
// fields are stored in UTC; event_date is a DATE column.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// Create inserts the booking and one hall_reservations row per hall ID
// in a single transaction.  On success the generated ID and the
// database-assigned timestamps are populated on b and b.Halls is
// filled with the created reservations (allocated price unset).
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, hallIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO bookings
	                 (customer_id, event_type, event_date, start_time, end_time, guest_count, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		b.CustomerID, string(b.EventType), b.EventDate.Format("2006-01-02"),
		b.StartTime.UTC(), b.EndTime.UTC(), b.GuestCount, string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(hallIDs) > 0 {
		query := `INSERT INTO hall_reservations (booking_id, hall_id, allocated_price_cents) VALUES `
		args := make([]interface{}, 0, len(hallIDs)*3)
		for i, hid := range hallIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, 0)"
			args = append(args, b.ID, hid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	// Query back the full row to populate timestamps and defaults.
	const qSelect = `SELECT status, notes, created_at, updated_at FROM bookings WHERE id = ?`
	var status string
	var notes sql.NullString
	if err := tx.QueryRowContext(ctx, qSelect, b.ID).Scan(&status, &notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	b.Status = model.BookingStatus(status)
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	b.Halls = make([]model.HallReservation, 0, len(hallIDs))
	for _, hid := range hallIDs {
		b.Halls = append(b.Halls, model.HallReservation{BookingID: b.ID, HallID: hid})
	}
	return nil
}

// GetByID loads a booking with its hall reservations.  A missing
// booking yields an error wrapping model.ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, customer_id, event_type, event_date, start_time, end_time,
	                  guest_count, status, notes, created_at, updated_at
	           FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", model.ErrNotFound, id)
		}
		return nil, err
	}

	const hallQ = `SELECT hr.id, hr.booking_id, hr.hall_id, hr.allocated_price_cents, hr.created_at, h.name
	               FROM hall_reservations hr
	               JOIN halls h ON h.id = hr.hall_id
	               WHERE hr.booking_id = ?
	               ORDER BY hr.id`
	rows, err := r.db.QueryContext(ctx, hallQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var hr model.HallReservation
		if err := rows.Scan(&hr.ID, &hr.BookingID, &hr.HallID, &hr.AllocatedPrice, &hr.CreatedAt, &hr.HallName); err != nil {
			return nil, err
		}
		b.Halls = append(b.Halls, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus performs a compare-and-swap of the booking status.  The
// UPDATE only matches when the row still carries the expected status,
// so of two concurrent actors starting from the same status exactly
// one wins; the other observes false.  Notes, when non-nil, replace
// the stored notes in the same statement.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus, notes *string) (bool, error) {
	var res sql.Result
	var err error
	if notes != nil {
		const q = `UPDATE bookings SET status = ?, notes = ? WHERE id = ? AND status = ?`
		res, err = r.db.ExecContext(ctx, q, string(to), *notes, id, string(from))
	} else {
		const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
		res, err = r.db.ExecContext(ctx, q, string(to), id, string(from))
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasConflict reports whether any of the given halls is reserved on
// the date by a booking in a locking status.  Absence of rows means
// no conflict; this is a read-only check with no failure mode beyond
// database errors.  The booking with excludeID is ignored so a
// booking never conflicts with itself during promotion.
func (r *BookingRepo) HasConflict(ctx context.Context, hallIDs []uint64, date time.Time, excludeID uint64) (bool, error) {
	if len(hallIDs) == 0 {
		return false, nil
	}
	hallPh := strings.TrimSuffix(strings.Repeat("?,", len(hallIDs)), ",")
	statusPh := strings.TrimSuffix(strings.Repeat("?,", len(model.LockingStatuses)), ",")
	query := `SELECT EXISTS (
	            SELECT 1
	            FROM hall_reservations hr
	            JOIN bookings b ON b.id = hr.booking_id
	            WHERE hr.hall_id IN (` + hallPh + `)
	              AND b.event_date = ?
	              AND b.status IN (` + statusPh + `)
	              AND b.id <> ?)`
	args := make([]interface{}, 0, len(hallIDs)+len(model.LockingStatuses)+2)
	for _, hid := range hallIDs {
		args = append(args, hid)
	}
	args = append(args, date.Format("2006-01-02"))
	for _, s := range model.LockingStatuses {
		args = append(args, string(s))
	}
	args = append(args, excludeID)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByCustomer returns all bookings of one customer, newest first,
// each with its hall reservations populated.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	const q = `SELECT id, customer_id, event_type, event_date, start_time, end_time,
	                  guest_count, status, notes, created_at, updated_at
	           FROM bookings WHERE customer_id = ?
	           ORDER BY created_at DESC`
	return r.listWithHalls(ctx, q, customerID)
}

// ListByStatuses returns every booking whose status is in the given
// set, oldest first so admins work the queue in arrival order.
func (r *BookingRepo) ListByStatuses(ctx context.Context, statuses []model.BookingStatus) ([]model.Booking, error) {
	if len(statuses) == 0 {
		return []model.Booking{}, nil
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	query := `SELECT id, customer_id, event_type, event_date, start_time, end_time,
	                 guest_count, status, notes, created_at, updated_at
	          FROM bookings WHERE status IN (` + ph + `)
	          ORDER BY created_at ASC`
	args := make([]interface{}, 0, len(statuses))
	for _, s := range statuses {
		args = append(args, string(s))
	}
	return r.listWithHalls(ctx, query, args...)
}

// SetAllocatedPrice stores the price an admin allocates to one hall
// reservation of a booking.  It returns model.ErrNotFound when the
// booking/hall pair does not exist.
func (r *BookingRepo) SetAllocatedPrice(ctx context.Context, bookingID, hallID, priceCents uint64) error {
	const q = `UPDATE hall_reservations SET allocated_price_cents = ? WHERE booking_id = ? AND hall_id = ?`
	res, err := r.db.ExecContext(ctx, q, priceCents, bookingID, hallID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no reservation of hall %d under booking %d", model.ErrNotFound, hallID, bookingID)
	}
	return nil
}

// Stats aggregates booking counts for the admin dashboard.
type Stats struct {
	Total            uint64 `json:"total_bookings"`
	PendingApprovals uint64 `json:"pending_approvals"`
	Approved         uint64 `json:"approved_bookings"`
	Rejected         uint64 `json:"rejected_bookings"`
}

// GetStats counts bookings overall and per dashboard bucket.
func (r *BookingRepo) GetStats(ctx context.Context) (Stats, error) {
	const q = `SELECT COUNT(*),
	                  COALESCE(SUM(status = 'PENDING'), 0),
	                  COALESCE(SUM(status = 'APPROVED'), 0),
	                  COALESCE(SUM(status = 'REJECTED'), 0)
	           FROM bookings`
	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.PendingApprovals, &s.Approved, &s.Rejected); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// listWithHalls runs a booking query and populates hall reservations
// for every returned booking in a single follow-up query.
func (r *BookingRepo) listWithHalls(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		index[b.ID] = len(bookings)
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]interface{}, 0, len(bookings))
	ph := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		ph = append(ph, "?")
	}
	hallQ := `SELECT hr.id, hr.booking_id, hr.hall_id, hr.allocated_price_cents, hr.created_at, h.name
	          FROM hall_reservations hr
	          JOIN halls h ON h.id = hr.hall_id
	          WHERE hr.booking_id IN (` + strings.Join(ph, ",") + `)
	          ORDER BY hr.booking_id, hr.id`
	hrows, err := r.db.QueryContext(ctx, hallQ, ids...)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var hr model.HallReservation
		if err := hrows.Scan(&hr.ID, &hr.BookingID, &hr.HallID, &hr.AllocatedPrice, &hr.CreatedAt, &hr.HallName); err != nil {
			return nil, err
		}
		if idx, ok := index[hr.BookingID]; ok {
			bookings[idx].Halls = append(bookings[idx].Halls, hr)
		}
	}
	if err := hrows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var eventType, status string
	var notes sql.NullString
	if err := row.Scan(&b.ID, &b.CustomerID, &eventType, &b.EventDate, &b.StartTime, &b.EndTime,
		&b.GuestCount, &status, &notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.EventType = model.EventType(eventType)
	b.Status = model.BookingStatus(status)
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return &b, nil
}
