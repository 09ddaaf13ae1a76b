package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
)

// HallRepo provides read access to the banquet hall catalogue.  Halls
// are seeded out of band; the service never creates or mutates them.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// HallFilter narrows the catalogue listing.  Zero values mean "no
// filter".  Date, when set (YYYY-MM-DD), excludes halls already locked
// by a booking for that date.
type HallFilter struct {
	City        string
	MinCapacity uint32
	Date        string
}

// GetByID retrieves a hall by its ID.  It returns an error wrapping
// model.ErrNotFound when no row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, name, description, capacity, base_price_cents, address, city, state,
	                  amenities, is_active, created_at, updated_at
	           FROM halls WHERE id = ?`
	var h model.Hall
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &desc, &h.Capacity, &h.BasePrice,
		&h.Address, &h.City, &h.State, &h.Amenities, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: hall %d", model.ErrNotFound, id)
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	return &h, nil
}

// List returns active halls matching the filter, ordered by name.
// With a date filter, halls held by a booking in a locking status for
// that date are skipped so customers only see bookable inventory.
func (r *HallRepo) List(ctx context.Context, f HallFilter) ([]model.Hall, error) {
	query := `SELECT id, name, description, capacity, base_price_cents, address, city, state,
	                 amenities, is_active, created_at, updated_at
	          FROM halls WHERE is_active = 1`
	args := make([]interface{}, 0, 4)
	if f.City != "" {
		query += ` AND LOWER(city) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.City)+"%")
	}
	if f.MinCapacity > 0 {
		query += ` AND capacity >= ?`
		args = append(args, f.MinCapacity)
	}
	if f.Date != "" {
		statusPh := strings.TrimSuffix(strings.Repeat("?,", len(model.LockingStatuses)), ",")
		query += ` AND id NOT IN (
		             SELECT hr.hall_id
		             FROM hall_reservations hr
		             JOIN bookings b ON b.id = hr.booking_id
		             WHERE b.event_date = ? AND b.status IN (` + statusPh + `))`
		args = append(args, f.Date)
		for _, s := range model.LockingStatuses {
			args = append(args, string(s))
		}
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	halls := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		var desc sql.NullString
		if err := rows.Scan(&h.ID, &h.Name, &desc, &h.Capacity, &h.BasePrice,
			&h.Address, &h.City, &h.State, &h.Amenities, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			h.Description = &d
		}
		halls = append(halls, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return halls, nil
}
