package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
)

// PaymentRepo provides persistence for payment records.  The workflow
// only consumes the completion signal; everything else here exists so
// the payment collaborator endpoints can track state and invoices.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a payment row in INITIATED state.  The booking_id
// column is unique, so a second initiation for the same booking fails
// at the database; callers should look the existing row up first.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, customer_id, amount_cents, status, gateway_ref)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.BookingID, p.CustomerID, p.Amount, string(p.Status), p.GatewayRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const sel = `SELECT created_at, updated_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a payment by its ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, customer_id, amount_cents, status, gateway_ref,
	                  transaction_id, invoice_number, created_at, updated_at
	           FROM payments WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id), id)
}

// GetByBookingID retrieves the payment attached to a booking, if any.
func (r *PaymentRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, customer_id, amount_cents, status, gateway_ref,
	                  transaction_id, invoice_number, created_at, updated_at
	           FROM payments WHERE booking_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, bookingID), bookingID)
}

// RecordResult stores the gateway verification outcome: the final
// status, the gateway transaction id and, for completed payments, the
// generated invoice number.
func (r *PaymentRepo) RecordResult(ctx context.Context, id uint64, status model.PaymentStatus, transactionID string, invoiceNumber *string) error {
	const q = `UPDATE payments SET status = ?, transaction_id = ?, invoice_number = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), transactionID, invoiceNumber, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: payment %d", model.ErrNotFound, id)
	}
	return nil
}

func (r *PaymentRepo) scanOne(row *sql.Row, id uint64) (*model.Payment, error) {
	var p model.Payment
	var status string
	var txID, invoice sql.NullString
	err := row.Scan(&p.ID, &p.BookingID, &p.CustomerID, &p.Amount, &status, &p.GatewayRef,
		&txID, &invoice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment for id %d", model.ErrNotFound, id)
		}
		return nil, err
	}
	p.Status = model.PaymentStatus(status)
	if txID.Valid {
		v := txID.String
		p.TransactionID = &v
	}
	if invoice.Valid {
		v := invoice.String
		p.InvoiceNumber = &v
	}
	return &p, nil
}
