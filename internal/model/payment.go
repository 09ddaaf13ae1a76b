package model

import "time"

// PaymentStatus enumerates the states of a payment as reported by the
// payment collaborator.  The workflow itself only consumes the
// COMPLETED signal; the remaining states exist for display.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// IsValid reports whether s is a recognised payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentInitiated, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment records one payment attempt for a booking.  At most one
// payment exists per booking.  GatewayRef is the mock gateway
// reference issued at initiation; TransactionID and InvoiceNumber are
// filled in on verification.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking the payment belongs to (unique).
//  CustomerID    – paying customer.
//  Amount        – amount in cents.
//  Status        – payment state reported by the gateway.
//  GatewayRef    – reference handed out by the gateway at initiation.
//  TransactionID – gateway transaction id, set on verification (nullable).
//  InvoiceNumber – invoice number, set when the payment completes (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Payment struct {
	ID            uint64        `json:"id"`             // payments.id
	BookingID     uint64        `json:"booking_id"`     // payments.booking_id
	CustomerID    uint64        `json:"customer_id"`    // payments.customer_id
	Amount        uint64        `json:"amount"`         // payments.amount_cents
	Status        PaymentStatus `json:"status"`         // payments.status
	GatewayRef    string        `json:"gateway_ref"`    // payments.gateway_ref
	TransactionID *string       `json:"transaction_id"` // payments.transaction_id (nullable)
	InvoiceNumber *string       `json:"invoice_number"` // payments.invoice_number (nullable)
	CreatedAt     time.Time     `json:"created_at"`     // payments.created_at
	UpdatedAt     time.Time     `json:"updated_at"`     // payments.updated_at
}
