package domain

import (
	"context"
	"errors"
	"time"
)

type ListInvoiceRequest struct {
	Status      string
	ClientID    string
	OverdueOnly bool
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type MarkAsPaidRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type Service interface {
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	// MarkAsPaid sets status=paid and paid_at. Paid invoices are never selected
	// by the collection batch again.
	MarkAsPaid(ctx context.Context, id string, req MarkAsPaidRequest) (Invoice, error)
	// SweepOverdue moves every pending invoice whose due date is before today
	// into status=overdue. Re-running is naturally idempotent.
	SweepOverdue(ctx context.Context) (int64, error)
}

// DaysOverdue computes whole days between now and the due date, rounding any
// partial day up. An invoice due yesterday is 1 day overdue.
func DaysOverdue(dueDate, now time.Time) int {
	diff := now.Sub(dueDate)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrInvalidID     = errors.New("invalid_invoice_id")
	ErrInvalidStatus = errors.New("invalid_invoice_status")
	ErrAlreadyPaid   = errors.New("invoice_already_paid")
)
