package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vallegroup/valle360/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListInvoiceFilter) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).Model(&domain.Invoice{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	err := stmt.Order("due_date asc, id asc").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) FindCollectionCandidates(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices
		 WHERE status = ? AND escalated_to_legal = ?
		 ORDER BY due_date ASC, id ASC
		 LIMIT ?`,
		domain.InvoiceStatusOverdue,
		false,
		limit,
	).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) FindOverdue(ctx context.Context, db *gorm.DB) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ?", domain.InvoiceStatusOverdue).
		Order("due_date asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, method string, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET status = ?, paid_at = ?, payment_method = ?, updated_at = ?
		 WHERE id = ? AND status IN (?, ?, ?)`,
		domain.InvoiceStatusPaid,
		now,
		method,
		now,
		id,
		domain.InvoiceStatusPending,
		domain.InvoiceStatusSent,
		domain.InvoiceStatusOverdue,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) SweepOverdue(ctx context.Context, db *gorm.DB, today time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET status = ?, updated_at = ?
		 WHERE status = ? AND due_date < ?`,
		domain.InvoiceStatusOverdue,
		today,
		domain.InvoiceStatusPending,
		today,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repo) RecordReminder(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET reminder_count = reminder_count + 1, last_reminder_at = ?, updated_at = ?
		 WHERE id = ?`,
		now,
		now,
		id,
	).Error
}

func (r *repo) MarkEscalated(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET escalated_to_legal = ?, escalated_at = ?, updated_at = ?
		 WHERE id = ? AND escalated_to_legal = ?`,
		true,
		now,
		now,
		id,
		false,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
