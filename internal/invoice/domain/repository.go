package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Status   InvoiceStatus
	ClientID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter) ([]*Invoice, error)
	// FindCollectionCandidates returns overdue, not-yet-escalated invoices
	// ordered by due date ascending (oldest debt first).
	FindCollectionCandidates(ctx context.Context, db *gorm.DB, limit int) ([]*Invoice, error)
	FindOverdue(ctx context.Context, db *gorm.DB) ([]*Invoice, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, method string, now time.Time) (bool, error)
	SweepOverdue(ctx context.Context, db *gorm.DB, today time.Time) (int64, error)
	RecordReminder(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error
	// MarkEscalated sets escalated_to_legal once. Returns false when the flag
	// was already set, which callers must treat as "do not escalate again".
	MarkEscalated(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
}
