package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists legal cases.
type Repository interface {
	InsertCase(ctx context.Context, db *gorm.DB, c *LegalCase) error
	FindByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*LegalCase, error)
	ListOpen(ctx context.Context, db *gorm.DB) ([]LegalCase, error)
}
