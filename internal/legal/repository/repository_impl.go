package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/legal/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertCase(ctx context.Context, db *gorm.DB, c *domain.LegalCase) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) FindByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*domain.LegalCase, error) {
	var c domain.LegalCase
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM legal_cases WHERE invoice_id = ?`,
		invoiceID,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) ListOpen(ctx context.Context, db *gorm.DB) ([]domain.LegalCase, error) {
	var cases []domain.LegalCase
	err := db.WithContext(ctx).
		Model(&domain.LegalCase{}).
		Where("status = ?", domain.CaseStatusOpen).
		Order("created_at asc, id asc").
		Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}
