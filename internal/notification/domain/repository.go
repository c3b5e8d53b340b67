package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists staff lookups and notification rows.
type Repository interface {
	ListAdminStaffIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
	InsertNotifications(ctx context.Context, db *gorm.DB, rows []Notification) error
}
