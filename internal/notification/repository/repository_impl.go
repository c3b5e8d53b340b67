package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/notification/domain"
)

type repo struct{}

// Provide returns the notification repository.
func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListAdminStaffIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.Staff{}).
		Where("role IN ?", []domain.StaffRole{domain.StaffRoleAdmin, domain.StaffRoleSuperAdmin}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) InsertNotifications(ctx context.Context, db *gorm.DB, rows []domain.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}
