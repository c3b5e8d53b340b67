package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/pkg/db"
)

type repo struct{}

func Provide() domain.ActionRepository {
	return &repo{}
}

func (r *repo) InsertAction(ctx context.Context, gdb *gorm.DB, action *domain.CollectionAction) error {
	err := gdb.WithContext(ctx).Create(action).Error
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateAction
		}
		return err
	}
	return nil
}

func (r *repo) HasRecentAction(ctx context.Context, gdb *gorm.DB, invoiceID snowflake.ID, actionType rules.Action, now time.Time, window time.Duration) (bool, error) {
	var count int64
	err := gdb.WithContext(ctx).
		Model(&domain.CollectionAction{}).
		Where("invoice_id = ? AND action_type = ? AND created_at >= ?", invoiceID, actionType, now.Add(-window)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) CompleteAction(ctx context.Context, gdb *gorm.DB, id snowflake.ID, status domain.ActionStatus, result string, executedAt time.Time) error {
	return gdb.WithContext(ctx).Exec(
		`UPDATE collection_actions
		 SET status = ?, result = ?, executed_at = ?
		 WHERE id = ?`,
		status,
		result,
		executedAt,
		id,
	).Error
}
