// Package domain contains the collection action log shared by the
// orchestrator and the reporting layer.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/collection/rules"
)

var (
	ErrDuplicateAction = errors.New("duplicate_collection_action")
)

// ActionStatus tracks the lifecycle of a logged collection action.
type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusFailed    ActionStatus = "failed"
)

// CollectionAction is one attempted step of the collection ladder.
// The unique index on (invoice_id, action_type, action_date) is what
// makes the daily dedup hold under concurrent runs: the second writer
// hits the index, not the read-then-write gap.
type CollectionAction struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	InvoiceID    snowflake.ID `gorm:"not null;uniqueIndex:idx_collection_actions_dedup,priority:1"`
	ActionType   rules.Action `gorm:"type:text;not null;uniqueIndex:idx_collection_actions_dedup,priority:2"`
	ActionDate   string       `gorm:"type:text;not null;uniqueIndex:idx_collection_actions_dedup,priority:3"`
	Status       ActionStatus `gorm:"type:text;not null;default:'pending'"`
	ScheduledFor time.Time    `gorm:"not null"`
	ExecutedAt   *time.Time   `gorm:""`
	Result       string       `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CollectionAction) TableName() string { return "collection_actions" }

// ActionDate formats a timestamp as the calendar-day key used by the
// dedup index.
func ActionDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ActionRepository persists the collection action log.
type ActionRepository interface {
	// InsertAction claims the (invoice, action, day) slot. It returns
	// ErrDuplicateAction when another run already claimed it.
	InsertAction(ctx context.Context, db *gorm.DB, action *CollectionAction) error
	// HasRecentAction reports whether any action of the given type was
	// logged for the invoice within the window ending at now.
	HasRecentAction(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, actionType rules.Action, now time.Time, window time.Duration) (bool, error)
	// CompleteAction records the outcome of a claimed action.
	CompleteAction(ctx context.Context, db *gorm.DB, id snowflake.ID, status ActionStatus, result string, executedAt time.Time) error
}
