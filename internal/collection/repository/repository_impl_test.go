package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/collection/rules"
)

func setupRepo(t *testing.T) (domain.ActionRepository, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.CollectionAction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return Provide(), db, node
}

func newAction(node *snowflake.Node, invoiceID snowflake.ID, action rules.Action, at time.Time) *domain.CollectionAction {
	return &domain.CollectionAction{
		ID:           node.Generate(),
		InvoiceID:    invoiceID,
		ActionType:   action,
		ActionDate:   domain.ActionDate(at),
		Status:       domain.ActionStatusPending,
		ScheduledFor: at,
		CreatedAt:    at,
	}
}

func TestInsertActionClaimsDailySlot(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 2, 16, 9, 0, 0, 0, time.UTC)
	invoiceID := node.Generate()

	require.NoError(t, repo.InsertAction(ctx, db, newAction(node, invoiceID, rules.ActionReminder, now)))

	// same invoice, same action, same day: the unique index rejects it
	err := repo.InsertAction(ctx, db, newAction(node, invoiceID, rules.ActionReminder, now.Add(3*time.Hour)))
	assert.ErrorIs(t, err, domain.ErrDuplicateAction)

	// a different action type on the same day is its own slot
	require.NoError(t, repo.InsertAction(ctx, db, newAction(node, invoiceID, rules.ActionCall, now)))

	// next day reopens the slot
	require.NoError(t, repo.InsertAction(ctx, db, newAction(node, invoiceID, rules.ActionReminder, now.AddDate(0, 0, 1))))
}

func TestHasRecentActionRollingWindow(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2024, 2, 16, 23, 0, 0, 0, time.UTC)
	invoiceID := node.Generate()

	require.NoError(t, repo.InsertAction(ctx, db, newAction(node, invoiceID, rules.ActionReminder, created)))

	inside, err := repo.HasRecentAction(ctx, db, invoiceID, rules.ActionReminder, created.Add(10*time.Hour), 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, inside)

	outside, err := repo.HasRecentAction(ctx, db, invoiceID, rules.ActionReminder, created.Add(25*time.Hour), 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, outside)

	otherType, err := repo.HasRecentAction(ctx, db, invoiceID, rules.ActionLegalEscalation, created.Add(time.Hour), 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, otherType)
}

func TestCompleteActionRecordsOutcome(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 2, 16, 9, 0, 0, 0, time.UTC)

	action := newAction(node, node.Generate(), rules.ActionReminder, now)
	require.NoError(t, repo.InsertAction(ctx, db, action))

	executed := now.Add(2 * time.Second)
	require.NoError(t, repo.CompleteAction(ctx, db, action.ID, domain.ActionStatusCompleted, "sent", executed))

	var got domain.CollectionAction
	require.NoError(t, db.First(&got, "id = ?", action.ID).Error)
	assert.Equal(t, domain.ActionStatusCompleted, got.Status)
	assert.Equal(t, "sent", got.Result)
	require.NotNil(t, got.ExecutedAt)
}
