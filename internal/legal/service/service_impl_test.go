package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/clock"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	invoicerepository "github.com/vallegroup/valle360/internal/invoice/repository"
	"github.com/vallegroup/valle360/internal/legal/domain"
	"github.com/vallegroup/valle360/internal/legal/repository"
	notificationdomain "github.com/vallegroup/valle360/internal/notification/domain"
)

type notifierStub struct {
	calls int
	err   error
	last  notificationdomain.NewNotification
}

func (n *notifierStub) NotifyAdmins(ctx context.Context, msg notificationdomain.NewNotification) error {
	n.calls++
	n.last = msg
	return n.err
}

func setupManager(t *testing.T, notifier notificationdomain.Notifier) (domain.EscalationManager, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}, &domain.LegalCase{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	m := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)),
		GenID:       node,
		Repo:        repository.Provide(),
		InvoiceRepo: invoicerepository.Provide(),
		Notifier:    notifier,
	})
	return m, db, node
}

func seedOverdueInvoice(t *testing.T, db *gorm.DB, node *snowflake.Node) *invoicedomain.Invoice {
	t.Helper()
	inv := &invoicedomain.Invoice{
		ID:          node.Generate(),
		ClientID:    node.Generate(),
		ClientName:  "Construtora Horizonte",
		ClientEmail: "horizonte@example.com.br",
		Amount:      25000,
		DueDate:     time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
		Status:      invoicedomain.InvoiceStatusOverdue,
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func TestEscalateOpensCaseAndFlagsInvoice(t *testing.T) {
	notifier := &notifierStub{}
	m, db, node := setupManager(t, notifier)
	inv := seedOverdueInvoice(t, db, node)

	did, err := m.Escalate(context.Background(), inv, 46)
	require.NoError(t, err)
	assert.True(t, did)

	var c domain.LegalCase
	require.NoError(t, db.First(&c, "invoice_id = ?", inv.ID).Error)
	assert.Equal(t, domain.CasePriorityHigh, c.Priority)
	assert.Equal(t, domain.CaseStatusOpen, c.Status)
	assert.Contains(t, c.Description, "46 dias")
	assert.Contains(t, c.Description, "R$ 25.000,00")

	var got invoicedomain.Invoice
	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	assert.True(t, got.EscalatedToLegal)
	require.NotNil(t, got.EscalatedAt)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "legal_case", notifier.last.Type)
	assert.Contains(t, notifier.last.Message, "Construtora Horizonte")
}

func TestEscalateTwiceIsANoOp(t *testing.T) {
	notifier := &notifierStub{}
	m, db, node := setupManager(t, notifier)
	inv := seedOverdueInvoice(t, db, node)

	did, err := m.Escalate(context.Background(), inv, 46)
	require.NoError(t, err)
	assert.True(t, did)

	// direct second call, bypassing the batch pre-filter: the manager's
	// own guard plus the write-once flag keep it single-shot
	again, err := m.Escalate(context.Background(), inv, 50)
	require.NoError(t, err)
	assert.False(t, again)

	var cases []domain.LegalCase
	require.NoError(t, db.Find(&cases, "invoice_id = ?", inv.ID).Error)
	assert.Len(t, cases, 1)
	assert.Equal(t, 1, notifier.calls)
}

func TestEscalateSkipsAlreadyFlaggedInvoice(t *testing.T) {
	notifier := &notifierStub{}
	m, db, node := setupManager(t, notifier)
	inv := seedOverdueInvoice(t, db, node)
	inv.EscalatedToLegal = true

	did, err := m.Escalate(context.Background(), inv, 46)
	require.NoError(t, err)
	assert.False(t, did)

	var count int64
	require.NoError(t, db.Model(&domain.LegalCase{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, notifier.calls)
}

func TestEscalateSurvivesNotifierFailure(t *testing.T) {
	notifier := &notifierStub{err: errors.New("notification store down")}
	m, db, node := setupManager(t, notifier)
	inv := seedOverdueInvoice(t, db, node)

	did, err := m.Escalate(context.Background(), inv, 46)
	require.NoError(t, err)
	assert.True(t, did)

	var c domain.LegalCase
	require.NoError(t, db.First(&c, "invoice_id = ?", inv.ID).Error)

	var got invoicedomain.Invoice
	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	assert.True(t, got.EscalatedToLegal)
}
