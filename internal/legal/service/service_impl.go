package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/clock"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	"github.com/vallegroup/valle360/internal/legal/domain"
	notificationdomain "github.com/vallegroup/valle360/internal/notification/domain"
	"github.com/vallegroup/valle360/pkg/db"
	"github.com/vallegroup/valle360/pkg/money"
)

// Params declares the dependencies of the escalation manager.
type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Repo        domain.Repository
	InvoiceRepo invoicedomain.Repository
	Notifier    notificationdomain.Notifier
}

type manager struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	repo        domain.Repository
	invoiceRepo invoicedomain.Repository
	notifier    notificationdomain.Notifier
}

// New creates the escalation manager.
func New(p Params) domain.EscalationManager {
	return &manager{
		db:          p.DB,
		log:         p.Log,
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
		notifier:    p.Notifier,
	}
}

// Escalate flags the invoice and opens the legal case in a single
// transaction. The invoice flag is a write-once update and the case
// table carries a unique index on invoice_id, so a concurrent or
// repeated escalation of the same invoice collapses into a no-op.
func (m *manager) Escalate(ctx context.Context, inv *invoicedomain.Invoice, daysOverdue int) (bool, error) {
	if inv.EscalatedToLegal {
		return false, nil
	}

	now := m.clock.Now()
	escalated := false

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flagged, err := m.invoiceRepo.MarkEscalated(ctx, tx, inv.ID, now)
		if err != nil {
			return err
		}
		if !flagged {
			return nil
		}

		c := &domain.LegalCase{
			ID:          m.genID.Generate(),
			InvoiceID:   inv.ID,
			ClientID:    inv.ClientID,
			Type:        domain.CaseTypeCollection,
			Status:      domain.CaseStatusOpen,
			Priority:    domain.CasePriorityHigh,
			Title:       fmt.Sprintf("Cobrança jurídica - %s", inv.ClientName),
			Description: fmt.Sprintf("Cobrança de fatura vencida há %d dias. Valor: %s", daysOverdue, money.FormatBRL(inv.Amount)),
			Metadata: map[string]any{
				"client_name":  inv.ClientName,
				"client_email": inv.ClientEmail,
				"amount":       inv.Amount,
				"days_overdue": daysOverdue,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := m.repo.InsertCase(ctx, tx, c); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyEscalated
			}
			return err
		}

		escalated = true
		return nil
	})
	if err == domain.ErrAlreadyEscalated {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !escalated {
		return false, nil
	}

	m.log.Info("invoice escalated to legal",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("client_name", inv.ClientName),
		zap.Int("days_overdue", daysOverdue),
	)

	// Notification fan-out is best effort. The escalation itself is
	// already committed.
	notifErr := m.notifier.NotifyAdmins(ctx, notificationdomain.NewNotification{
		Type:    "legal_case",
		Title:   "Novo caso de cobrança",
		Message: fmt.Sprintf("Cliente %s escalado para cobrança jurídica.", inv.ClientName),
		Link:    "/admin/financeiro",
		Metadata: map[string]any{
			"invoice_id":  inv.ID.String(),
			"target_role": "juridico",
		},
	})
	if notifErr != nil {
		m.log.Warn("failed to notify admins about legal case",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(notifErr),
		)
	}

	return true, nil
}
