package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/clock"
	"github.com/vallegroup/valle360/internal/collection/compose"
	"github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/config"
	dispatchdomain "github.com/vallegroup/valle360/internal/dispatch/domain"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	legaldomain "github.com/vallegroup/valle360/internal/legal/domain"
	"github.com/vallegroup/valle360/internal/observability/metrics"
)

// dedupWindow is the rolling interval within which a given action type
// may not repeat for the same invoice.
const dedupWindow = 24 * time.Hour

// Params declares the dependencies of the collection service.
type Params struct {
	fx.In

	Config      config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Table       *rules.Table
	Composer    *compose.Composer
	Actions     domain.ActionRepository
	InvoiceRepo invoicedomain.Repository
	Dispatcher  dispatchdomain.Dispatcher
	Escalation  legaldomain.EscalationManager
}

type service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	table       *rules.Table
	composer    *compose.Composer
	actions     domain.ActionRepository
	invoiceRepo invoicedomain.Repository
	dispatcher  dispatchdomain.Dispatcher
	escalation  legaldomain.EscalationManager
	batchSize   int
}

// New creates the collection service.
func New(p Params) domain.Service {
	batch := p.Config.Scheduler.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &service{
		db:          p.DB,
		log:         p.Log,
		clock:       p.Clock,
		genID:       p.GenID,
		table:       p.Table,
		composer:    p.Composer,
		actions:     p.Actions,
		invoiceRepo: p.InvoiceRepo,
		dispatcher:  p.Dispatcher,
		escalation:  p.Escalation,
		batchSize:   batch,
	}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeReminderSent
	outcomeReminderFailed
	outcomeEscalated
)

// ProcessOverdueInvoices runs one batch pass over the overdue,
// not-yet-escalated candidate set. Per-invoice failures are logged and
// the pass continues; only a failure to load the candidate set fails
// the batch as a whole.
func (s *service) ProcessOverdueInvoices(ctx context.Context) (*domain.ProcessResult, error) {
	candidates, err := s.invoiceRepo.FindCollectionCandidates(ctx, s.db, s.batchSize)
	if err != nil {
		return nil, err
	}

	result := &domain.ProcessResult{}
	for _, inv := range candidates {
		result.Processed++

		out, err := s.processInvoice(ctx, inv)
		if err != nil {
			metrics.Scheduler().IncOutcome(metrics.OutcomeError)
			s.log.Error("collection step failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err),
			)
			continue
		}
		switch out {
		case outcomeReminderSent:
			result.RemindersSent++
			metrics.Scheduler().IncOutcome(metrics.OutcomeReminderSent)
		case outcomeReminderFailed:
			metrics.Scheduler().IncOutcome(metrics.OutcomeReminderFailed)
		case outcomeEscalated:
			result.Escalated++
			metrics.Scheduler().IncOutcome(metrics.OutcomeEscalated)
		default:
			metrics.Scheduler().IncOutcome(metrics.OutcomeSkipped)
		}
	}

	s.log.Info("collection batch finished",
		zap.Int("processed", result.Processed),
		zap.Int("reminders_sent", result.RemindersSent),
		zap.Int("escalated", result.Escalated),
	)
	return result, nil
}

func (s *service) processInvoice(ctx context.Context, inv *invoicedomain.Invoice) (outcome, error) {
	now := s.clock.Now()
	days := invoicedomain.DaysOverdue(inv.DueDate, now)

	rule := s.table.Resolve(days)
	if rule == nil {
		return outcomeSkipped, nil
	}

	recent, err := s.actions.HasRecentAction(ctx, s.db, inv.ID, rule.Action, now, dedupWindow)
	if err != nil {
		return outcomeSkipped, err
	}
	if recent {
		return outcomeSkipped, nil
	}

	// Claim the (invoice, action, day) slot before doing any work. The
	// unique index makes this the authoritative gate: losing the claim
	// means a concurrent run already took this step today.
	action := &domain.CollectionAction{
		ID:           s.genID.Generate(),
		InvoiceID:    inv.ID,
		ActionType:   rule.Action,
		ActionDate:   domain.ActionDate(now),
		Status:       domain.ActionStatusPending,
		ScheduledFor: now,
		CreatedAt:    now,
	}
	if err := s.actions.InsertAction(ctx, s.db, action); err != nil {
		if errors.Is(err, domain.ErrDuplicateAction) {
			return outcomeSkipped, nil
		}
		return outcomeSkipped, err
	}

	if rule.Action == rules.ActionLegalEscalation {
		return s.executeEscalation(ctx, inv, days, action)
	}
	return s.executeReminder(ctx, inv, *rule, days, action)
}

func (s *service) executeEscalation(ctx context.Context, inv *invoicedomain.Invoice, days int, action *domain.CollectionAction) (outcome, error) {
	did, err := s.escalation.Escalate(ctx, inv, days)
	if err != nil {
		s.completeAction(ctx, action.ID, domain.ActionStatusFailed, err.Error())
		return outcomeSkipped, err
	}
	if !did {
		s.completeAction(ctx, action.ID, domain.ActionStatusCompleted, "already escalated")
		return outcomeSkipped, nil
	}
	s.completeAction(ctx, action.ID, domain.ActionStatusCompleted, "legal case opened")
	return outcomeEscalated, nil
}

func (s *service) executeReminder(ctx context.Context, inv *invoicedomain.Invoice, rule rules.Rule, days int, action *domain.CollectionAction) (outcome, error) {
	body, err := s.composer.Compose(*inv, rule, days)
	if err != nil {
		// Unknown template is a configuration error. Fail this invoice
		// loudly rather than send the wrong language.
		s.completeAction(ctx, action.ID, domain.ActionStatusFailed, err.Error())
		return outcomeSkipped, err
	}

	msg := dispatchdomain.Message{
		InvoiceID: inv.ID,
		Recipient: inv.ClientEmail,
		Phone:     inv.ClientPhone,
		Subject:   s.composer.Subject(rule),
		Body:      body,
	}
	res, sendErr := s.dispatcher.Send(ctx, rule.Channel, msg)

	// Fire and record: the reminder counter advances once dispatch was
	// attempted, regardless of delivery confirmation. Delivery outcomes
	// live in message_logs.
	now := s.clock.Now()
	if err := s.invoiceRepo.RecordReminder(ctx, s.db, inv.ID, now); err != nil {
		s.completeAction(ctx, action.ID, domain.ActionStatusFailed, err.Error())
		return outcomeSkipped, err
	}

	if sendErr != nil {
		s.completeAction(ctx, action.ID, domain.ActionStatusFailed, sendErr.Error())
		s.log.Warn("collection dispatch failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("channel", string(rule.Channel)),
			zap.Error(sendErr),
		)
		return outcomeReminderFailed, nil
	}
	if !res.AnySucceeded() {
		s.completeAction(ctx, action.ID, domain.ActionStatusFailed, "no sub-channel accepted the message")
		return outcomeReminderFailed, nil
	}

	s.completeAction(ctx, action.ID, domain.ActionStatusCompleted, "sent")
	return outcomeReminderSent, nil
}

// completeAction records the action outcome. Audit bookkeeping must not
// fail the step itself.
func (s *service) completeAction(ctx context.Context, id snowflake.ID, status domain.ActionStatus, result string) {
	if err := s.actions.CompleteAction(ctx, s.db, id, status, result, s.clock.Now()); err != nil {
		s.log.Warn("failed to record action outcome",
			zap.String("action_id", id.String()),
			zap.Error(err),
		)
	}
}
