package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vallegroup/valle360/internal/clock"
	"github.com/vallegroup/valle360/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := domain.ListInvoiceFilter{}
	if status := strings.TrimSpace(req.Status); status != "" {
		filter.Status = domain.InvoiceStatus(status)
	}
	if req.OverdueOnly {
		filter.Status = domain.InvoiceStatusOverdue
	}
	if clientID := strings.TrimSpace(req.ClientID); clientID != "" {
		id, err := snowflake.ParseString(clientID)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidID
		}
		filter.ClientID = id
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return domain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) MarkAsPaid(ctx context.Context, id string, req domain.MarkAsPaidRequest) (domain.Invoice, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	switch item.Status {
	case domain.InvoiceStatusPaid:
		return domain.Invoice{}, domain.ErrAlreadyPaid
	case domain.InvoiceStatusCancelled:
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	updated, err := s.repo.MarkPaid(ctx, s.db, parsed, strings.TrimSpace(req.PaymentMethod), now)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !updated {
		// lost a race against another writer; the status is terminal now
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	s.log.Info("invoice marked as paid",
		zap.String("invoice_id", parsed.String()),
		zap.String("payment_method", req.PaymentMethod),
	)

	item, err = s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	today := truncateToDay(s.clock.Now())
	moved, err := s.repo.SweepOverdue(ctx, s.db, today)
	if err != nil {
		return 0, err
	}
	if moved > 0 {
		s.log.Info("pending invoices moved to overdue", zap.Int64("count", moved))
	}
	return moved, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
