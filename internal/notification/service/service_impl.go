package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/clock"
	"github.com/vallegroup/valle360/internal/notification/domain"
)

// Params declares the dependencies of the notification service.
type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
}

// New creates the notification service.
func New(p Params) domain.Notifier {
	return &service{
		db:    p.DB,
		log:   p.Log,
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// NotifyAdmins writes one notification row per administrative staff
// account. Having no admins on file is not an error.
func (s *service) NotifyAdmins(ctx context.Context, n domain.NewNotification) error {
	ids, err := s.repo.ListAdminStaffIDs(ctx, s.db)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		s.log.Warn("no admin staff to notify", zap.String("type", n.Type))
		return nil
	}

	now := s.clock.Now()
	rows := make([]domain.Notification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, domain.Notification{
			ID:        s.genID.Generate(),
			StaffID:   id,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Metadata:  n.Metadata,
			CreatedAt: now,
		})
	}
	if err := s.repo.InsertNotifications(ctx, s.db, rows); err != nil {
		return err
	}

	s.log.Info("admin notifications created",
		zap.String("type", n.Type),
		zap.Int("recipients", len(rows)),
	)
	return nil
}
