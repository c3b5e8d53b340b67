// Package dispatch fans rendered collection messages out to delivery providers
// and records every attempt in the message_logs audit table.
package dispatch

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vallegroup/valle360/internal/clock"
	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/dispatch/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Providers []domain.Provider `group:"dispatch.providers"`
}

// Recorder is the concrete Dispatcher. Delivery is fire-and-record: every
// attempt is logged with its own outcome, and a send counts as delivered when
// at least one sub-channel accepted it.
type Recorder struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	providers map[rules.Channel]domain.Provider
}

func New(p Params) domain.Dispatcher {
	providers := make(map[rules.Channel]domain.Provider, len(p.Providers))
	for _, provider := range p.Providers {
		if provider == nil {
			continue
		}
		providers[provider.Channel()] = provider
	}
	return &Recorder{
		db:        p.DB,
		log:       p.Log.Named("dispatch"),
		clock:     p.Clock,
		genID:     p.GenID,
		providers: providers,
	}
}

// messagingChannels are the sub-channels "all" expands to. Phone is excluded:
// a call is a staff task, not a broadcast.
var messagingChannels = []rules.Channel{rules.ChannelEmail, rules.ChannelWhatsApp}

func (d *Recorder) Send(ctx context.Context, channel rules.Channel, msg domain.Message) (domain.Result, error) {
	if msg.Recipient == "" && msg.Phone == "" {
		return domain.Result{}, domain.ErrNoRecipient
	}

	targets := []rules.Channel{channel}
	if channel == rules.ChannelAll {
		targets = messagingChannels
	}

	var result domain.Result
	for _, target := range targets {
		provider, ok := d.providers[target]
		if !ok {
			d.log.Warn("no provider for channel", zap.String("channel", string(target)))
			continue
		}
		if target == rules.ChannelWhatsApp && msg.Phone == "" {
			continue
		}

		result.Attempted++
		err := provider.Send(ctx, msg)
		if err == nil {
			result.Delivered++
		} else {
			d.log.Warn("dispatch attempt failed",
				zap.String("channel", string(target)),
				zap.String("invoice_id", msg.InvoiceID.String()),
				zap.Error(err),
			)
		}
		d.record(ctx, target, msg, err)
	}

	if result.Attempted == 0 {
		return result, domain.ErrUnknownChannel
	}
	return result, nil
}

func (d *Recorder) record(ctx context.Context, channel rules.Channel, msg domain.Message, sendErr error) {
	recipient := msg.Recipient
	if channel == rules.ChannelWhatsApp && msg.Phone != "" {
		recipient = msg.Phone
	}
	row := domain.MessageLog{
		ID:        d.genID.Generate(),
		Type:      "collection",
		InvoiceID: msg.InvoiceID,
		Channel:   string(channel),
		Recipient: recipient,
		Subject:   msg.Subject,
		Content:   msg.Body,
		Succeeded: sendErr == nil,
		SentAt:    d.clock.Now(),
	}
	if sendErr != nil {
		row.Error = sendErr.Error()
	}
	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		// audit write failure must not block the batch
		d.log.Error("message log write failed",
			zap.String("invoice_id", msg.InvoiceID.String()),
			zap.Error(err),
		)
	}
}
