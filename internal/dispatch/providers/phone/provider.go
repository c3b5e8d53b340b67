// Package phone handles the call channel. There is no outbound dialer: a call
// script is material for a human, so delivery means handing it to the finance
// team. The message_logs row written by the dispatcher is the artifact they
// work from.
package phone

import (
	"context"

	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/dispatch/domain"
	"go.uber.org/zap"
)

type Provider struct {
	log *zap.Logger
}

func NewProvider(log *zap.Logger) *Provider {
	return &Provider{log: log.Named("dispatch.phone")}
}

func (p *Provider) Channel() rules.Channel { return rules.ChannelPhone }

func (p *Provider) Send(ctx context.Context, msg domain.Message) error {
	p.log.Info("call script queued for finance team",
		zap.String("invoice_id", msg.InvoiceID.String()),
		zap.String("client", msg.Recipient),
	)
	return nil
}
