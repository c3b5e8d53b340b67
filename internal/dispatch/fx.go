package dispatch

import (
	"github.com/vallegroup/valle360/internal/config"
	"github.com/vallegroup/valle360/internal/dispatch/domain"
	"github.com/vallegroup/valle360/internal/dispatch/providers/email"
	"github.com/vallegroup/valle360/internal/dispatch/providers/phone"
	"github.com/vallegroup/valle360/internal/dispatch/providers/whatsapp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("dispatch",
	fx.Provide(
		fx.Annotate(newEmailProvider, fx.ResultTags(`group:"dispatch.providers"`), fx.As(new(domain.Provider))),
		fx.Annotate(newWhatsAppProvider, fx.ResultTags(`group:"dispatch.providers"`), fx.As(new(domain.Provider))),
		fx.Annotate(newPhoneProvider, fx.ResultTags(`group:"dispatch.providers"`), fx.As(new(domain.Provider))),
	),
	fx.Provide(New),
)

func newEmailProvider(cfg config.Config) *email.SMTPProvider {
	return email.NewSMTP(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

func newWhatsAppProvider(cfg config.Config) *whatsapp.Client {
	return whatsapp.NewClient(whatsapp.Config{
		APIURL:    cfg.WhatsApp.APIURL,
		AuthToken: cfg.WhatsApp.AuthToken,
	})
}

func newPhoneProvider(log *zap.Logger) *phone.Provider {
	return phone.NewProvider(log)
}
