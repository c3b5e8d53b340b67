// Package email delivers collection messages over SMTP.
package email

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/dispatch/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Channel() rules.Channel { return rules.ChannelEmail }

func (p *SMTPProvider) Send(ctx context.Context, msg domain.Message) error {
	if msg.Recipient == "" {
		return domain.ErrNoRecipient
	}

	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>")
	raw := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", msg.Recipient, msg.Subject, mime, body))

	return smtp.SendMail(addr, auth, p.cfg.From, []string{msg.Recipient}, raw)
}
