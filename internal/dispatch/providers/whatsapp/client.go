// Package whatsapp delivers collection messages through the WhatsApp Business
// API gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/dispatch/domain"
)

var ErrNotConfigured = errors.New("whatsapp_not_configured")

type Config struct {
	APIURL    string
	AuthToken string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Channel() rules.Channel { return rules.ChannelWhatsApp }

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (c *Client) Send(ctx context.Context, msg domain.Message) error {
	if c.cfg.APIURL == "" {
		return ErrNotConfigured
	}
	if msg.Phone == "" {
		return domain.ErrNoRecipient
	}

	payload, err := json.Marshal(sendRequest{To: msg.Phone, Message: msg.Body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}
	return nil
}
