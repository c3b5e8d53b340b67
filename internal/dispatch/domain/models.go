// Package domain contains the dispatch contract and the message audit model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vallegroup/valle360/internal/collection/rules"
)

// Message is a rendered collection message bound for one recipient.
type Message struct {
	InvoiceID snowflake.ID
	Recipient string
	Phone     string
	Subject   string
	Body      string
}

// Provider delivers a message over one concrete sub-channel.
type Provider interface {
	Channel() rules.Channel
	Send(ctx context.Context, msg Message) error
}

// Result summarizes a fan-out: how many sub-channels were attempted and how
// many accepted the message.
type Result struct {
	Attempted int
	Delivered int
}

// AnySucceeded reports whether at least one sub-channel accepted the message.
// That is the bar for counting a reminder as sent; individual attempt outcomes
// live in message_logs.
func (r Result) AnySucceeded() bool {
	return r.Attempted > 0 && r.Delivered > 0
}

// Dispatcher fans a message out over the sub-channels a rule names.
type Dispatcher interface {
	Send(ctx context.Context, channel rules.Channel, msg Message) (Result, error)
}

// MessageLog is the append-only audit row written for every delivery attempt.
type MessageLog struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Type      string       `gorm:"type:text;not null;default:'collection'"`
	InvoiceID snowflake.ID `gorm:"not null;index"`
	Channel   string       `gorm:"type:text;not null"`
	Recipient string       `gorm:"type:text;not null"`
	Subject   string       `gorm:"type:text"`
	Content   string       `gorm:"type:text"`
	Succeeded bool         `gorm:"not null;default:false"`
	Error     string       `gorm:"type:text"`
	SentAt    time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (MessageLog) TableName() string { return "message_logs" }

var (
	ErrNoRecipient    = errors.New("message_has_no_recipient")
	ErrUnknownChannel = errors.New("unknown_dispatch_channel")
)
