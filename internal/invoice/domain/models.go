// Package domain contains persistence models for client invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states. Status only moves forward:
// pending -> sent -> overdue -> paid|cancelled. Paid and cancelled are terminal.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice represents a client invoice owned by billing. The collection engine
// reads status/due_date/amount and writes the reminder and escalation columns.
type Invoice struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClientID         snowflake.ID      `gorm:"not null;index" json:"client_id"`
	ClientName       string            `gorm:"type:text;not null" json:"client_name"`
	ClientEmail      string            `gorm:"type:text;not null" json:"client_email"`
	ClientPhone      string            `gorm:"type:text" json:"client_phone,omitempty"`
	Amount           float64           `gorm:"not null;default:0" json:"amount"`
	DueDate          time.Time         `gorm:"not null;index" json:"due_date"`
	Status           InvoiceStatus     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	ReminderCount    int               `gorm:"not null;default:0" json:"reminder_count"`
	LastReminderAt   *time.Time        `gorm:"" json:"last_reminder_at,omitempty"`
	EscalatedToLegal bool              `gorm:"not null;default:false;index" json:"escalated_to_legal"`
	EscalatedAt      *time.Time        `gorm:"" json:"escalated_at,omitempty"`
	PaymentMethod    string            `gorm:"type:text" json:"payment_method,omitempty"`
	PaidAt           *time.Time        `gorm:"" json:"paid_at,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
