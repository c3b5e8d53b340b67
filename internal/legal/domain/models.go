// Package domain contains legal case records opened for delinquent invoices.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
)

var (
	ErrAlreadyEscalated = errors.New("invoice_already_escalated")
)

// CaseStatus tracks the lifecycle of a legal case.
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "open"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusClosed     CaseStatus = "closed"
)

// CasePriority orders cases in the legal team's queue.
type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
)

// CaseTypeCollection marks cases opened by the collection engine.
const CaseTypeCollection = "collection"

// LegalCase is a case file handed to the legal team. At most one case
// exists per invoice, enforced by a unique index on invoice_id.
type LegalCase struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	InvoiceID   snowflake.ID      `gorm:"not null;uniqueIndex"`
	ClientID    snowflake.ID      `gorm:"not null;index"`
	Type        string            `gorm:"type:text;not null;default:'collection'"`
	Status      CaseStatus        `gorm:"type:text;not null;default:'open';index"`
	Priority    CasePriority      `gorm:"type:text;not null;default:'medium'"`
	Title       string            `gorm:"type:text;not null"`
	Description string            `gorm:"type:text"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LegalCase) TableName() string { return "legal_cases" }

// EscalationManager moves an invoice into legal collection: it flags the
// invoice, opens the case and notifies administrative staff.
type EscalationManager interface {
	// Escalate opens a legal case for the invoice. It reports whether
	// this call performed the escalation; false means the invoice had
	// already been escalated and nothing was written.
	Escalate(ctx context.Context, inv *invoicedomain.Invoice, daysOverdue int) (bool, error)
}
