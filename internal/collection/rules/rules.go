// Package rules holds the collection escalation ladder: the ordered table of
// rules that decides which action applies at each level of delinquency.
package rules

import (
	"errors"
	"fmt"
)

// Action is the kind of collection step a rule triggers.
type Action string

const (
	ActionReminder        Action = "reminder"
	ActionCall            Action = "call"
	ActionLegalNotice     Action = "legal_notice"
	ActionLegalEscalation Action = "legal_escalation"
)

// Channel names the delivery channel for a rule. ChannelAll fans out to every
// configured messaging sub-channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPhone    Channel = "phone"
	ChannelAll      Channel = "all"
)

// Rule is one step of the escalation ladder, keyed by minimum days overdue.
type Rule struct {
	DaysOverdue           int
	Action                Action
	Channel               Channel
	MessageTemplate       string
	EscalateAfterFailures int
}

var (
	ErrEmptyTable         = errors.New("empty_rule_table")
	ErrDuplicateThreshold = errors.New("duplicate_rule_threshold")
	ErrUnorderedTable     = errors.New("unordered_rule_table")
	ErrNegativeThreshold  = errors.New("negative_rule_threshold")
)

// Table is a validated escalation ladder. Thresholds are pairwise distinct and
// strictly ascending; both are preconditions for Resolve to be well defined.
type Table struct {
	rules []Rule
}

// NewTable validates and builds a ladder. Configuration errors fail loudly at
// construction rather than degrading at resolve time.
func NewTable(ladder []Rule) (*Table, error) {
	if len(ladder) == 0 {
		return nil, ErrEmptyTable
	}
	for i, rule := range ladder {
		if rule.DaysOverdue < 0 {
			return nil, fmt.Errorf("%w: rule %d has threshold %d", ErrNegativeThreshold, i, rule.DaysOverdue)
		}
		if i == 0 {
			continue
		}
		prev := ladder[i-1].DaysOverdue
		if rule.DaysOverdue == prev {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateThreshold, rule.DaysOverdue)
		}
		if rule.DaysOverdue < prev {
			return nil, fmt.Errorf("%w: %d after %d", ErrUnorderedTable, rule.DaysOverdue, prev)
		}
	}
	out := make([]Rule, len(ladder))
	copy(out, ladder)
	return &Table{rules: out}, nil
}

// Default returns the standard Valle Group ladder.
func Default() *Table {
	table, err := NewTable([]Rule{
		{
			DaysOverdue:     1,
			Action:          ActionReminder,
			Channel:         ChannelEmail,
			MessageTemplate: TemplateGentleReminder,
		},
		{
			DaysOverdue:     3,
			Action:          ActionReminder,
			Channel:         ChannelWhatsApp,
			MessageTemplate: TemplateFriendlyReminder,
		},
		{
			DaysOverdue:     7,
			Action:          ActionReminder,
			Channel:         ChannelAll,
			MessageTemplate: TemplateUrgentReminder,
		},
		{
			DaysOverdue:     15,
			Action:          ActionCall,
			Channel:         ChannelPhone,
			MessageTemplate: TemplatePhoneScript,
		},
		{
			DaysOverdue:     30,
			Action:          ActionLegalNotice,
			Channel:         ChannelEmail,
			MessageTemplate: TemplateFormalNotice,
		},
		{
			DaysOverdue:           45,
			Action:                ActionLegalEscalation,
			Channel:               ChannelAll,
			MessageTemplate:       TemplateLegalEscalation,
			EscalateAfterFailures: 2,
		},
	})
	if err != nil {
		// the default ladder is a compile-time constant; this cannot happen
		panic(err)
	}
	return table
}

// Resolve returns the rule with the largest threshold <= daysOverdue, or nil
// when daysOverdue is below the smallest threshold. Pure and total.
func (t *Table) Resolve(daysOverdue int) *Rule {
	var applicable *Rule
	for i := range t.rules {
		if t.rules[i].DaysOverdue > daysOverdue {
			break
		}
		applicable = &t.rules[i]
	}
	if applicable == nil {
		return nil
	}
	rule := *applicable
	return &rule
}

// Rules returns a copy of the ladder in ascending threshold order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Template identifiers, one per rule tier.
const (
	TemplateGentleReminder   = "gentle_reminder"
	TemplateFriendlyReminder = "friendly_reminder"
	TemplateUrgentReminder   = "urgent_reminder"
	TemplatePhoneScript      = "phone_script"
	TemplateFormalNotice     = "formal_notice"
	TemplateLegalEscalation  = "legal_escalation"
)
