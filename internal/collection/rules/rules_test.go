package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBelowSmallestThreshold(t *testing.T) {
	table := Default()

	assert.Nil(t, table.Resolve(0))
	assert.Nil(t, table.Resolve(-3))
}

func TestResolvePicksLargestThresholdNotAbove(t *testing.T) {
	table := Default()

	rule := table.Resolve(10)
	require.NotNil(t, rule)
	assert.Equal(t, 7, rule.DaysOverdue)
	assert.Equal(t, ActionReminder, rule.Action)
	assert.Equal(t, ChannelAll, rule.Channel)
}

func TestResolveExactThreshold(t *testing.T) {
	table := Default()

	rule := table.Resolve(1)
	require.NotNil(t, rule)
	assert.Equal(t, 1, rule.DaysOverdue)
	assert.Equal(t, ActionReminder, rule.Action)
	assert.Equal(t, ChannelEmail, rule.Channel)
	assert.Equal(t, TemplateGentleReminder, rule.MessageTemplate)
}

func TestResolveBeyondLastThreshold(t *testing.T) {
	table := Default()

	rule := table.Resolve(46)
	require.NotNil(t, rule)
	assert.Equal(t, 45, rule.DaysOverdue)
	assert.Equal(t, ActionLegalEscalation, rule.Action)

	rule = table.Resolve(400)
	require.NotNil(t, rule)
	assert.Equal(t, 45, rule.DaysOverdue)
}

func TestNewTableRejectsDuplicateThresholds(t *testing.T) {
	_, err := NewTable([]Rule{
		{DaysOverdue: 1, Action: ActionReminder, Channel: ChannelEmail, MessageTemplate: TemplateGentleReminder},
		{DaysOverdue: 1, Action: ActionCall, Channel: ChannelPhone, MessageTemplate: TemplatePhoneScript},
	})
	assert.ErrorIs(t, err, ErrDuplicateThreshold)
}

func TestNewTableRejectsUnorderedThresholds(t *testing.T) {
	_, err := NewTable([]Rule{
		{DaysOverdue: 7, Action: ActionReminder, Channel: ChannelEmail, MessageTemplate: TemplateUrgentReminder},
		{DaysOverdue: 3, Action: ActionReminder, Channel: ChannelWhatsApp, MessageTemplate: TemplateFriendlyReminder},
	})
	assert.ErrorIs(t, err, ErrUnorderedTable)
}

func TestNewTableRejectsEmptyAndNegative(t *testing.T) {
	_, err := NewTable(nil)
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = NewTable([]Rule{{DaysOverdue: -1, Action: ActionReminder, Channel: ChannelEmail}})
	assert.ErrorIs(t, err, ErrNegativeThreshold)
}
