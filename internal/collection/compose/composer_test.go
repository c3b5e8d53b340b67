package compose

import (
	"testing"

	"github.com/vallegroup/valle360/internal/collection/rules"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ClientName:  "Acme Propaganda",
		ClientEmail: "financeiro@acme.com.br",
		Amount:      5000,
	}
}

func TestComposeGentleReminder(t *testing.T) {
	c := New()

	msg, err := c.Compose(testInvoice(), rules.Rule{MessageTemplate: rules.TemplateGentleReminder}, 1)
	require.NoError(t, err)
	assert.Contains(t, msg, "Acme Propaganda")
	assert.Contains(t, msg, "R$ 5.000,00")
	assert.Contains(t, msg, "venceu ontem")
}

func TestComposeInterpolatesDaysOverdue(t *testing.T) {
	c := New()

	msg, err := c.Compose(testInvoice(), rules.Rule{MessageTemplate: rules.TemplateUrgentReminder}, 9)
	require.NoError(t, err)
	assert.Contains(t, msg, "vencida há 9 dias")

	msg, err = c.Compose(testInvoice(), rules.Rule{MessageTemplate: rules.TemplateFormalNotice}, 31)
	require.NoError(t, err)
	assert.Contains(t, msg, "NOTIFICAÇÃO EXTRAJUDICIAL")
	assert.Contains(t, msg, "vencida há 31 dias")
}

func TestComposeLegalEscalationBrief(t *testing.T) {
	c := New()

	msg, err := c.Compose(testInvoice(), rules.Rule{MessageTemplate: rules.TemplateLegalEscalation}, 46)
	require.NoError(t, err)
	assert.Contains(t, msg, "ENCAMINHAMENTO AO JURÍDICO")
	assert.Contains(t, msg, "Dias em atraso: 46")
	assert.Contains(t, msg, "R$ 5.000,00")
}

func TestComposeUnknownTemplateFailsLoudly(t *testing.T) {
	c := New()

	_, err := c.Compose(testInvoice(), rules.Rule{MessageTemplate: "no_such_template"}, 5)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSubjectPerAction(t *testing.T) {
	c := New()

	assert.Equal(t, "Cobrança - Fatura Valle Group", c.Subject(rules.Rule{Action: rules.ActionReminder}))
	assert.Equal(t, "Notificação Extrajudicial - Valle Group", c.Subject(rules.Rule{Action: rules.ActionLegalNotice}))
}
