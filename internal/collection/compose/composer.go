// Package compose renders collection messages from rule templates.
package compose

import (
	"errors"
	"fmt"

	"github.com/vallegroup/valle360/internal/collection/rules"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	"github.com/vallegroup/valle360/pkg/money"
)

// ErrTemplateNotFound is returned for unknown template ids. Composition never
// falls back to a default template: sending the wrong legal language is worse
// than sending nothing.
var ErrTemplateNotFound = errors.New("template_not_found")

// Composer renders a channel-ready message for a rule tier.
type Composer struct{}

func New() *Composer {
	return &Composer{}
}

// Compose interpolates client name, the BRL-formatted amount and, for
// time-sensitive templates, the days-overdue value. Pure, no I/O.
func (c *Composer) Compose(invoice invoicedomain.Invoice, rule rules.Rule, daysOverdue int) (string, error) {
	amount := money.FormatBRL(invoice.Amount)

	switch rule.MessageTemplate {
	case rules.TemplateGentleReminder:
		return fmt.Sprintf(`Olá %s!

Esperamos que esteja tudo bem.

Gostaríamos de lembrar que a fatura no valor de %s venceu ontem.

Se já realizou o pagamento, por favor desconsidere esta mensagem.

Caso precise de ajuda ou tenha alguma dúvida, estamos à disposição!

Abraços,
Equipe Valle Group`, invoice.ClientName, amount), nil

	case rules.TemplateFriendlyReminder:
		return fmt.Sprintf(`Olá %s!

Passando para lembrar sobre a fatura de %s que está pendente há alguns dias.

Sabemos que imprevistos acontecem! Se precisar de um prazo extra ou parcelamento, é só nos avisar que encontramos uma solução juntos.

Aguardamos seu retorno!

Equipe Valle Group`, invoice.ClientName, amount), nil

	case rules.TemplateUrgentReminder:
		return fmt.Sprintf(`Prezado(a) %s,

Identificamos que a fatura no valor de %s encontra-se vencida há %d dias.

Para evitar a suspensão dos serviços, solicitamos a regularização do pagamento o mais breve possível.

Caso já tenha efetuado o pagamento, por favor nos envie o comprovante.

Se precisar de condições especiais, entre em contato conosco.

Atenciosamente,
Financeiro - Valle Group`, invoice.ClientName, amount, daysOverdue), nil

	case rules.TemplatePhoneScript:
		return fmt.Sprintf(`[ROTEIRO PARA LIGAÇÃO]

1. Apresentação: "Olá, aqui é [nome] da Valle Group"
2. Confirmar se está falando com: %s
3. Informar: "Estou entrando em contato sobre a fatura de %s que está pendente"
4. Ouvir o cliente
5. Oferecer opções:
   - Pagamento à vista com desconto
   - Parcelamento em até 3x
   - Nova data de vencimento
6. Registrar resultado da ligação`, invoice.ClientName, amount), nil

	case rules.TemplateFormalNotice:
		return fmt.Sprintf(`NOTIFICAÇÃO EXTRAJUDICIAL

Prezado(a) %s,

Pelo presente instrumento, NOTIFICAMOS V.Sa. que a fatura no valor de %s, vencida há %d dias, permanece em aberto.

Solicitamos a regularização no prazo de 5 (cinco) dias úteis, sob pena de adoção das medidas legais cabíveis, incluindo:
- Inclusão nos órgãos de proteção ao crédito (SPC/Serasa)
- Protesto do título
- Cobrança judicial

Para negociação ou esclarecimentos, entre em contato pelo e-mail financeiro@vallegroup.com.br

Atenciosamente,
Departamento Jurídico - Valle Group`, invoice.ClientName, amount, daysOverdue), nil

	case rules.TemplateLegalEscalation:
		return fmt.Sprintf(`ENCAMINHAMENTO AO JURÍDICO

Cliente: %s
Valor: %s
Dias em atraso: %d

Histórico de cobranças realizadas sem sucesso.
Solicita-se início de procedimento de cobrança extrajudicial/judicial.`, invoice.ClientName, amount, daysOverdue), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, rule.MessageTemplate)
	}
}

// Subject returns the e-mail subject used for collection messages.
func (c *Composer) Subject(rule rules.Rule) string {
	switch rule.Action {
	case rules.ActionLegalNotice:
		return "Notificação Extrajudicial - Valle Group"
	default:
		return "Cobrança - Fatura Valle Group"
	}
}
