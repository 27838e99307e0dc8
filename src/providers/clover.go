package providers

import (
	"regexp"

	"bankrelay-server/src/models"
)

// CloverParser handles balance-change notifications from the Clover digital
// bank. Body shape:
//
//	Your account balance increased by 20,000 unit, content: Alice
//	transfer, new balance 500,000 unit
type CloverParser struct {
	increased *regexp.Regexp
	decreased *regexp.Regexp
	content   *regexp.Regexp
	balance   *regexp.Regexp
}

func NewCloverParser() *CloverParser {
	return &CloverParser{
		increased: regexp.MustCompile(`balance increased by ([\d,.]+ unit)`),
		decreased: regexp.MustCompile(`balance decreased by ([\d,.]+ unit)`),
		content:   regexp.MustCompile(`content: (.*?), new balance`),
		balance:   regexp.MustCompile(`new balance ([\d,.]+ unit)`),
	}
}

func (p *CloverParser) Provider() models.Provider { return models.ProviderClover }

func (p *CloverParser) CanHandle(event models.NotificationEvent) bool {
	return event.SourceApp == "app.clover.bank" && event.Title == "Balance update"
}

func (p *CloverParser) Parse(event models.NotificationEvent) (models.Transaction, error) {
	body := event.Body()
	if body == "" {
		return models.Transaction{}, ErrNotTransaction
	}

	direction, rawAmount, ok := p.extractAmount(body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}
	amount, ok := normalizeAmount(rawAmount, "unit")
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}

	content, ok := firstGroup(p.content, body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}
	balance, ok := firstGroup(p.balance, body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}

	return models.Transaction{
		Provider:      models.ProviderClover,
		Direction:     direction,
		Amount:        amount,
		Counterparty:  "Unknown",
		Content:       content,
		TransactionID: synthesizeID(event.PostedAt, content),
		BalanceAfter:  balance,
		OccurredAt:    event.PostedAt,
	}, nil
}

// extractAmount resolves direction and the formatted amount in one pass:
// the direction verb is the marker the amount token is anchored to.
func (p *CloverParser) extractAmount(body string) (models.Direction, string, bool) {
	if raw, ok := firstGroup(p.increased, body); ok {
		return models.MoneyIn, raw, true
	}
	if raw, ok := firstGroup(p.decreased, body); ok {
		return models.MoneyOut, raw, true
	}
	return "", "", false
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
