package providers

import (
	"regexp"
	"strings"

	"bankrelay-server/src/models"
)

// ZenPayParser handles incoming-transfer notifications from the ZenPay
// wallet. ZenPay only notifies on received money, so every parsed
// transaction is money in. Body shape:
//
//	You received money. Amount 50,000 USD from BOB with message: "lunch"
type ZenPayParser struct {
	amount  *regexp.Regexp
	message *regexp.Regexp
	qr      *regexp.Regexp
}

func NewZenPayParser() *ZenPayParser {
	return &ZenPayParser{
		amount:  regexp.MustCompile(`Amount (\d+[.,]\d+\s*USD)`),
		message: regexp.MustCompile(`with message:\s*"(.+?)"`),
		// QR payments relayed through the ZenQR rail embed the real
		// reference and content inside the message.
		qr: regexp.MustCompile(`ZENQR TRANSFER (\d+) Scan QR (\w+)\.Sent from`),
	}
}

func (p *ZenPayParser) Provider() models.Provider { return models.ProviderZenPay }

func (p *ZenPayParser) CanHandle(event models.NotificationEvent) bool {
	return event.SourceApp == "io.zenpay.wallet" && strings.Contains(event.Title, "Money received")
}

func (p *ZenPayParser) Parse(event models.NotificationEvent) (models.Transaction, error) {
	body := event.Body()
	if body == "" {
		return models.Transaction{}, ErrNotTransaction
	}

	rawAmount, ok := firstGroup(p.amount, body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}
	amount, ok := normalizeAmount(rawAmount, "USD")
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}

	message, ok := firstGroup(p.message, body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}

	content := message
	transactionID := ""
	if m := p.qr.FindStringSubmatch(message); m != nil {
		transactionID = m[1]
		content = m[2]
	}
	if transactionID == "" {
		transactionID = synthesizeID(event.PostedAt, message)
	}

	return models.Transaction{
		Provider:      models.ProviderZenPay,
		Direction:     models.MoneyIn,
		Amount:        amount,
		Counterparty:  "Unknown",
		Content:       content,
		TransactionID: transactionID,
		OccurredAt:    event.PostedAt,
	}, nil
}
