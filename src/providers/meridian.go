package providers

import (
	"regexp"
	"strings"

	"bankrelay-server/src/models"
)

// MeridianParser handles the pipe-delimited balance notifications from
// Meridian Bank. Representative bodies:
//
//	ACCT 03xxx492|TXN: +20,000USD 25/09/25 17:47 |BAL: 64,368USD|FROM: ALICE SMITH - 0395347492|MSG: ALICE SMITH transfer Ref no Trace 779644
//	ACCT 03xxx492|TXN: -35,000USD 26/09/25 09:15 |BAL: 64,368USD|TO: ALICE SMITH - 0395347492|MSG: 0001 - Ref no/Trace 723215
//	ACCT 03xxx492|TXN: -50,000USD 27/09/25 18:22 |BAL: 19,368USD|MSG: ZENPAY-CASHIN-0395347492-OQCIjtZfWLMW-102134442618
type MeridianParser struct {
	account *regexp.Regexp
	amount  *regexp.Regexp
	balance *regexp.Regexp
	from    *regexp.Regexp
	to      *regexp.Regexp
	msg     *regexp.Regexp

	zenpayPhone *regexp.Regexp
	zenpayRef   *regexp.Regexp

	// Ordered reference patterns: the first match wins, and the matched
	// suffix is stripped from the description.
	refPatterns []*regexp.Regexp
	refSuffixes []*regexp.Regexp
}

func NewMeridianParser() *MeridianParser {
	return &MeridianParser{
		account: regexp.MustCompile(`ACCT (\S+)\|`),
		amount:  regexp.MustCompile(`TXN: ([+-]\d+,?\d*USD)`),
		balance: regexp.MustCompile(`BAL: (\d+,?\d*USD)`),
		from:    regexp.MustCompile(`FROM:\s*([^|]+)`),
		to:      regexp.MustCompile(`TO:\s*([^|]+)`),
		msg:     regexp.MustCompile(`MSG: ([^|]+)`),

		zenpayPhone: regexp.MustCompile(`ZENPAY-\w+-([0-9]+)`),
		zenpayRef:   regexp.MustCompile(`ZENPAY-\w+-[0-9]+-([\w-]+)`),

		refPatterns: []*regexp.Regexp{
			regexp.MustCompile(`Ref no[/\s]+Trace\s*(\d+)`),
			regexp.MustCompile(`Ref no[/\s]+(\d+)`),
			regexp.MustCompile(`Trace\s*(\d+)`),
		},
		refSuffixes: []*regexp.Regexp{
			regexp.MustCompile(`\s*Ref no[/\s]+Trace\s*\d+.*$`),
			regexp.MustCompile(`\s*Ref no[/\s]+\d+.*$`),
			regexp.MustCompile(`\s*Trace\s*\d+.*$`),
		},
	}
}

func (p *MeridianParser) Provider() models.Provider { return models.ProviderMeridian }

func (p *MeridianParser) CanHandle(event models.NotificationEvent) bool {
	return event.SourceApp == "com.meridianbank.mobile" && event.Title == "Account activity"
}

func (p *MeridianParser) Parse(event models.NotificationEvent) (models.Transaction, error) {
	body := event.Body()
	if body == "" {
		return models.Transaction{}, ErrNotTransaction
	}

	rawAmount, ok := firstGroup(p.amount, body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}
	direction := models.MoneyOut
	if strings.HasPrefix(rawAmount, "+") {
		direction = models.MoneyIn
	}
	amount, ok := normalizeAmount(rawAmount, "USD")
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}

	balance, ok := firstGroup(p.balance, body)
	if !ok {
		return models.Transaction{}, ErrNotTransaction
	}

	account, _ := firstGroup(p.account, body)
	counterparty := p.extractCounterparty(body, direction)
	content, transactionID := p.extractMessage(body)
	if transactionID == "" {
		transactionID = synthesizeID(event.PostedAt, content)
	}

	return models.Transaction{
		Provider:      models.ProviderMeridian,
		Direction:     direction,
		Amount:        amount,
		Counterparty:  counterparty,
		Content:       content,
		TransactionID: transactionID,
		BalanceAfter:  balance,
		OccurredAt:    event.PostedAt,
		SourceAccount: account,
	}, nil
}

// extractCounterparty reads FROM: for inbound and TO: for outbound
// transfers. Outbound bodies without a TO: field are usually wallet
// cash-ins carrying a ZENPAY token, so a label is synthesized from it.
func (p *MeridianParser) extractCounterparty(body string, direction models.Direction) string {
	if direction == models.MoneyIn {
		if from, ok := firstGroup(p.from, body); ok {
			return strings.TrimSpace(from)
		}
		return "Unknown Sender"
	}

	if to, ok := firstGroup(p.to, body); ok {
		return strings.TrimSpace(to)
	}
	if strings.Contains(body, "ZENPAY") {
		if phone, ok := firstGroup(p.zenpayPhone, body); ok {
			return "ZENPAY - " + phone
		}
		return "ZenPay Payment"
	}
	return "External Recipient"
}

// extractMessage pulls the MSG: field, separating an embedded reference
// into the transaction id and stripping it from the description.
func (p *MeridianParser) extractMessage(body string) (content, transactionID string) {
	full, ok := firstGroup(p.msg, body)
	if !ok {
		return "", ""
	}
	full = strings.TrimSpace(full)

	if strings.Contains(full, "ZENPAY") {
		if ref, ok := firstGroup(p.zenpayRef, full); ok {
			return "Transfer to ZenPay wallet", ref
		}
		return full, ""
	}

	for _, re := range p.refPatterns {
		if ref, ok := firstGroup(re, full); ok {
			cleaned := full
			for _, suffix := range p.refSuffixes {
				cleaned = suffix.ReplaceAllString(cleaned, "")
			}
			return strings.TrimSpace(cleaned), ref
		}
	}
	return full, ""
}
