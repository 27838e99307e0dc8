package providers

import (
	"testing"

	"bankrelay-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meridianEvent(body string) models.NotificationEvent {
	return models.NotificationEvent{
		SourceApp: "com.meridianbank.mobile",
		Title:     "Account activity",
		BigText:   body,
		PostedAt:  1700000000000,
	}
}

func TestMeridianCanHandle(t *testing.T) {
	p := NewMeridianParser()

	assert.True(t, p.CanHandle(meridianEvent("x")))
	assert.False(t, p.CanHandle(models.NotificationEvent{SourceApp: "com.meridianbank.mobile", Title: "Offer"}))
}

func TestMeridianParseMoneyIn(t *testing.T) {
	p := NewMeridianParser()

	tx, err := p.Parse(meridianEvent(
		"ACCT 03xxx492|TXN: +20,000USD 25/09/25 17:47 |BAL: 64,368USD|FROM: ALICE SMITH - 0395347492|MSG: ALICE SMITH transfer Ref no Trace 779644"))
	require.NoError(t, err)

	assert.Equal(t, models.ProviderMeridian, tx.Provider)
	assert.Equal(t, models.MoneyIn, tx.Direction)
	assert.Equal(t, int64(20000), tx.Amount)
	assert.Equal(t, "ALICE SMITH - 0395347492", tx.Counterparty)
	assert.Equal(t, "ALICE SMITH transfer", tx.Content)
	assert.Equal(t, "779644", tx.TransactionID)
	assert.Equal(t, "64,368USD", tx.BalanceAfter)
	assert.Equal(t, "03xxx492", tx.SourceAccount)
}

func TestMeridianParseMoneyOutWithRecipient(t *testing.T) {
	p := NewMeridianParser()

	tx, err := p.Parse(meridianEvent(
		"ACCT 03xxx492|TXN: -35,000USD 26/09/25 09:15 |BAL: 29,368USD|TO: BOB JONES - 0312345678|MSG: 0001 - Ref no/Trace 723215"))
	require.NoError(t, err)

	assert.Equal(t, models.MoneyOut, tx.Direction)
	assert.Equal(t, int64(35000), tx.Amount)
	assert.Equal(t, "BOB JONES - 0312345678", tx.Counterparty)
	assert.Equal(t, "723215", tx.TransactionID)
	assert.Equal(t, "0001 -", tx.Content)
}

func TestMeridianParseWalletCashIn(t *testing.T) {
	p := NewMeridianParser()

	tx, err := p.Parse(meridianEvent(
		"ACCT 03xxx492|TXN: -50,000USD 27/09/25 18:22 |BAL: 19,368USD|MSG: ZENPAY-CASHIN-0395347492-OQCIjtZfWLMW-102134442618"))
	require.NoError(t, err)

	assert.Equal(t, models.MoneyOut, tx.Direction)
	assert.Equal(t, "ZENPAY - 0395347492", tx.Counterparty)
	assert.Equal(t, "Transfer to ZenPay wallet", tx.Content)
	assert.Equal(t, "OQCIjtZfWLMW-102134442618", tx.TransactionID)
}

func TestMeridianParseMoneyOutWithoutRecipient(t *testing.T) {
	p := NewMeridianParser()

	tx, err := p.Parse(meridianEvent(
		"ACCT 03xxx492|TXN: -5,000USD 27/09/25 18:22 |BAL: 14,368USD|MSG: card payment"))
	require.NoError(t, err)

	assert.Equal(t, "External Recipient", tx.Counterparty)
	assert.Equal(t, "card payment", tx.Content)
	// No embedded reference: id is synthesized from timestamp + content.
	assert.Equal(t, synthesizeID(1700000000000, "card payment"), tx.TransactionID)
}

func TestMeridianParseMoneyInWithoutSender(t *testing.T) {
	p := NewMeridianParser()

	tx, err := p.Parse(meridianEvent(
		"ACCT 03xxx492|TXN: +1,000USD 27/09/25 18:22 |BAL: 15,368USD|MSG: interest"))
	require.NoError(t, err)

	assert.Equal(t, "Unknown Sender", tx.Counterparty)
}

func TestMeridianParseRejectsNonTransaction(t *testing.T) {
	p := NewMeridianParser()

	for _, body := range []string{
		"",
		"Your OTP code is 123456",
		"ACCT 03xxx492|no amount field here",
		"ACCT 03xxx492|TXN: +20,000USD 25/09/25 17:47 |no balance",
	} {
		_, err := p.Parse(meridianEvent(body))
		assert.ErrorIs(t, err, ErrNotTransaction, "body: %q", body)
	}
}
