package providers

import (
	"testing"

	"bankrelay-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zenpayEvent(body string) models.NotificationEvent {
	return models.NotificationEvent{
		SourceApp: "io.zenpay.wallet",
		Title:     "Money received!",
		BigText:   body,
		PostedAt:  1700000000000,
	}
}

func TestZenPayCanHandle(t *testing.T) {
	p := NewZenPayParser()

	assert.True(t, p.CanHandle(zenpayEvent("x")))
	assert.False(t, p.CanHandle(models.NotificationEvent{SourceApp: "io.zenpay.wallet", Title: "Promo"}))
}

func TestZenPayParseReceive(t *testing.T) {
	p := NewZenPayParser()

	tx, err := p.Parse(zenpayEvent(`You received money. Amount 50,000 USD from BOB with message: "lunch"`))
	require.NoError(t, err)

	assert.Equal(t, models.ProviderZenPay, tx.Provider)
	assert.Equal(t, models.MoneyIn, tx.Direction)
	assert.Equal(t, int64(50000), tx.Amount)
	assert.Equal(t, "lunch", tx.Content)
	assert.Equal(t, "Unknown", tx.Counterparty)
	assert.Equal(t, synthesizeID(1700000000000, "lunch"), tx.TransactionID)
	assert.Empty(t, tx.BalanceAfter)
}

func TestZenPayParseQRTransfer(t *testing.T) {
	p := NewZenPayParser()

	tx, err := p.Parse(zenpayEvent(
		`You received money. Amount 25,000 USD from QR with message: "ZENQR TRANSFER 102134442618 Scan QR GROCERIES.Sent from terminal"`))
	require.NoError(t, err)

	// The QR rail carries the real reference and content in the message.
	assert.Equal(t, "102134442618", tx.TransactionID)
	assert.Equal(t, "GROCERIES", tx.Content)
	assert.Equal(t, int64(25000), tx.Amount)
}

func TestZenPayParseRejectsNonTransaction(t *testing.T) {
	p := NewZenPayParser()

	for _, body := range []string{
		"",
		"Your cashback is waiting",
		`Amount 50,000 USD but no message marker`,
		`You received money with message: "hi" but no amount`,
	} {
		_, err := p.Parse(zenpayEvent(body))
		assert.ErrorIs(t, err, ErrNotTransaction, "body: %q", body)
	}
}
