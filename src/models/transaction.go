package models

import "time"

// Provider identifies one of the supported notification sources.
type Provider string

const (
	ProviderClover   Provider = "Clover"
	ProviderMeridian Provider = "MeridianBank"
	ProviderZenPay   Provider = "ZenPay"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderClover, ProviderMeridian, ProviderZenPay}

// ParseProvider maps a URL path token to a Provider.
func ParseProvider(s string) (Provider, bool) {
	for _, p := range Providers {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Direction classifies a transaction as money in or money out.
type Direction string

const (
	MoneyIn  Direction = "receive"
	MoneyOut Direction = "send"
)

// Transaction is the canonical, provider-agnostic fact extracted from a
// notification body. Amount is in the smallest currency unit.
type Transaction struct {
	Provider      Provider  `json:"provider"`
	Direction     Direction `json:"type"`
	Amount        int64     `json:"amount"`
	Counterparty  string    `json:"counterparty"`
	Content       string    `json:"content"`
	TransactionID string    `json:"transactionId"`
	BalanceAfter  string    `json:"balance,omitempty"`
	OccurredAt    int64     `json:"timestamp"` // epoch millis
	SourceAccount string    `json:"account,omitempty"`
}

// TransactionRecord is the persisted history entry: the transaction plus
// delivery status. ResponseCode is the only field patched after creation.
type TransactionRecord struct {
	Transaction
	Processed     bool   `json:"processed"`
	FormattedTime string `json:"formattedTime"`
	ResponseCode  *int   `json:"responseCode,omitempty"`
}

// NewTransactionRecord stamps a record for the history list.
func NewTransactionRecord(tx Transaction, processed bool) TransactionRecord {
	return TransactionRecord{
		Transaction:   tx,
		Processed:     processed,
		FormattedTime: time.UnixMilli(tx.OccurredAt).Format("2006-01-02 15:04:05"),
	}
}
