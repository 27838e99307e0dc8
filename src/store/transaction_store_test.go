package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(id string, amount int64) models.TransactionRecord {
	return models.NewTransactionRecord(models.Transaction{
		Provider:      models.ProviderClover,
		Direction:     models.MoneyIn,
		Amount:        amount,
		Counterparty:  "Unknown",
		Content:       "test transfer",
		TransactionID: id,
		OccurredAt:    1700000000000,
	}, true)
}

func readRecords(t *testing.T, s *TransactionStore, provider models.Provider) []models.TransactionRecord {
	t.Helper()
	var records []models.TransactionRecord
	require.NoError(t, json.Unmarshal([]byte(s.GetAll(context.Background(), provider)), &records))
	return records
}

func TestTransactionStoreAppendIsNewestFirst(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	s.Append(ctx, newTestRecord("a", 100))
	s.Append(ctx, newTestRecord("b", 200))

	records := readRecords(t, s, models.ProviderClover)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].TransactionID)
	assert.Equal(t, "a", records[1].TransactionID)
	assert.NotEmpty(t, records[0].FormattedTime)
}

func TestTransactionStoreEvictsBeyondCap(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	for i := 0; i < maxTransactions+1; i++ {
		s.Append(ctx, newTestRecord(fmt.Sprintf("tx-%d", i), int64(i)))
	}

	records := readRecords(t, s, models.ProviderClover)
	require.Len(t, records, maxTransactions)
	assert.Equal(t, fmt.Sprintf("tx-%d", maxTransactions), records[0].TransactionID)
	// The oldest entry fell off.
	assert.Equal(t, "tx-1", records[len(records)-1].TransactionID)
}

func TestTransactionStoreUpdateResponseCode(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	s.Append(ctx, newTestRecord("a", 100))
	s.Append(ctx, newTestRecord("b", 200))
	s.UpdateResponseCode(ctx, models.ProviderClover, "a", 200)

	records := readRecords(t, s, models.ProviderClover)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].ResponseCode)
	require.NotNil(t, records[1].ResponseCode)
	assert.Equal(t, 200, *records[1].ResponseCode)
}

func TestTransactionStoreUpdateResponseCodePatchesFirstMatch(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	// Duplicate ids: only the newest matching record takes the update.
	s.Append(ctx, newTestRecord("dup", 100))
	s.Append(ctx, newTestRecord("dup", 200))
	s.UpdateResponseCode(ctx, models.ProviderClover, "dup", 500)

	records := readRecords(t, s, models.ProviderClover)
	require.NotNil(t, records[0].ResponseCode)
	assert.Equal(t, 500, *records[0].ResponseCode)
	assert.Nil(t, records[1].ResponseCode)
}

func TestTransactionStoreUpdateUnknownIDIsNoop(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	s.Append(ctx, newTestRecord("a", 100))
	s.UpdateResponseCode(ctx, models.ProviderClover, "ghost", 200)

	records := readRecords(t, s, models.ProviderClover)
	assert.Nil(t, records[0].ResponseCode)
}

func TestTransactionStoreGetAllDefaultsToEmptyArray(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	assert.Equal(t, "[]", s.GetAll(context.Background(), models.ProviderClover))
}

func TestTransactionStoreClear(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	s.Append(ctx, newTestRecord("a", 100))
	s.Clear(ctx, models.ProviderClover)

	assert.Equal(t, "[]", s.GetAll(ctx, models.ProviderClover))
}

func TestTransactionStoreProvidersAreIsolated(t *testing.T) {
	s := NewTransactionStore(db.NewMemKV())
	ctx := context.Background()

	s.Append(ctx, newTestRecord("a", 100))
	assert.Equal(t, "[]", s.GetAll(ctx, models.ProviderMeridian))
}
