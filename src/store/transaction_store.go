package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"
)

// maxTransactions bounds each provider's history list.
const maxTransactions = 100

// TransactionStore keeps a bounded, newest-first history of parsed
// transactions per provider, with delivery status patched in after the
// asynchronous HTTP calls complete.
type TransactionStore struct {
	kv    db.KV
	locks map[models.Provider]*sync.Mutex
}

func NewTransactionStore(kv db.KV) *TransactionStore {
	locks := make(map[models.Provider]*sync.Mutex, len(models.Providers))
	for _, p := range models.Providers {
		locks[p] = &sync.Mutex{}
	}
	return &TransactionStore{kv: kv, locks: locks}
}

func transactionKey(provider models.Provider) string {
	return "transactions:" + string(provider)
}

// Append prepends a record and truncates the list to the cap. The oldest
// entries fall off silently.
func (s *TransactionStore) Append(ctx context.Context, record models.TransactionRecord) {
	provider := record.Provider
	mu := s.locks[provider]
	mu.Lock()
	defer mu.Unlock()

	records := s.readDoc(ctx, provider)
	updated := make([]models.TransactionRecord, 0, maxTransactions)
	updated = append(updated, record)
	for i := 0; i < len(records) && i < maxTransactions-1; i++ {
		updated = append(updated, records[i])
	}
	s.writeDoc(ctx, provider, updated)
}

// UpdateResponseCode patches the first record matching the transaction id.
// Ids are not unique by construction, so a duplicate id attributes the
// update to the newest matching record.
func (s *TransactionStore) UpdateResponseCode(ctx context.Context, provider models.Provider, transactionID string, code int) {
	mu := s.locks[provider]
	mu.Lock()
	defer mu.Unlock()

	records := s.readDoc(ctx, provider)
	for i := range records {
		if records[i].TransactionID == transactionID {
			records[i].ResponseCode = &code
			s.writeDoc(ctx, provider, records)
			return
		}
	}
}

// GetAll returns the provider's history as its serialized JSON array.
func (s *TransactionStore) GetAll(ctx context.Context, provider models.Provider) string {
	raw, err := s.kv.Get(ctx, transactionKey(provider))
	if err != nil {
		log.Printf("ERROR: Failed to read transactions for %s: %v", provider, err)
		return "[]"
	}
	if raw == "" {
		return "[]"
	}
	return raw
}

// Clear drops the provider's history.
func (s *TransactionStore) Clear(ctx context.Context, provider models.Provider) {
	mu := s.locks[provider]
	mu.Lock()
	defer mu.Unlock()

	if err := s.kv.Set(ctx, transactionKey(provider), "[]"); err != nil {
		log.Printf("ERROR: Failed to clear transactions for %s: %v", provider, err)
	}
}

func (s *TransactionStore) readDoc(ctx context.Context, provider models.Provider) []models.TransactionRecord {
	raw, err := s.kv.Get(ctx, transactionKey(provider))
	if err != nil {
		log.Printf("ERROR: Failed to read transactions for %s: %v", provider, err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var records []models.TransactionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("ERROR: Malformed transaction document for %s: %v", provider, err)
		return nil
	}
	return records
}

func (s *TransactionStore) writeDoc(ctx context.Context, provider models.Provider, records []models.TransactionRecord) {
	raw, err := json.Marshal(records)
	if err != nil {
		log.Printf("ERROR: Failed to encode transactions for %s: %v", provider, err)
		return
	}
	if err := s.kv.Set(ctx, transactionKey(provider), string(raw)); err != nil {
		log.Printf("ERROR: Failed to persist transactions for %s: %v", provider, err)
	}
}
