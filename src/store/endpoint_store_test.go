package store

import (
	"context"
	"testing"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEndpoint(name string) models.EndpointConfig {
	return models.EndpointConfig{
		Name:             name,
		URL:              "https://hooks.example.com/" + name,
		APIKey:           "secret",
		Enabled:          true,
		NotifyOnMoneyIn:  true,
		NotifyOnMoneyOut: true,
	}
}

func TestEndpointStoreUpsertAndGet(t *testing.T) {
	s := NewEndpointStore(db.NewMemKV())
	ctx := context.Background()

	s.Upsert(ctx, models.ProviderClover, newTestEndpoint("primary"))

	cfg, ok := s.Get(ctx, models.ProviderClover, "primary")
	require.True(t, ok)
	assert.Equal(t, "https://hooks.example.com/primary", cfg.URL)
	// Unset retry fields pick up defaults at creation.
	assert.Equal(t, models.DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, int64(models.DefaultRetryDelayMs), cfg.RetryDelayMs)

	// Providers are isolated.
	_, ok = s.Get(ctx, models.ProviderMeridian, "primary")
	assert.False(t, ok)
}

func TestEndpointStoreUpsertReplaces(t *testing.T) {
	s := NewEndpointStore(db.NewMemKV())
	ctx := context.Background()

	s.Upsert(ctx, models.ProviderClover, newTestEndpoint("primary"))

	updated := newTestEndpoint("primary")
	updated.URL = "https://hooks.example.com/v2"
	s.Upsert(ctx, models.ProviderClover, updated)

	cfg, ok := s.Get(ctx, models.ProviderClover, "primary")
	require.True(t, ok)
	assert.Equal(t, "https://hooks.example.com/v2", cfg.URL)
	assert.Len(t, s.GetAll(ctx, models.ProviderClover), 1)
}

func TestEndpointStoreRemove(t *testing.T) {
	s := NewEndpointStore(db.NewMemKV())
	ctx := context.Background()

	s.Upsert(ctx, models.ProviderClover, newTestEndpoint("primary"))
	s.Remove(ctx, models.ProviderClover, "primary")

	_, ok := s.Get(ctx, models.ProviderClover, "primary")
	assert.False(t, ok)

	// Removing an unknown name is a no-op.
	s.Remove(ctx, models.ProviderClover, "ghost")
}

func TestEndpointStorePartialUpdates(t *testing.T) {
	s := NewEndpointStore(db.NewMemKV())
	ctx := context.Background()

	s.Upsert(ctx, models.ProviderClover, newTestEndpoint("primary"))

	s.SetEnabled(ctx, models.ProviderClover, "primary", false)
	s.UpdateNotificationFlags(ctx, models.ProviderClover, "primary", true, false)
	s.UpdateConditions(ctx, models.ProviderClover, "primary", "*1#1000=5000#")

	cfg, ok := s.Get(ctx, models.ProviderClover, "primary")
	require.True(t, ok)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.NotifyOnMoneyIn)
	assert.False(t, cfg.NotifyOnMoneyOut)
	assert.Equal(t, "*1#1000=5000#", cfg.Conditions)
	// Untouched fields survive the patches.
	assert.Equal(t, "https://hooks.example.com/primary", cfg.URL)
}

func TestEndpointStoreRetryConfigKeepsExplicitZero(t *testing.T) {
	s := NewEndpointStore(db.NewMemKV())
	ctx := context.Background()

	s.Upsert(ctx, models.ProviderClover, newTestEndpoint("primary"))
	s.UpdateRetryConfig(ctx, models.ProviderClover, "primary", true, 0, 0)

	cfg, ok := s.Get(ctx, models.ProviderClover, "primary")
	require.True(t, ok)
	assert.True(t, cfg.RetryOnFailure)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, int64(models.DefaultRetryDelayMs), cfg.RetryDelayMs)

	s.UpdateRetryConfig(ctx, models.ProviderClover, "primary", false, -5, 1500)
	cfg, _ = s.Get(ctx, models.ProviderClover, "primary")
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, int64(1500), cfg.RetryDelayMs)
}

func TestEndpointStorePatchUnknownNameIsNoop(t *testing.T) {
	kv := db.NewMemKV()
	s := NewEndpointStore(kv)
	ctx := context.Background()

	s.SetEnabled(ctx, models.ProviderClover, "ghost", true)

	raw, err := kv.Get(ctx, "endpoint_config:Clover")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEndpointStoreMalformedDocumentReadsEmpty(t *testing.T) {
	kv := db.NewMemKV()
	require.NoError(t, kv.Set(context.Background(), "endpoint_config:Clover", "{not json"))

	s := NewEndpointStore(kv)
	assert.Empty(t, s.GetAll(context.Background(), models.ProviderClover))
}

func TestEndpointStoreSwallowsWriteFailures(t *testing.T) {
	kv := db.NewMemKV()
	kv.FailWrites = true
	s := NewEndpointStore(kv)

	// Must not panic or surface the error.
	s.Upsert(context.Background(), models.ProviderClover, newTestEndpoint("primary"))
}
