package settings

import (
	"context"
	"testing"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotReturnsDefaultsWhenUnset(t *testing.T) {
	s := NewStore(db.NewMemKV(), models.Settings{Workers: 4, SaveNotifications: true})

	got := s.Snapshot(context.Background())
	assert.Equal(t, 4, got.Workers)
	assert.True(t, got.SaveNotifications)
}

func TestDefaultsAreClamped(t *testing.T) {
	s := NewStore(db.NewMemKV(), models.Settings{Workers: 500})

	assert.Equal(t, models.MaxWorkers, s.Snapshot(context.Background()).Workers)
}

func TestUpdateRoundTrips(t *testing.T) {
	s := NewStore(db.NewMemKV(), models.DefaultSettings())
	ctx := context.Background()

	got := s.Update(ctx, models.Settings{Workers: 12, SaveNotifications: false})
	assert.Equal(t, 12, got.Workers)
	assert.False(t, got.SaveNotifications)

	snap := s.Snapshot(ctx)
	assert.Equal(t, 12, snap.Workers)
	assert.False(t, snap.SaveNotifications)
}

func TestUpdateClampsWorkerCount(t *testing.T) {
	s := NewStore(db.NewMemKV(), models.DefaultSettings())
	ctx := context.Background()

	assert.Equal(t, models.MinWorkers, s.Update(ctx, models.Settings{Workers: 0}).Workers)
	assert.Equal(t, models.MaxWorkers, s.Update(ctx, models.Settings{Workers: 1000}).Workers)
}

func TestSnapshotSurvivesMalformedDocument(t *testing.T) {
	kv := db.NewMemKV()
	require.NoError(t, kv.Set(context.Background(), "app_settings", "{broken"))

	s := NewStore(kv, models.Settings{Workers: 6, SaveNotifications: true})
	got := s.Snapshot(context.Background())
	assert.Equal(t, 6, got.Workers)
}

func TestUpdateSurvivesWriteFailure(t *testing.T) {
	kv := db.NewMemKV()
	kv.FailWrites = true
	s := NewStore(kv, models.DefaultSettings())

	got := s.Update(context.Background(), models.Settings{Workers: 10, SaveNotifications: true})
	assert.Equal(t, 10, got.Workers)
}
