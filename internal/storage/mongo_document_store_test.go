package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/storage"
	"github.com/nova-solidum/app-onboarding/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoDocumentStore_Integration(t *testing.T) {
	testutil.SkipUnlessIntegration(t)
	containers := testutil.SetupTestContainers(t)
	store := storage.NewMongoDocumentStore(containers.MongoDB, logging.Nop())
	ctx := context.Background()
	const collection = "registrations"

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i, status := range []string{"pending", "approved", "pending"} {
		id, err := store.Create(ctx, collection, storage.Document{
			"status":     status,
			"created_at": base.Add(time.Duration(i) * time.Hour),
			"data":       map[string]interface{}{"full_name": "Maria"},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	t.Run("get returns plain values", func(t *testing.T) {
		doc, err := store.Get(ctx, collection, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "pending", doc["status"])
		assert.Equal(t, base, doc["created_at"])
		assert.Equal(t, map[string]interface{}{"full_name": "Maria"}, doc["data"])
		assert.NotContains(t, doc, "_id")
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.Get(ctx, collection, "missing")
		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
		assert.ErrorIs(t, store.Update(ctx, collection, "missing", storage.Document{"status": "approved"}), storage.ErrDocumentNotFound)
	})

	t.Run("query orders and filters", func(t *testing.T) {
		records, err := store.Query(ctx, collection, storage.Query{
			Filters: []storage.Filter{storage.Eq("status", "pending")},
			OrderBy: "created_at",
			Desc:    true,
		})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, ids[2], records[0].ID)
		assert.Equal(t, ids[0], records[1].ID)

		count, err := store.Count(ctx, collection, []storage.Filter{{Field: "created_at", Op: storage.OpGte, Value: base.Add(time.Hour)}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("dotted update", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, collection, ids[1], storage.Document{"documents.selfie": map[string]interface{}{"path": "p"}}))
		doc, err := store.Get(ctx, collection, ids[1])
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"selfie": map[string]interface{}{"path": "p"}}, doc["documents"])
	})

	t.Run("watch delivers on insert", func(t *testing.T) {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var mu sync.Mutex
		var sizes []int
		stop, err := store.Watch(watchCtx, collection, storage.Query{OrderBy: "created_at", Desc: true}, func(records []storage.Record) {
			mu.Lock()
			sizes = append(sizes, len(records))
			mu.Unlock()
		})
		require.NoError(t, err)
		defer stop()

		_, err = store.Create(ctx, collection, storage.Document{"status": "pending", "created_at": base.Add(5 * time.Hour)})
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(sizes) >= 2 && sizes[len(sizes)-1] == 4
		}, 10*time.Second, 50*time.Millisecond)
	})

	t.Run("create many", func(t *testing.T) {
		require.NoError(t, store.CreateMany(ctx, "audit_logs", []storage.Document{{"action": "READ"}, {"action": "UPDATE"}}))
		count, err := store.Count(ctx, "audit_logs", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
