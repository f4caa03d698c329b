package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkEntry struct {
	ID        string    `bson:"_id"`
	CNPJ      string    `bson:"cnpj"`
	LatencyMs int64     `bson:"latency_ms"`
	Message   string    `bson:"message,omitempty"`
	At        time.Time `bson:"at"`
}

func TestToDocument(t *testing.T) {
	at := time.Date(2025, 5, 2, 10, 30, 0, 0, time.UTC)
	doc, err := ToDocument(sinkEntry{ID: "ignored", CNPJ: "11222333000181", LatencyMs: 12, At: at})
	require.NoError(t, err)

	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "message")
	assert.Equal(t, "11222333000181", doc["cnpj"])
	assert.Equal(t, int64(12), doc["latency_ms"])
	storedAt, ok := doc["at"].(time.Time)
	require.True(t, ok)
	assert.True(t, at.Equal(storedAt))
}

func TestFromDocument(t *testing.T) {
	var out sinkEntry
	err := FromDocument(Document{"cnpj": "11222333000181", "latency_ms": int64(7)}, &out)
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", out.CNPJ)
	assert.Equal(t, int64(7), out.LatencyMs)
}

func TestCollectionSink_WriteBatch(t *testing.T) {
	store := NewMemoryDocumentStore()
	sink := NewCollectionSink[sinkEntry](store, "cnpj_lookup_logs")

	err := sink.WriteBatch(context.Background(), []sinkEntry{
		{CNPJ: "11222333000181", LatencyMs: 1},
		{CNPJ: "11444777000161", LatencyMs: 2},
	})
	require.NoError(t, err)

	records, err := store.Query(context.Background(), "cnpj_lookup_logs", Query{Filters: []Filter{Eq("cnpj", "11444777000161")}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].Data["latency_ms"])
}
