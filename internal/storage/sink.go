package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// CollectionSink writes batches of bson-tagged entries to one collection
type CollectionSink[T any] struct {
	store      DocumentStore
	collection string
}

// NewCollectionSink returns a sink appending to collection
func NewCollectionSink[T any](store DocumentStore, collection string) *CollectionSink[T] {
	return &CollectionSink[T]{store: store, collection: collection}
}

// WriteBatch converts every entry to a Document and inserts them in one call
func (s *CollectionSink[T]) WriteBatch(ctx context.Context, batch []T) error {
	docs := make([]Document, 0, len(batch))
	for _, entry := range batch {
		doc, err := ToDocument(entry)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return s.store.CreateMany(ctx, s.collection, docs)
}

// ToDocument converts a bson-tagged struct into a Document. The _id key is
// dropped; stores assign their own ids.
func ToDocument(v interface{}) (Document, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	delete(m, "_id")
	return normalizeDocument(m), nil
}

// FromDocument decodes a Document into a bson-tagged struct
func FromDocument(doc Document, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
