package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DefaultQueryTimeout bounds every single MongoDB operation
const DefaultQueryTimeout = 10 * time.Second

// MongoDocumentStore implements DocumentStore on a MongoDB database.
// Ids are UUID strings stored in _id.
type MongoDocumentStore struct {
	database *mongo.Database
	timeout  time.Duration
	logger   *logging.SafeLogger
}

// NewMongoDocumentStore wraps an initialized database handle
func NewMongoDocumentStore(database *mongo.Database, logger *logging.SafeLogger) *MongoDocumentStore {
	return &MongoDocumentStore{
		database: database,
		timeout:  DefaultQueryTimeout,
		logger:   logger.Named("mongo_store"),
	}
}

func (s *MongoDocumentStore) record(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.DatabaseOperations.WithLabelValues(operation, status).Inc()
}

func (s *MongoDocumentStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id := uuid.NewString()
	doc := bson.M{"_id": id}
	for k, v := range data {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}

	_, err := s.database.Collection(collection).InsertOne(ctx, doc)
	s.record("insert", err)
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return id, nil
}

// CreateMany inserts with an unordered bulk write, so one bad document does not block the rest
func (s *MongoDocumentStore) CreateMany(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	operations := make([]mongo.WriteModel, 0, len(docs))
	for _, data := range docs {
		doc := bson.M{"_id": uuid.NewString()}
		for k, v := range data {
			if k != "_id" {
				doc[k] = v
			}
		}
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(doc))
	}

	result, err := s.database.Collection(collection).BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false))
	s.record("bulk_insert", err)
	if err != nil {
		return fmt.Errorf("failed to bulk insert into %s: %w", collection, err)
	}

	s.logger.Debug("bulk insert completed",
		zap.String("collection", collection),
		zap.Int64("inserted", result.InsertedCount))
	return nil
}

func (s *MongoDocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var raw bson.M
	err := s.database.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	s.record("find_one", err)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	delete(raw, "_id")
	return normalizeDocument(raw), nil
}

func (s *MongoDocumentStore) Update(ctx context.Context, collection, id string, patch Document) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}

	result, err := s.database.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	s.record("update", err)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *MongoDocumentStore) Query(ctx context.Context, collection string, q Query) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find()
	if q.OrderBy != "" {
		direction := 1
		if q.Desc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: direction}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.database.Collection(collection).Find(ctx, buildFilter(q.Filters), opts)
	s.record("find", err)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		id := fmt.Sprint(raw["_id"])
		delete(raw, "_id")
		records = append(records, Record{ID: id, Data: normalizeDocument(raw)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", collection, err)
	}
	return records, nil
}

func (s *MongoDocumentStore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.database.Collection(collection).CountDocuments(ctx, buildFilter(filters))
	s.record("count", err)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return count, nil
}

// Watch opens a change stream on the collection and re-runs the query on every
// event. Change streams need a replica set; on a standalone server the open fails
// with ErrWatchUnsupported.
func (s *MongoDocumentStore) Watch(ctx context.Context, collection string, q Query, onChange func([]Record)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)

	stream, err := s.database.Collection(collection).Watch(watchCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		s.logger.Warn("failed to open change stream", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrWatchUnsupported, err)
	}

	deliver := func() {
		records, err := s.Query(watchCtx, collection, q)
		if err != nil {
			if watchCtx.Err() == nil {
				s.logger.Warn("failed to refresh watched query", zap.String("collection", collection), zap.Error(err))
			}
			return
		}
		onChange(records)
	}

	deliver()

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(watchCtx) {
			deliver()
		}
		if err := stream.Err(); err != nil && watchCtx.Err() == nil {
			s.logger.Error("change stream ended", zap.String("collection", collection), zap.Error(err))
		}
	}()

	return cancel, nil
}

// buildFilter translates store filters to a MongoDB filter document
func buildFilter(filters []Filter) bson.M {
	filter := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case OpEq:
			filter[f.Field] = f.Value
		case OpGte, OpLt:
			clause, _ := filter[f.Field].(bson.M)
			if clause == nil {
				clause = bson.M{}
			}
			clause["$"+string(f.Op)] = f.Value
			filter[f.Field] = clause
		}
	}
	return filter
}

// normalizeDocument converts driver types into plain Go values
func normalizeDocument(raw bson.M) Document {
	return normalizeValue(map[string]interface{}(raw)).(map[string]interface{})
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		return normalizeValue(map[string]interface{}(val))
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	default:
		return val
	}
}
