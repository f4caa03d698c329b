package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB database handle
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// indexSpec describes one index the service relies on
type indexSpec struct {
	collection string
	name       string
	keys       bson.D
	unique     bool
}

// requiredIndexes lists the indexes backing the registration and lookup queries
func requiredIndexes() []indexSpec {
	return []indexSpec{
		{collection: AppConfig.RegistrationsCollection, name: "created_at_-1", keys: bson.D{{Key: "created_at", Value: -1}}},
		{collection: AppConfig.RegistrationsCollection, name: "status_1_created_at_-1", keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{collection: AppConfig.CNPJLookupLogsCollection, name: "cnpj_1_searched_at_-1", keys: bson.D{{Key: "cnpj", Value: 1}, {Key: "searched_at", Value: -1}}},
		{collection: AppConfig.CNPJLookupLogsCollection, name: "user_id_1_searched_at_-1", keys: bson.D{{Key: "user_id", Value: 1}, {Key: "searched_at", Value: -1}}},
		{collection: AppConfig.AuditLogsCollection, name: "resource_1_timestamp_-1", keys: bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
}

// InitMongoDB initializes the MongoDB connection
func InitMongoDB(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := ensureIndexes(ctx, MongoDB); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
	return nil
}

// InitRedis initializes the Redis connection. A failed ping is logged but not fatal,
// the cache layers degrade to misses.
func InitRedis(ctx context.Context) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis", zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks credentials in a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}

// ensureIndexes creates required indexes if they don't exist
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	logger := logging.Logger.Named("database")
	logger.Info("ensuring required indexes exist")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, spec := range requiredIndexes() {
		if err := ensureIndex(ctx, db.Collection(spec.collection), spec, logger); err != nil {
			return err
		}
	}

	logger.Info("all required indexes verified")
	return nil
}

func ensureIndex(ctx context.Context, collection *mongo.Collection, spec indexSpec, logger *logging.SafeLogger) error {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		logger.Error("failed to list indexes", zap.String("collection", spec.collection), zap.Error(err))
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok && name == spec.name {
			logger.Debug("index already exists",
				zap.String("collection", spec.collection),
				zap.String("index", spec.name))
			return nil
		}
	}

	model := mongo.IndexModel{
		Keys:    spec.keys,
		Options: options.Index().SetName(spec.name).SetUnique(spec.unique),
	}
	if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
		// another instance may have created it concurrently
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		logger.Error("failed to create index",
			zap.String("collection", spec.collection),
			zap.String("index", spec.name),
			zap.Error(err))
		return err
	}

	logger.Info("created index",
		zap.String("collection", spec.collection),
		zap.String("index", spec.name))
	return nil
}
