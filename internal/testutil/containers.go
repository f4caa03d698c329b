// Package testutil starts the MongoDB and Redis containers used by the
// integration tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/nova-solidum/app-onboarding/internal/redisclient"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDatabase is the database name used by integration tests
const TestDatabase = "onboarding_test"

// TestContainers holds references to test containers
type TestContainers struct {
	MongoContainer *mongodb.MongoDBContainer
	RedisContainer *redis.RedisContainer
	MongoDB        *mongo.Database
	Redis          *redisclient.Client
}

// SkipUnlessIntegration skips t in short mode or when INTEGRATION_TESTS is unset
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests")
	}
}

// SetupTestContainers starts a single-node MongoDB replica set, so change
// streams work, and a Redis server. Everything is torn down with t.Cleanup.
func SetupTestContainers(t *testing.T) *TestContainers {
	t.Helper()
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7.0", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err, "Failed to start MongoDB container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(mongoContainer) })

	redisContainer, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(redisContainer) })

	mongoURI, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get MongoDB connection string")

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetDirect(true))
	require.NoError(t, err, "Failed to connect to MongoDB")
	t.Cleanup(func() { _ = mongoClient.Disconnect(context.Background()) })
	require.NoError(t, mongoClient.Ping(ctx, nil), "Failed to ping MongoDB")

	redisURI, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get Redis connection string")
	redisOpts, err := goredis.ParseURL(redisURI)
	require.NoError(t, err, "Failed to parse Redis connection string")
	rawRedis := goredis.NewClient(redisOpts)
	t.Cleanup(func() { _ = rawRedis.Close() })

	return &TestContainers{
		MongoContainer: mongoContainer,
		RedisContainer: redisContainer,
		MongoDB:        mongoClient.Database(TestDatabase),
		Redis:          redisclient.NewClient(rawRedis),
	}
}
