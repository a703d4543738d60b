package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"parcel/internal/config"
)

// NewMongoClient connects to MongoDB with the stable server API.
// If nrApp is provided, commands are reported to New Relic as datastore segments.
func NewMongoClient(ctx context.Context, cfg config.MongoConfig, nrApp *newrelic.Application) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.ConnectionURI()).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	if nrApp != nil {
		opts.SetMonitor(nrmongo.NewCommandMonitor(nil))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	// Verify connection.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// NewDatabase creates a new PostgreSQL connection pool.
// If nrApp is provided, it uses New Relic instrumented driver for automatic SQL tracing.
func NewDatabase(ctx context.Context, cfg config.PostgresConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	driver := "postgres"
	// The "nrpostgres" driver is registered by the nrpq import.
	if nrApp != nil {
		driver = "nrpostgres"
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", driver, err)
	}

	// Pool sizing for a small API instance; keep lifetime under proxy idle timeouts.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection.
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
