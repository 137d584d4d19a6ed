package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"water-delivery-api/config"
)

// Collection names consumed by this system. They are created implicitly on
// first write; no migrations exist.
const (
	colUsers    = "Users"
	colProducts = "Products"
	colOrders   = "Orders"
	colHistory  = "OrderHistory"
)

var (
	// ErrUnavailable is returned by every store operation when the database
	// handle could not be established. Services translate it into degraded
	// results (empty lists, false, -1 sentinels) instead of failing the
	// request pipeline.
	ErrUnavailable = errors.New("store: database unavailable")

	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("store: not found")

	// ErrNotAcknowledged is returned when the server does not acknowledge a
	// write. Writes are never retried.
	ErrNotAcknowledged = errors.New("store: write not acknowledged")
)

var (
	connectOnce sync.Once
	database    *mongo.Database
)

// Database returns the shared database handle, connecting on first use and
// caching the result for the process lifetime. On connection failure it
// returns nil — an inert handle — so callers degrade gracefully instead of
// crashing; the driver itself pools connections and is safe for concurrent
// use, no extra locking is added here.
func Database(uri string) *mongo.Database {
	connectOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			log.Error().Err(err).Msg("mongodb connection failed")
			return
		}
		if err := client.Ping(ctx, nil); err != nil {
			log.Error().Err(err).Msg("mongodb ping failed")
			return
		}
		database = client.Database(config.DatabaseName)
		log.Info().Str("database", config.DatabaseName).Msg("mongodb connected")
	})
	return database
}
