// Package db manages the MongoDB connection, its state and the collections.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection  = "users"
	videosCollection = "videos"

	maxConnectBackoff = 30 * time.Second
	pingTimeout       = 5 * time.Second
)

// Options controls how Connect reaches MongoDB.
type Options struct {
	URI      string
	Database string

	// ConnectRetries bounds the number of extra ping attempts after the first.
	ConnectRetries uint64
	// ConnectBackoff is the base delay, doubled on every failed attempt.
	ConnectBackoff time.Duration

	Logger zerolog.Logger
}

// Client wraps mongo.Client, tracks the connection state and exposes collections.
type Client struct {
	// client is the underlying MongoDB connection (thread-safe, can be reused)
	client *mongo.Client
	db     *mongo.Database

	state stateHolder
	log   zerolog.Logger
}

// Connect builds a driver client and pings the primary until it answers or
// the retry budget is exhausted.
func Connect(ctx context.Context, o Options) (*Client, error) {
	c := &Client{log: o.Logger.With().Str("component", "db").Logger()}
	c.state.store(Connecting)

	opts := options.Client().
		ApplyURI(o.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetServerMonitor(c.serverMonitor())

	client, err := mongo.Connect(opts)
	if err != nil {
		c.state.store(Disconnected)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	c.client = client
	c.db = client.Database(o.Database)

	backoff := retry.NewExponential(o.ConnectBackoff)
	backoff = retry.WithCappedDuration(maxConnectBackoff, backoff)
	backoff = retry.WithMaxRetries(o.ConnectRetries, backoff)

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("mongodb ping failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		c.state.store(Disconnected)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB after %d attempts: %w", attempt, err)
	}

	c.state.store(Connected)
	c.log.Info().Str("database", o.Database).Int("attempts", attempt).Msg("connected to mongodb")
	return c, nil
}

// writableKinds are the server kinds that accept writes.
var writableKinds = map[string]bool{
	"Standalone":   true,
	"RSPrimary":    true,
	"Mongos":       true,
	"LoadBalancer": true,
}

// writable reports whether the topology has a server that accepts writes.
func writable(td event.TopologyDescription) bool {
	for _, srv := range td.Servers {
		if writableKinds[srv.Kind] {
			return true
		}
	}
	return false
}

// serverMonitor derives the state from topology changes. A replica set stays
// connected while it has a primary, whatever its secondaries do. The driver
// reconnects on its own; the monitor only reflects what it observes.
func (c *Client) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		TopologyDescriptionChanged: func(e *event.TopologyDescriptionChangedEvent) {
			c.observeTopology(e.NewDescription)
		},
	}
}

func (c *Client) observeTopology(td event.TopologyDescription) {
	if writable(td) {
		if c.state.transition(Connected, Disconnecting) {
			c.log.Info().Str("topology", td.Kind).Msg("mongodb connection restored")
		}
		return
	}
	// Connect owns the state until its first ping answers
	if c.state.transition(Disconnected, Disconnecting, Connecting) {
		c.log.Error().Str("topology", td.Kind).Msg("mongodb connection lost: no writable server")
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	return c.state.load()
}

// UsersCollection returns the users collection.
func (c *Client) UsersCollection() *mongo.Collection {
	return c.db.Collection(usersCollection)
}

// VideosCollection returns the collection backing the latest-video lookup.
func (c *Client) VideosCollection() *mongo.Collection {
	return c.db.Collection(videosCollection)
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	c.state.store(Disconnecting)
	err := c.client.Disconnect(ctx)
	c.state.store(Disconnected)
	return err
}

// CreateIndexes creates the unique email index. Registration relies on it as
// the only duplicate guard.
func (c *Client) CreateIndexes(ctx context.Context) error {
	usersIndexModel := mongo.IndexModel{
		Keys:    map[string]int{"email": 1},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}

	if _, err := c.UsersCollection().Indexes().CreateOne(ctx, usersIndexModel); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	return nil
}
