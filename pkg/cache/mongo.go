package cache

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultMongoCollection = "cache"
	defaultMongoTimeout    = 5 * time.Second
)

// MongoOptions configures a MongoCache.
type MongoOptions struct {
	// Client is used as is when set; otherwise URI is dialed.
	Client     *mongo.Client
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoCache stores one document per key. A TTL index on expires_at lets
// the server reap expired entries; Get also checks expiry because the
// reaper runs only once a minute.
type MongoCache struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	owned   bool
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects (unless opts.Client is set), pings the primary
// and ensures the TTL index.
func NewMongoCache(ctx context.Context, opts MongoOptions) (*MongoCache, error) {
	if opts.Database == "" {
		return nil, wrap("open", "mongo", errors.New("database name is required"))
	}
	if opts.Collection == "" {
		opts.Collection = defaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultMongoTimeout
	}

	client, owned := opts.Client, false
	if client == nil {
		if opts.URI == "" {
			return nil, wrap("open", "mongo", errors.New("uri or client is required"))
		}
		var err error
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
		if err != nil {
			return nil, wrap("connect", "mongo", err)
		}
		owned = true
	}

	c := &MongoCache{
		client:  client,
		coll:    client.Database(opts.Database).Collection(opts.Collection),
		timeout: opts.Timeout,
		owned:   owned,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		c.Close()
		return nil, wrap("ping", "mongo", err)
	}
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		c.Close()
		return nil, wrap("index", "mongo", err)
	}
	return c, nil
}

// Get implements Cache.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap("get", "mongo", err)
	}
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements Cache.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := time.Now().Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	return wrap("set", "mongo", err)
}

// Delete implements Cache.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return wrap("delete", "mongo", err)
}

// Close disconnects a client the cache dialed itself.
func (c *MongoCache) Close() error {
	if !c.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
