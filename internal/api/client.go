package api

import (
	"context"
	"log"
	"time"

	"github.com/mrlokans/shayfa/internal/config"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/token"
)

// Store is the record storage the facade delegates to.
type Store interface {
	Get(ctx context.Context, collection, id string) (entities.Record, error)
	List(ctx context.Context, collection string) ([]entities.Record, error)
	Put(ctx context.Context, collection string, rec entities.Record) (entities.Record, error)
	Insert(ctx context.Context, collection string, rec entities.Record) (entities.Record, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
	Ready() bool
}

// Options configures a Client.
type Options struct {
	Latency    time.Duration
	TokenTTL   time.Duration
	BcryptCost int

	BootstrapEmail    string
	BootstrapPassword string

	Now func() time.Time
}

// OptionsFromConfig maps application configuration onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Latency:           cfg.API.Latency,
		TokenTTL:          cfg.Auth.TokenTTL,
		BcryptCost:        cfg.Auth.BcryptCost,
		BootstrapEmail:    cfg.Auth.BootstrapEmail,
		BootstrapPassword: cfg.Auth.BootstrapPassword,
	}
}

// Client is the latency simulating facade over the record store.
type Client struct {
	store Store
	codec token.Codec
	opts  Options
}

func NewClient(store Store, codec token.Codec, opts Options) *Client {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{store: store, codec: codec, opts: opts}
}

// Ready reports whether the underlying store persists records.
func (c *Client) Ready() bool {
	return c.store.Ready()
}

// Codec returns the token codec used to mint session tokens.
func (c *Client) Codec() token.Codec {
	return c.codec
}

// Get returns the record, or nil when it does not exist.
func (c *Client) Get(ctx context.Context, collection, id string) (entities.Record, error) {
	if err := c.wait(ctx); err != nil {
		return nil, requestError(OpGet, collection, err)
	}
	rec, err := c.store.Get(ctx, collection, id)
	if err != nil {
		log.Printf("API error (GET %s/%s): %v", collection, id, err)
		return nil, requestError(OpGet, collection, err)
	}
	return rec, nil
}

// List returns every record in the collection.
func (c *Client) List(ctx context.Context, collection string) ([]entities.Record, error) {
	if err := c.wait(ctx); err != nil {
		return nil, requestError(OpGet, collection, err)
	}
	recs, err := c.store.List(ctx, collection)
	if err != nil {
		log.Printf("API error (GET %s): %v", collection, err)
		return nil, requestError(OpGet, collection, err)
	}
	return recs, nil
}

// Post creates a record. A record whose id is already taken is rejected.
func (c *Client) Post(ctx context.Context, collection string, rec entities.Record) (entities.Record, error) {
	if err := c.wait(ctx); err != nil {
		return nil, requestError(OpPost, collection, err)
	}
	stored, err := c.store.Insert(ctx, collection, rec)
	if err != nil {
		log.Printf("API error (POST %s): %v", collection, err)
		return nil, requestError(OpPost, collection, err)
	}
	return stored, nil
}

// Put replaces the record identified by id, or by rec["id"] when id is empty.
func (c *Client) Put(ctx context.Context, collection, id string, rec entities.Record) (entities.Record, error) {
	if err := c.wait(ctx); err != nil {
		return nil, requestError(OpPut, collection, err)
	}
	if id == "" {
		id = rec.ID()
	}
	if id == "" {
		return nil, requestError(OpPut, collection, ErrMissingID)
	}

	final := rec.Clone()
	if final == nil {
		final = entities.Record{}
	}
	final["id"] = id

	stored, err := c.store.Put(ctx, collection, final)
	if err != nil {
		log.Printf("API error (PUT %s/%s): %v", collection, id, err)
		return nil, requestError(OpPut, collection, err)
	}
	return stored, nil
}

// Delete removes the record and reports whether it existed.
func (c *Client) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := c.wait(ctx); err != nil {
		return false, requestError(OpDelete, collection, err)
	}
	existed, err := c.store.Delete(ctx, collection, id)
	if err != nil {
		log.Printf("API error (DELETE %s/%s): %v", collection, id, err)
		return false, requestError(OpDelete, collection, err)
	}
	return existed, nil
}

// wait blocks for the configured latency or until ctx is done.
func (c *Client) wait(ctx context.Context) error {
	if c.opts.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.opts.Latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
