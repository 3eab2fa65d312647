// Package rds opens the redis client used by the cache
package rds

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/rueidis"
)

// Config configures redis connectivity
type Config struct {
	Addr       string
	Username   string
	Password   string
	DB         int
	ClientName string
	// DisableCache turns off rueidis client side caching, required for servers without RESP3 tracking
	DisableCache bool
}

var newClient = rueidis.NewClient

// Open creates a rueidis client and verifies it with PING
func Open(ctx context.Context, cfg Config) (rueidis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("rds: empty addr")
	}
	name := cfg.ClientName
	if name == "" {
		name = "xfriends"
	}
	client, err := newClient(rueidis.ClientOption{
		InitAddress:  []string{cfg.Addr},
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   name,
		DisableCache: cfg.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("rds: failed to create client for %s db %d: %w", cfg.Addr, cfg.DB, err)
	}
	if err := Ping(ctx, client); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Ping issues PING on c
func Ping(ctx context.Context, c rueidis.Client) error {
	if err := c.Do(ctx, c.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("rds: ping: %w", err)
	}
	return nil
}
