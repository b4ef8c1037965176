package common

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Titan-M/mailsift/pkg/types"
)

// RedisClient wraps a go-redis universal client so callers don't care
// whether they're talking to a single node or a cluster.
type RedisClient struct {
	redis.UniversalClient
}

type redisClientOptions struct {
	clientName string
}

type RedisClientOption func(*redisClientOptions)

func WithClientName(name string) RedisClientOption {
	return func(o *redisClientOptions) {
		o.clientName = name
	}
}

func NewRedisClient(cfg types.RedisConfig, opts ...RedisClientOption) (*RedisClient, error) {
	options := &redisClientOptions{clientName: cfg.ClientName}
	for _, opt := range opts {
		opt(options)
	}

	universalOpts := &redis.UniversalOptions{
		Addrs:        cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		ClientName:   options.clientName,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
	}

	if cfg.EnableTLS {
		universalOpts.TLSConfig = &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
	}

	var client redis.UniversalClient
	switch cfg.Mode {
	case types.RedisModeCluster:
		client = redis.NewClusterClient(universalOpts.Cluster())
	default:
		client = redis.NewClient(universalOpts.Simple())
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{UniversalClient: client}, nil
}
