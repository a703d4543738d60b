package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"parcel/internal/config"
	internalRedis "parcel/internal/redis"
)

// NewRedisClient connects the role cache and registration lock client, with
// New Relic datastore segments when nrApp is set.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(&nrRedisHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// keyspaces are the key prefixes reported as datastore collections.
var keyspaces = []string{internalRedis.RoleCachePrefix, internalRedis.EmailLockPrefix}

// keyspace names the collection a command works on, e.g. "cache:role" or
// "lock:user-email".
func keyspace(cmd redis.Cmder) string {
	args := cmd.Args()
	keyIndex := 1
	switch cmd.Name() {
	case "eval", "evalsha":
		// eval script numkeys key...
		keyIndex = 3
	}

	if len(args) > keyIndex {
		if key, ok := args[keyIndex].(string); ok {
			for _, prefix := range keyspaces {
				if strings.HasPrefix(key, prefix) {
					return strings.TrimSuffix(prefix, ":")
				}
			}
		}
	}
	return "redis"
}

// nrRedisHook records each command as a New Relic datastore segment.
type nrRedisHook struct{}

func (h *nrRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *nrRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  cmd.Name(),
				Collection: keyspace(cmd),
			}
			defer segment.End()
		}
		return next(ctx, cmd)
	}
}

func (h *nrRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			collection := "redis"
			if len(cmds) > 0 {
				collection = keyspace(cmds[0])
			}
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  "pipeline",
				Collection: collection,
			}
			defer segment.End()
		}
		return next(ctx, cmds)
	}
}
