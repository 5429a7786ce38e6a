package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	schemaCachePrefix     = "schema:"
	defaultSchemaCacheTTL = 5 * time.Minute
)

// SchemaCache stores rendered schema context text per database
type SchemaCache struct {
	client *Client
	ttl    time.Duration
}

// NewSchemaCache creates a new schema cache. A non-positive ttl uses five minutes.
func NewSchemaCache(client *Client, ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		ttl = defaultSchemaCacheTTL
	}
	return &SchemaCache{client: client, ttl: ttl}
}

func schemaKey(dbType, database string) string {
	return fmt.Sprintf("%s%s:%s", schemaCachePrefix, dbType, database)
}

// Get retrieves the cached schema context. A miss returns ok == false and no error.
func (c *SchemaCache) Get(ctx context.Context, dbType, database string) (string, bool, error) {
	schema, err := c.client.rdb.Get(ctx, schemaKey(dbType, database)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read schema cache: %w", err)
	}
	return schema, true, nil
}

// Set caches the schema context for a database
func (c *SchemaCache) Set(ctx context.Context, dbType, database, schema string) error {
	if err := c.client.rdb.Set(ctx, schemaKey(dbType, database), schema, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write schema cache: %w", err)
	}
	return nil
}

// Invalidate removes the cached schema for a database
func (c *SchemaCache) Invalidate(ctx context.Context, dbType, database string) error {
	return c.client.rdb.Del(ctx, schemaKey(dbType, database)).Err()
}

// FlushAll removes all cached schemas
func (c *SchemaCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := schemaCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
