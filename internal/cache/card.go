// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// card.go provides a Valkey-backed cache for rendered single-student card
// PDFs. Rendering is deterministic for a fixed (template version, student)
// pair, so the cache key includes the template version: editing a template
// bumps its version and the stale entries simply age out. Batch PDFs are
// streamed and never cached.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// cardKeyPrefix is the Valkey key prefix for cached card PDFs.
	cardKeyPrefix = "card:"

	// DefaultCardTTL is how long a rendered card stays cached.
	DefaultCardTTL = 15 * time.Minute
)

// CardCache manages rendered card PDF caching in Valkey.
type CardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCardCache creates a new card cache backed by the given Valkey client.
func NewCardCache(client *redis.Client, ttl time.Duration) *CardCache {
	if ttl == 0 {
		ttl = DefaultCardTTL
	}
	return &CardCache{client: client, ttl: ttl}
}

// Key builds the cache key for one student's card under one template version.
func Key(templateID uuid.UUID, version int, studentID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%d:%s", cardKeyPrefix, templateID, version, studentID)
}

// Get retrieves a cached card PDF. Returns false on miss; cache errors are
// logged and treated as misses so rendering always has a fallback path.
func (cc *CardCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("card cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("card cache hit", "key", key)
	return val, true
}

// Set stores a rendered card PDF with the configured TTL.
func (cc *CardCache) Set(ctx context.Context, key string, pdf []byte) {
	if err := cc.client.Set(ctx, key, pdf, cc.ttl).Err(); err != nil {
		slog.Warn("card cache set error", "key", key, "error", err)
	}
}

// InvalidateStudent removes every cached card for one student across all
// template versions. Called when the student's data or photo changes.
func (cc *CardCache) InvalidateStudent(ctx context.Context, studentID uuid.UUID) {
	cc.deleteByPattern(ctx, cardKeyPrefix+"*:*:"+studentID.String())
}

// InvalidateTemplate removes every cached card rendered from a template.
// Version bumps already make old entries unreachable; this frees them
// eagerly when a template is deleted.
func (cc *CardCache) InvalidateTemplate(ctx context.Context, templateID uuid.UUID) {
	cc.deleteByPattern(ctx, cardKeyPrefix+templateID.String()+":*")
}

// deleteByPattern scan-deletes keys matching the pattern.
func (cc *CardCache) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("card cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("card cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("card cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}
