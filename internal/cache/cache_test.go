// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "card:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestCardCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewCardCache(client, 1*time.Minute)

	ctx := context.Background()
	key := Key(uuid.New(), 1, uuid.New())

	// Miss.
	data, ok := cc.Get(ctx, key)
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	// Set then hit.
	pdf := []byte("%PDF-1.7 fake body")
	cc.Set(ctx, key, pdf)

	data, ok = cc.Get(ctx, key)
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(pdf) {
		t.Errorf("data mismatch: got %q, want %q", data, pdf)
	}
}

func TestCardCacheVersionSeparatesKeys(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewCardCache(client, 1*time.Minute)

	ctx := context.Background()
	templateID := uuid.New()
	studentID := uuid.New()

	cc.Set(ctx, Key(templateID, 1, studentID), []byte("v1"))

	// A version bump must not see the old entry.
	if _, ok := cc.Get(ctx, Key(templateID, 2, studentID)); ok {
		t.Error("expected miss for bumped template version")
	}
	if data, ok := cc.Get(ctx, Key(templateID, 1, studentID)); !ok || string(data) != "v1" {
		t.Error("old version entry should still be readable")
	}
}

func TestCardCacheInvalidateTemplate(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewCardCache(client, 1*time.Minute)

	ctx := context.Background()
	templateID := uuid.New()
	otherTemplate := uuid.New()
	studentID := uuid.New()

	cc.Set(ctx, Key(templateID, 1, studentID), []byte("a"))
	cc.Set(ctx, Key(templateID, 2, studentID), []byte("b"))
	cc.Set(ctx, Key(otherTemplate, 1, studentID), []byte("c"))

	cc.InvalidateTemplate(ctx, templateID)

	if _, ok := cc.Get(ctx, Key(templateID, 1, studentID)); ok {
		t.Error("expected v1 entry gone after template invalidation")
	}
	if _, ok := cc.Get(ctx, Key(templateID, 2, studentID)); ok {
		t.Error("expected v2 entry gone after template invalidation")
	}
	if _, ok := cc.Get(ctx, Key(otherTemplate, 1, studentID)); !ok {
		t.Error("other template's entries must survive")
	}
}

func TestCardCacheInvalidateStudent(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewCardCache(client, 1*time.Minute)

	ctx := context.Background()
	templateID := uuid.New()
	studentID := uuid.New()
	otherStudent := uuid.New()

	cc.Set(ctx, Key(templateID, 1, studentID), []byte("mine"))
	cc.Set(ctx, Key(templateID, 1, otherStudent), []byte("theirs"))

	cc.InvalidateStudent(ctx, studentID)

	if _, ok := cc.Get(ctx, Key(templateID, 1, studentID)); ok {
		t.Error("expected student's entry gone after invalidation")
	}
	if _, ok := cc.Get(ctx, Key(templateID, 1, otherStudent)); !ok {
		t.Error("other student's entry must survive")
	}
}
