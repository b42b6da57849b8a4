package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestNextSequence(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	first, err := client.NextSequence(ctx, "order_number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.NextSequence(ctx, "order_number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("expected sequence 1,2 got %d,%d", first, second)
	}
	if mock.incr["sf:counter:order_number"] != 2 {
		t.Fatalf("expected counter stored under namespaced key, got %v", mock.incr)
	}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, "sf:cart:s1:view", "payload", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "sf:cart:s1:view")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "payload" {
		t.Fatalf("expected stored payload, got %q", value)
	}

	if err := client.Del(ctx, "sf:cart:s1:view"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "sf:cart:s1:view"); !IsMiss(err) {
		t.Fatalf("expected cache miss after delete, got %v", err)
	}
}

func TestHashWithTTL(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.BrandingLogosKey()
	if err := client.HSetWithTTL(ctx, key, "dark", "https://cdn/logo-dark.png", time.Hour); err != nil {
		t.Fatalf("hset failed: %v", err)
	}
	values, err := client.HGetAll(ctx, key)
	if err != nil {
		t.Fatalf("hgetall failed: %v", err)
	}
	if values["dark"] != "https://cdn/logo-dark.png" {
		t.Fatalf("unexpected hash contents %v", values)
	}
	if len(mock.expireCalls) != 1 || mock.expireCalls[0].ttl != time.Hour {
		t.Fatalf("expected ttl refresh, got %+v", mock.expireCalls)
	}
}

func TestNilClientReturnsErrors(t *testing.T) {
	var client *Client
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options db=%d pool=%d", opts.DB, opts.PoolSize)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "sf:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.CounterKey("hits"); got != "sf:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
	if got := client.CartViewKey("abc"); got != "sf:cart:abc:view" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.BrandingLogosKey(); got != "sf:branding:logos" {
		t.Fatalf("unexpected branding key %s", got)
	}
	if got := client.CartViewKey(""); got != "sf:cart:view" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	hashes      map[string]map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:   make(map[string]string),
		hashes: make(map[string]map[string]string),
		incr:   make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
		delete(m.hashes, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (m *mockCmdable) HSet(ctx context.Context, key string, values ...any) *redis.IntCmd {
	hash, ok := m.hashes[key]
	if !ok {
		hash = map[string]string{}
		m.hashes[key] = hash
	}
	for i := 0; i+1 < len(values); i += 2 {
		hash[fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}
