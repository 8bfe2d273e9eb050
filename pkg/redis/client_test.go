package redis

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	sets map[string]string
	gets map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{sets: map[string]string{}, gets: map[string]string{}}
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.sets[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f.gets[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.gets, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRateKeyNamespacesAndUppercases(t *testing.T) {
	c := &Client{store: newFakeStore()}
	got := c.RateKey("us", "np")
	if got != "xb:rate:US:NP" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newFakeStore()
	c := &Client{store: store}

	if err := c.Set(context.Background(), "xb:rate:US:NP", `{"rate":132.5}`, time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if store.sets["xb:rate:US:NP"] != `{"rate":132.5}` {
		t.Fatalf("value not stored: %v", store.sets)
	}

	_, err := c.Get(context.Background(), "missing")
	if !IsMiss(err) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error for empty config")
	}

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 5 {
		t.Fatalf("options not applied: %+v", opts)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	c := &Client{}
	if err := c.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
	if _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
}
