package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"route-planner/internal/domain"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisGeocodeCache(rdb, ttl), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t, time.Hour)
	ctx := context.Background()

	items := []domain.GeocodeResult{
		{ID: "7", Label: "Rynek, Kraków", Lat: 50.0617, Lng: 19.9373},
	}

	if _, ok, err := c.Get(ctx, "rev:50.0617,19.9373"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, "rev:50.0617,19.9373", items); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "rev:50.0617,19.9373")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Label != "Rynek, Kraków" {
		t.Fatalf("items = %+v", got)
	}
}

func TestRedisCacheEntriesExpire(t *testing.T) {
	c, mr := newRedisCache(t, 10*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, "q:Długa", []domain.GeocodeResult{{ID: "1", Label: "Długa"}}); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(ctx, "q:Długa"); !ok {
		t.Fatal("expected hit before expiry")
	}

	mr.FastForward(11 * time.Minute)

	if _, ok, err := c.Get(ctx, "q:Długa"); err != nil || ok {
		t.Fatalf("expected miss after expiry, got ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheKeysAreNamespaced(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)

	if err := c.Put(context.Background(), "q:abc", nil); err != nil {
		t.Fatal(err)
	}

	if !mr.Exists("geocode:q:abc") {
		t.Fatalf("expected prefixed key, have %v", mr.Keys())
	}
}
