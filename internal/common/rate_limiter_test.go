package common

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestLocalLimiter_BurstThenDeny(t *testing.T) {
	l := NewLocalLimiter(0.001, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "10.0.0.1"); !ok {
			t.Fatalf("request %d should pass within burst", i)
		}
	}
	if ok, _ := l.Allow(ctx, "10.0.0.1"); ok {
		t.Error("expected request beyond burst to be denied")
	}

	// Keys have separate buckets.
	if ok, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Error("expected other key to be allowed")
	}
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "")
	defer client.Close()

	l := NewRedisLimiter(client, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should pass", i)
		}
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if ok {
		t.Error("expected third request in window to be denied")
	}

	ok, _ = l.Allow(ctx, "10.0.0.2")
	if !ok {
		t.Error("expected other key to be allowed")
	}

	// Every counter key carries an expiry.
	for _, key := range mr.Keys() {
		if mr.TTL(key) <= 0 {
			t.Errorf("key %s has no ttl", key)
		}
	}
}

func TestRedisLimiter_ErrorWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "")
	defer client.Close()
	mr.Close()

	l := NewRedisLimiter(client, 2, time.Hour)
	if _, err := l.Allow(context.Background(), "10.0.0.1"); err == nil {
		t.Error("expected error when redis is unreachable")
	}
}
