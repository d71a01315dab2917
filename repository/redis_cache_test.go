package repository

import (
	"context"
	"testing"
	"time"
)

func TestNewRedisCache_PingBoundedByDialTimeout(t *testing.T) {

	start := time.Now()
	_, err := NewRedisCache(context.Background(), RedisOptions{
		// TEST-NET-1, never routable
		Addr:        "192.0.2.1:6379",
		DialTimeout: 100 * time.Millisecond,
	})
	if err == nil {
		t.Fatalf("expected connection error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("ping should give up after the dial timeout, took %s", elapsed)
	}
}
