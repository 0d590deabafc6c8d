package redisstore

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

// creates new client connected to miniredis for testing
func newMini(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	rc, err := New(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestSetGetDel_HappyPath(t *testing.T) {
	rc, _ := newMini(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := rc.Set(ctx, "k1", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := rc.Get(ctx, "k1")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("Get=%q ok=%v err=%v", got, ok, err)
	}

	if err := rc.Del(ctx, "k1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	_, ok, err = rc.Get(ctx, "k1")
	if err != nil || ok {
		t.Fatalf("expected miss after Del, ok=%v err=%v", ok, err)
	}
}

func TestGet_MissIsNotError(t *testing.T) {
	rc, _ := newMini(t)
	_, ok, err := rc.Get(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}
}

func TestSet_TTLExpires(t *testing.T) {
	rc, mr := newMini(t)
	ctx := context.Background()
	if err := rc.Set(ctx, "k", []byte("v"), 10*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != 10*time.Second {
		t.Fatalf("ttl=%v want 10s", ttl)
	}
	mr.FastForward(11 * time.Second)
	if _, ok, _ := rc.Get(ctx, "k"); ok {
		t.Fatalf("expected key to expire")
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	if _, err := New(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNew_PingFailure(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := New(ctx, addr, WithDialTimeout(200*time.Millisecond)); err == nil {
		t.Fatalf("expected ping error against closed server")
	}
}
