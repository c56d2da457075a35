package storage_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/badalot/crm-banking-insurance/internal/repo/storage"
)

func newRedisStore(t *testing.T) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := storage.NewRedisStore(client, "test:")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	want := testSession()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected a session after save")
	}
	if got.Token != want.Token || got.User.ID != want.User.ID {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
	if len(got.User.Roles) != 1 || len(got.User.Roles[0].Permissions) != 1 {
		t.Fatalf("role graph not preserved: %+v", got.User.Roles)
	}
}

func TestRedisStoreLoadEmpty(t *testing.T) {
	store, _ := newRedisStore(t)

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load on empty redis: %v", err)
	}
	if ok {
		t.Fatal("expected no session")
	}
}

func TestRedisStoreLoadFailsSoftOnPartialState(t *testing.T) {
	store, mr := newRedisStore(t)

	// Token without a profile reads as absent.
	mr.Set("test:session:token", "tok1")

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load must fail soft, got error: %v", err)
	}
	if ok {
		t.Fatal("partial state must read as absent")
	}
}

func TestRedisStoreLoadFailsSoftOnMalformedProfile(t *testing.T) {
	store, mr := newRedisStore(t)

	mr.Set("test:session:token", "tok1")
	mr.Set("test:session:user", "{not json")

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load must fail soft, got error: %v", err)
	}
	if ok {
		t.Fatal("malformed profile must read as absent")
	}
}

func TestRedisStoreLoadErrorsWhenUnreachable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, _, err := store.Load(context.Background())
	if err == nil {
		t.Fatal("expected an error when redis is unreachable")
	}
}

func TestRedisStoreClearIdempotent(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("first clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	_, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if ok {
		t.Fatal("expected empty store after clear")
	}
}
