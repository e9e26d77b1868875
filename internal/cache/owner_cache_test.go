package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

type countingUsers struct {
	*repository.MemoryUserRepository
	listCalls int
	lastIDs   []string
}

func (c *countingUsers) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	c.listCalls++
	c.lastIDs = ids
	return c.MemoryUserRepository.ListByIDs(ctx, ids)
}

func seedUsers(t *testing.T) *countingUsers {
	t.Helper()
	users := &countingUsers{MemoryUserRepository: repository.NewMemoryUserRepository()}
	for _, u := range []domain.User{
		{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser},
		{ID: "u-2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser},
	} {
		u := u
		if err := users.Create(context.Background(), &u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return users
}

func TestOwnerCache_WithoutRedis(t *testing.T) {
	users := seedUsers(t)
	c := NewOwnerCache(users, nil, time.Minute, nil)

	owners, err := c.Resolve(context.Background(), []string{"u-1", "u-1", "ghost"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(owners) != 1 || owners["u-1"].Email != "alice@example.com" {
		t.Fatalf("unexpected owners %+v", owners)
	}
	if len(users.lastIDs) != 2 {
		t.Fatalf("ids should be deduplicated, got %v", users.lastIDs)
	}
}

func TestOwnerCache_ReadThrough(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := seedUsers(t)
	c := NewOwnerCache(users, client, time.Minute, nil)
	ctx := context.Background()

	if _, err := c.Resolve(ctx, []string{"u-1", "u-2"}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if users.listCalls != 1 {
		t.Fatalf("expected 1 repository call, got %d", users.listCalls)
	}
	if !srv.Exists("owner:u-1") || !srv.Exists("owner:u-2") {
		t.Fatalf("owners not cached: %v", srv.Keys())
	}
	if ttl := srv.TTL("owner:u-1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	owners, err := c.Resolve(ctx, []string{"u-2", "u-1"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if users.listCalls != 1 {
		t.Fatalf("cached owners should not hit the repository, got %d calls", users.listCalls)
	}
	if owners["u-2"].Name != "Bob" || owners["u-1"].ID != "u-1" {
		t.Fatalf("unexpected owners %+v", owners)
	}

	srv.FastForward(time.Minute + time.Second)
	if _, err := c.Resolve(ctx, []string{"u-1"}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if users.listCalls != 2 {
		t.Fatalf("expired owner should be reloaded, got %d calls", users.listCalls)
	}
}

func TestOwnerCache_RedisDownFallsBack(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	srv.Close()

	users := seedUsers(t)
	c := NewOwnerCache(users, client, time.Minute, nil)

	owners, err := c.Resolve(context.Background(), []string{"u-1"})
	if err != nil {
		t.Fatalf("redis outage must not fail resolve: %v", err)
	}
	if owners["u-1"].Name != "Alice" {
		t.Fatalf("unexpected owners %+v", owners)
	}
}
