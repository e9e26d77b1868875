package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

const ownerKeyPrefix = "owner:"

type cachedOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnerCache resolves owner display fields, reading through Redis when a client is configured.
// Redis failures fall back to the user repository.
type OwnerCache struct {
	users  repository.UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewOwnerCache builds the resolver. client may be nil.
func NewOwnerCache(users repository.UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *OwnerCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OwnerCache{users: users, client: client, ttl: ttl, logger: logger}
}

// Resolve returns owners keyed by id. Unknown ids are absent from the result.
func (c *OwnerCache) Resolve(ctx context.Context, ids []string) (map[string]domain.Owner, error) {
	ids = unique(ids)
	owners := make(map[string]domain.Owner, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	missing := ids
	if c.client != nil {
		missing = c.readCached(ctx, ids, owners)
	}
	if len(missing) == 0 {
		return owners, nil
	}

	users, err := c.users.ListByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	fetched := make([]domain.Owner, 0, len(users))
	for i := range users {
		owner := users[i].Owner()
		owners[owner.ID] = owner
		fetched = append(fetched, owner)
	}
	if c.client != nil {
		c.store(ctx, fetched)
	}
	return owners, nil
}

func (c *OwnerCache) readCached(ctx context.Context, ids []string, owners map[string]domain.Owner) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ownerKeyPrefix + id
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("owner cache read failed", zap.Error(err))
		return ids
	}

	var missing []string
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var cached cachedOwner
		if err := json.Unmarshal([]byte(str), &cached); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		owners[ids[i]] = domain.Owner{ID: ids[i], Name: cached.Name, Email: cached.Email}
	}
	return missing
}

func (c *OwnerCache) store(ctx context.Context, owners []domain.Owner) {
	if len(owners) == 0 {
		return
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, owner := range owners {
			payload, err := json.Marshal(cachedOwner{Name: owner.Name, Email: owner.Email})
			if err != nil {
				return err
			}
			pipe.Set(ctx, ownerKeyPrefix+owner.ID, payload, c.ttl)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("owner cache write failed", zap.Error(err))
	}
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
