package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postcache"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postrepo"
	"github.com/redis/go-redis/v9"
)

// tombstone marks a soft-deleted post so that a concurrent read-through
// cannot repopulate it.
const tombstone = "deleted"

type PostCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(rdb *redis.Client, expTime time.Duration) PostCache {
	return PostCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func key(id int64) string {
	return fmt.Sprintf("post:%d", id)
}

// GetPost returns postcache.ErrMiss when nothing is cached and postrepo.ErrNotFound when
// the post is known to be deleted.
func (pc PostCache) GetPost(ctx context.Context, id int64) (models.Post, error) {
	val, err := pc.rdb.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Post{}, postcache.ErrMiss
	} else if err != nil {
		return models.Post{}, fmt.Errorf("get error: %w", err)
	}

	if val == tombstone {
		return models.Post{}, postrepo.ErrNotFound
	}

	var p models.Post

	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return models.Post{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return p, nil
}

// AddPost caches p unless the key is already set, so a stale read never
// overwrites a tombstone.
func (pc PostCache) AddPost(ctx context.Context, p models.Post) error {
	postJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := pc.rdb.SetNX(ctx, key(p.ID), postJSON, pc.expTime).Err(); err != nil {
		return fmt.Errorf("setnx error: %w", err)
	}

	return nil
}

// refreshScript overwrites a cached post unless it is tombstoned.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// RefreshPost replaces whatever is cached for p with p itself, so a reader
// that loaded the previous version cannot put it back with AddPost.
func (pc PostCache) RefreshPost(ctx context.Context, p models.Post) error {
	postJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	err = refreshScript.Run(ctx, pc.rdb, []string{key(p.ID)},
		tombstone, postJSON, pc.expTime.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("refresh error: %w", err)
	}

	return nil
}

func (pc PostCache) MarkDeleted(ctx context.Context, id int64) error {
	if err := pc.rdb.Set(ctx, key(id), tombstone, pc.expTime).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}
