package cachesvc

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/edutube/core/video"
)

const keyPrefix = "edutube:video:"

// VideoCache keeps the top search hit of a query in Redis.
type VideoCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ video.Cache = (*VideoCache)(nil) // interface compliance check

func NewVideoCache(rdb redis.UniversalClient, ttl time.Duration) *VideoCache {
	return &VideoCache{rdb: rdb, ttl: ttl}
}

// Connect opens a Redis client and checks that it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

func key(query string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(query))
}

func (c *VideoCache) Get(ctx context.Context, query string) (video.Result, bool, error) {
	data, err := c.rdb.Get(ctx, key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return video.Result{}, false, nil
	}
	if err != nil {
		return video.Result{}, false, errors.Wrap(err, "redis get")
	}

	var res video.Result
	if err = json.Unmarshal(data, &res); err != nil {
		return video.Result{}, false, errors.Wrap(err, "decoding cached video")
	}
	return res, true, nil
}

func (c *VideoCache) Set(ctx context.Context, query string, res video.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "encoding video")
	}
	return errors.Wrap(c.rdb.Set(ctx, key(query), data, c.ttl).Err(), "redis set")
}
