package timetracking

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

type RedisTokenStore struct {
	client rueidis.Client
	key    string
}

func NewRedisTokenStore(client rueidis.Client, key string) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		key:    key,
	}
}

func (r *RedisTokenStore) Get(ctx context.Context) (string, error) {
	cmd := r.client.B().Get().Key(r.key).Build()
	token, err := r.client.Do(ctx, cmd).ToString()

	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", ErrNoToken
		}
		return "", err
	}

	return token, nil
}

func (r *RedisTokenStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	cmd := r.client.B().Set().Key(r.key).Value(token).Ex(ttl).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisTokenStore) Clear(ctx context.Context) error {
	cmd := r.client.B().Del().Key(r.key).Build()
	return r.client.Do(ctx, cmd).Error()
}
