package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds short-lived copies of booking views and the aircraft list.
// It is never consulted when deciding a transition.
type RedisCache struct {
	client      redis.Cmdable
	bookingTTL  time.Duration
	aircraftTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, bookingTTL, aircraftTTL time.Duration) *RedisCache {
	return newRedisCache(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		bookingTTL,
		aircraftTTL,
	)
}

func newRedisCache(client redis.Cmdable, bookingTTL, aircraftTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, bookingTTL: bookingTTL, aircraftTTL: aircraftTTL}
}

func (c *RedisCache) GetBooking(ctx context.Context, id uuid.UUID) (*domain.BookingView, error) {
	var view domain.BookingView
	ok, err := c.getJSON(ctx, bookingKey(id), &view)
	if err != nil || !ok {
		return nil, err
	}
	return &view, nil
}

func (c *RedisCache) SetBooking(ctx context.Context, view *domain.BookingView) error {
	return c.setJSON(ctx, bookingKey(view.ID), view, c.bookingTTL)
}

func (c *RedisCache) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, bookingKey(id)).Err()
}

func (c *RedisCache) GetAircraft(ctx context.Context) ([]domain.Aircraft, error) {
	var fleet []domain.Aircraft
	ok, err := c.getJSON(ctx, aircraftKey(), &fleet)
	if err != nil || !ok {
		return nil, err
	}
	return fleet, nil
}

func (c *RedisCache) SetAircraft(ctx context.Context, fleet []domain.Aircraft) error {
	return c.setJSON(ctx, aircraftKey(), fleet, c.aircraftTTL)
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func bookingKey(id uuid.UUID) string {
	return fmt.Sprintf("cache:booking:%s", id)
}

func aircraftKey() string {
	return "cache:aircraft"
}
