package redis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// AddressCache stores reverse-geocoded addresses keyed by coordinates
// rounded to ~11m so nearby taps share an entry.
type AddressCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewAddressCache(r *Redis, ttl time.Duration) *AddressCache {
	return &AddressCache{
		client: r.Client,
		prefix: "geocode:address:",
		ttl:    ttl,
	}
}

func (c *AddressCache) key(lat, lng float64) string {
	return fmt.Sprintf("%s%.4f,%.4f", c.prefix, round4(lat), round4(lng))
}

func round4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}

// Get returns ("", false, nil) on a cache miss.
func (c *AddressCache) Get(ctx context.Context, lat, lng float64) (string, bool, error) {
	v, err := c.client.Get(ctx, c.key(lat, lng)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (c *AddressCache) Set(ctx context.Context, lat, lng float64, address string) error {
	return c.client.Set(ctx, c.key(lat, lng), address, c.ttl).Err()
}
