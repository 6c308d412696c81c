// Package geocode turns coordinates into a human-readable address using a
// Nominatim-compatible reverse endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hazardsync/internal/config"
	"hazardsync/internal/domain"
)

var ErrDisabled = errors.New("reverse geocoding is not configured")

type Cache interface {
	Get(ctx context.Context, lat, lng float64) (string, bool, error)
	Set(ctx context.Context, lat, lng float64, address string) error
}

type Resolver interface {
	Resolve(ctx context.Context, lat, lng float64) string
}

type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	cache     Cache
	logger    *slog.Logger
}

// NewClient builds a reverse geocoder. cache may be nil.
func NewClient(cfg config.GeocodeConfig, cache Cache, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		http:      &http.Client{},
		// Nominatim usage policy: at most one request per second
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		cache:   cache,
		logger:  logger,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Reverse looks up an address, consulting the cache first.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	const op = "geocode.Client.Reverse"

	if c.baseURL == "" {
		return "", ErrDisabled
	}

	if c.cache != nil {
		addr, ok, err := c.cache.Get(ctx, lat, lng)
		if err != nil {
			c.logger.Warn("address cache read failed", slog.String("op", op), slog.Any("error", err))
		} else if ok {
			return addr, nil
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s: rate limit: %w", op, err)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	params.Set("format", "jsonv2")
	params.Set("zoom", "18")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode: %w", op, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%s: %s", op, out.Error)
	}
	addr := strings.TrimSpace(out.DisplayName)
	if addr == "" {
		return "", fmt.Errorf("%s: empty address", op)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, lat, lng, addr); err != nil {
			c.logger.Warn("address cache write failed", slog.String("op", op), slog.Any("error", err))
		}
	}
	return addr, nil
}

// Resolve never fails: on any lookup error it returns the raw coordinate label.
// A cancelled ctx also yields the label.
func (c *Client) Resolve(ctx context.Context, lat, lng float64) string {
	addr, err := c.Reverse(ctx, lat, lng)
	if err != nil {
		if !errors.Is(err, ErrDisabled) && ctx.Err() == nil {
			c.logger.Info("reverse geocoding failed, using coordinates",
				slog.Float64("lat", lat),
				slog.Float64("lng", lng),
				slog.Any("error", err))
		}
		return domain.CoordinateLabel(lat, lng)
	}
	return addr
}

// Fallback is a Resolver that always returns the coordinate label.
type Fallback struct{}

func (Fallback) Resolve(_ context.Context, lat, lng float64) string {
	return domain.CoordinateLabel(lat, lng)
}
