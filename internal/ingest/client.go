// Package ingest delivers pending reports to the remote ingestion endpoint.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"hazardsync/internal/config"
	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	maxResponseBody      = 64 << 10
)

type Client struct {
	url       string
	healthURL string
	token     string
	timeout   time.Duration
	http      *http.Client
	logger    *slog.Logger
}

func NewClient(cfg config.IngestConfig, logger *slog.Logger) *Client {
	return &Client{
		url:       cfg.URL,
		healthURL: cfg.HealthURL,
		token:     cfg.Token,
		timeout:   cfg.Timeout,
		http:      &http.Client{},
		logger:    logger,
	}
}

type ingestResponse struct {
	OK    *bool  `json:"ok"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Send performs one delivery attempt. The report id travels as the
// idempotency key so a retried delivery is recognised by the server.
func (c *Client) Send(ctx context.Context, r domain.PendingReport) (domain.IngestReceipt, error) {
	const op = "ingest.Client.Send"

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, contentType, err := encode(r)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("%s: encode: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderIdempotencyKey, r.ID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.IngestReceipt{}, fmt.Errorf("%s: %w: %w", op, e.ErrDelivery, ctxErr)
		}
		return domain.IngestReceipt{}, fmt.Errorf("%s: %w: %v", op, e.ErrDelivery, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("%s: %w: read body: %v", op, e.ErrDelivery, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := e.ErrDelivery
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusRequestTimeout {
			kind = e.ErrRejected
		}
		return domain.IngestReceipt{}, fmt.Errorf("%s: %w: status %d: %s", op, kind, resp.StatusCode, snippet(raw))
	}

	var out ingestResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.OK == nil {
		return domain.IngestReceipt{}, fmt.Errorf("%s: %w: %s", op, e.ErrMalformedResponse, snippet(raw))
	}
	if !*out.OK {
		return domain.IngestReceipt{}, fmt.Errorf("%s: %w: %s", op, e.ErrRejected, out.Error)
	}
	if out.ID == "" {
		return domain.IngestReceipt{}, fmt.Errorf("%s: %w: accepted without id", op, e.ErrMalformedResponse)
	}

	c.logger.Debug("report delivered",
		slog.String("op", op),
		slog.String("report_id", r.ID),
		slog.String("server_id", out.ID))

	return domain.IngestReceipt{ServerID: out.ID}, nil
}

// Ping reports whether the ingestion service answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	const op = "ingest.Client.Ping"

	if c.healthURL == "" {
		return fmt.Errorf("%s: health url not configured", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	_ = resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s: status %d", op, resp.StatusCode)
	}
	return nil
}

func encode(r domain.PendingReport) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ k, v string }{
		{"hazard_type", string(r.HazardType)},
		{"severity", string(r.Severity)},
		{"lat", strconv.FormatFloat(r.Location.Lat, 'f', -1, 64)},
		{"lng", strconv.FormatFloat(r.Location.Lng, 'f', -1, 64)},
		{"address", r.Location.Address},
		{"description", r.Description},
		{"anonymous", strconv.FormatBool(r.Anonymous())},
		{"captured_at", r.CapturedAt.UTC().Format(time.RFC3339)},
	}
	if !r.Anonymous() {
		fields = append(fields,
			struct{ k, v string }{"reporter_name", r.Reporter.Name},
			struct{ k, v string }{"reporter_contact", r.Reporter.Contact},
		)
	}

	for _, f := range fields {
		if err := mw.WriteField(f.k, f.v); err != nil {
			return nil, "", err
		}
	}

	if len(r.Photo.Data) > 0 {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, r.Photo.Filename))
		h.Set("Content-Type", r.Photo.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(r.Photo.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func snippet(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// IsRetryable reports whether a failed Send is worth repeating unchanged.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, e.ErrRejected)
}
