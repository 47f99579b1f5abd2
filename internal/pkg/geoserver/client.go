package geoserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2/log"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/group2dev/landmark-api/internal/pkg/env"
	"github.com/group2dev/landmark-api/internal/pkg/metrics"
)

const (
	defaultOWSURL   = "http://localhost:9090/geoserver/Landmark/ows"
	defaultTypeName = "Landmark:landmark"
	maxBodyBytes    = 8 << 20
)

// ErrUnavailable is returned while the breaker is open or GeoServer fails.
var ErrUnavailable = errors.New("geoserver unavailable")

// Client fetches landmark features from GeoServer's WFS endpoint.
type Client struct {
	OWSURL      string
	TypeName    string
	MaxFeatures int

	HTTPClient *http.Client
	cb         *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewClientFromEnv() *Client {
	return NewClient(
		strings.TrimSpace(env.GetEnv("GEOSERVER_URL", defaultOWSURL)),
		&http.Client{Timeout: 10 * time.Second},
	)
}

// NewClient wraps the WFS endpoint in a breaker that opens after five
// consecutive failures and probes again after 30 seconds.
func NewClient(owsURL string, httpClient *http.Client) *Client {
	return &Client{
		OWSURL:      owsURL,
		TypeName:    defaultTypeName,
		MaxFeatures: 50,
		HTTPClient:  httpClient,
		cb: gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name:        "geoserver-wfs",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnf("[GeoServer] circuit %s: %s -> %s", name, from, to)
			},
		}),
	}
}

// FeatureURL builds the GetFeature request URL.
func (c *Client) FeatureURL() (string, error) {
	u, err := url.Parse(c.OWSURL)
	if err != nil {
		return "", fmt.Errorf("invalid GEOSERVER_URL: %w", err)
	}
	q := u.Query()
	q.Set("service", "WFS")
	q.Set("version", "1.0.0")
	q.Set("request", "GetFeature")
	q.Set("typeName", c.TypeName)
	q.Set("maxFeatures", fmt.Sprint(c.MaxFeatures))
	q.Set("outputFormat", "application/json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Features returns the GeoJSON FeatureCollection as served by GeoServer.
func (c *Client) Features(ctx context.Context) (json.RawMessage, error) {
	body, err := c.cb.Execute(func() (json.RawMessage, error) {
		return c.fetch(ctx)
	})
	metrics.ObserveUpstream("geoserver", err)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context) (json.RawMessage, error) {
	target, err := c.FeatureURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d", ErrUnavailable, resp.StatusCode)
	}
	// GeoServer reports some errors as 200 with an XML exception report
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrUnavailable)
	}
	return json.RawMessage(body), nil
}
