// Package remote fetches the seed dataset from an HTTP endpoint.
package remote

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/infra/provider"
)

// DefaultEndpoint is used when the config leaves the path empty.
const DefaultEndpoint = "/api/courses"

// Client implements domain.SeedSource over a JSON array endpoint.
type Client struct {
	name     string
	endpoint string
	client   *resty.Client
	cb       *gobreaker.CircuitBreaker[*resty.Response]
	logger   *zap.Logger
}

// New creates a new remote seed client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		name:     "remote",
		endpoint: endpoint,
		client:   provider.NewRestyClient(cfg),
		cb:       provider.NewCircuitBreaker[*resty.Response]("seed_remote", cfg.CB, logger),
		logger:   logger,
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return c.name
}

// Fetch retrieves the full course list.
func (c *Client) Fetch(ctx context.Context) ([]*domain.Course, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var records []provider.CourseRecord
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetResult(&records).
			Get(c.endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("seed endpoint returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("remote seed fetch failed",
			zap.String("endpoint", c.endpoint),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: fetching %s: %w", domain.ErrSeedData, c.endpoint, err)
	}

	records := *resp.Result().(*[]provider.CourseRecord)
	courses, err := provider.ToCourses(records)
	if err != nil {
		return nil, err
	}

	c.logger.Info("remote seed fetch completed",
		zap.String("endpoint", c.endpoint),
		zap.Int("count", len(courses)),
	)

	return courses, nil
}
