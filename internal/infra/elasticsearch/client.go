// Package elasticsearch implements the course index on Elasticsearch 8.
// Queries are rendered from domain.IndexQuery into query DSL at this boundary.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/infra/provider"
	"course-search-service/internal/metrics"
)

const engineName = "elasticsearch"

const defaultTimeout = 5 * time.Second

// Config holds Elasticsearch client settings.
type Config struct {
	Addresses  []string
	Username   string
	Password   string
	Index      string
	Timeout    time.Duration
	MaxRetries int
	Refresh    bool // make bulk writes visible before returning
	CB         provider.CBConfig

	// Transport overrides the HTTP transport. Nil uses the client default.
	Transport http.RoundTripper
}

// Client implements domain.CourseIndex on Elasticsearch.
type Client struct {
	es      *es.Client
	index   string
	timeout time.Duration
	refresh bool
	cb      *gobreaker.CircuitBreaker[*result]
	logger  *zap.Logger
}

type result struct {
	status int
	body   []byte
}

// New creates an Elasticsearch client for the configured index.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	client, err := es.NewClient(es.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.MaxRetries <= 0,
		Transport:    cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// Rejected queries are client mistakes, not engine health problems
	cbCfg := cfg.CB
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, domain.ErrIndexQuery)
	}

	return &Client{
		es:      client,
		index:   cfg.Index,
		timeout: timeout,
		refresh: cfg.Refresh,
		cb:      provider.NewCircuitBreaker[*result]("elasticsearch", cbCfg, logger),
		logger:  logger,
	}, nil
}

// Search runs one paged query and returns the hits with the exact total.
func (c *Client) Search(ctx context.Context, s domain.IndexSearch) (*domain.HitPage, error) {
	search, err := SearchBody(s)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(search)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding search body: %w", domain.ErrIndexQuery, err)
	}

	res, err := c.perform(ctx, "search", func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Search(
			c.es.Search.WithContext(ctx),
			c.es.Search.WithIndex(c.index),
			c.es.Search.WithBody(bytes.NewReader(body)),
		)
	})
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(res.body, &sr); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %w", domain.ErrIndexQuery, err)
	}

	page := &domain.HitPage{
		Total: sr.Hits.Total.Value,
		Hits:  make([]domain.Hit, 0, len(sr.Hits.Hits)),
	}
	for _, h := range sr.Hits.Hits {
		course, err := h.Source.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrIndexQuery, err)
		}
		if course.ID == "" {
			course.ID = h.ID
		}

		var score float64
		if h.Score != nil {
			score = *h.Score
		}
		page.Hits = append(page.Hits, domain.Hit{Course: course, Score: score})
	}

	c.logger.Debug("elasticsearch search completed",
		zap.Int64("total", page.Total),
		zap.Int("hits", len(page.Hits)),
	)

	return page, nil
}

// Count returns the number of documents in the index.
func (c *Client) Count(ctx context.Context) (int64, error) {
	res, err := c.perform(ctx, "count", func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Count(
			c.es.Count.WithContext(ctx),
			c.es.Count.WithIndex(c.index),
		)
	})
	if err != nil {
		return 0, err
	}

	var cr countResponse
	if err := json.Unmarshal(res.body, &cr); err != nil {
		return 0, fmt.Errorf("%w: decoding count response: %w", domain.ErrIndexQuery, err)
	}

	return cr.Count, nil
}

// BulkIndex writes every course in one _bulk request, keyed by course id.
func (c *Client) BulkIndex(ctx context.Context, courses []*domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, course := range courses {
		meta := map[string]any{"index": map[string]any{"_index": c.index, "_id": course.ID}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encoding bulk metadata: %w", err)
		}
		if err := enc.Encode(fromDomain(course)); err != nil {
			return fmt.Errorf("encoding course %s: %w", course.ID, err)
		}
	}
	payload := buf.Bytes()

	refresh := "false"
	if c.refresh {
		refresh = "true"
	}

	res, err := c.perform(ctx, "bulk", func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Bulk(
			bytes.NewReader(payload),
			c.es.Bulk.WithContext(ctx),
			c.es.Bulk.WithIndex(c.index),
			c.es.Bulk.WithRefresh(refresh),
		)
	})
	if err != nil {
		return err
	}

	var br bulkResponse
	if err := json.Unmarshal(res.body, &br); err != nil {
		return fmt.Errorf("%w: decoding bulk response: %w", domain.ErrIndexQuery, err)
	}
	if br.Errors {
		return bulkFailure(br, len(courses))
	}

	c.logger.Info("bulk indexed courses",
		zap.String("index", c.index),
		zap.Int("count", len(courses)),
	)

	return nil
}

func bulkFailure(br bulkResponse, total int) error {
	failed := 0
	first := ""
	for _, item := range br.Items {
		for _, op := range item {
			if op.Error == nil {
				continue
			}
			failed++
			if first == "" {
				first = fmt.Sprintf("%s: %s: %s", op.ID, op.Error.Type, op.Error.Reason)
			}
		}
	}
	return fmt.Errorf("%w: bulk indexing: %d of %d documents failed, first: %s", domain.ErrIndexQuery, failed, total, first)
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.perform(ctx, "index_exists", func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	}, http.StatusNotFound)
	if err != nil {
		return err
	}
	if res.status == http.StatusOK {
		return nil
	}

	definition, err := json.Marshal(IndexDefinition())
	if err != nil {
		return fmt.Errorf("encoding index definition: %w", err)
	}

	res, err = c.perform(ctx, "create_index", func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Indices.Create(
			c.index,
			c.es.Indices.Create.WithContext(ctx),
			c.es.Indices.Create.WithBody(bytes.NewReader(definition)),
		)
	}, http.StatusBadRequest)
	if err != nil {
		return err
	}
	if res.status == http.StatusBadRequest {
		// another replica created it first
		if strings.Contains(string(res.body), "resource_already_exists_exception") {
			return nil
		}
		return statusError("create_index", res.status, res.body)
	}

	c.logger.Info("created elasticsearch index", zap.String("index", c.index))

	return nil
}

// Ping verifies the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.perform(ctx, "ping", func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Ping(c.es.Ping.WithContext(ctx))
	})
	return err
}

// Explain returns the indented request body Search would send.
func Explain(s domain.IndexSearch) ([]byte, error) {
	body, err := SearchBody(s)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(body, "", "  ")
}

// perform runs one API call behind the circuit breaker and per-call timeout.
// Statuses listed in accept are returned to the caller instead of failing.
func (c *Client) perform(
	ctx context.Context,
	op string,
	call func(ctx context.Context) (*esapi.Response, error),
	accept ...int,
) (*result, error) {
	start := time.Now()

	res, err := c.cb.Execute(func() (*result, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := call(callCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrIndexUnavailable, op, err)
		}
		defer func() { _ = resp.Body.Close() }()

		var body []byte
		if resp.Body != nil {
			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: reading response: %w", domain.ErrIndexUnavailable, op, err)
			}
		}

		if resp.IsError() && !slices.Contains(accept, resp.StatusCode) {
			return nil, statusError(op, resp.StatusCode, body)
		}

		return &result{status: resp.StatusCode, body: body}, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %s: %w", domain.ErrIndexUnavailable, op, err)
	}

	metrics.ObserveIndexCall(engineName, op, start, err)

	if err != nil {
		c.logger.Warn("elasticsearch call failed",
			zap.String("operation", op),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)
		return nil, err
	}

	return res, nil
}

// statusError classifies an error response. Overload and gateway statuses
// mean the engine is unavailable; anything else is a rejected request.
func statusError(op string, status int, body []byte) error {
	reason := strings.TrimSpace(string(body))
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error.Type != "" {
		reason = er.Error.Type + ": " + er.Error.Reason
	}

	kind := domain.ErrIndexQuery
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = domain.ErrIndexUnavailable
	}

	return fmt.Errorf("%w: %s returned status %d: %s", kind, op, status, reason)
}
