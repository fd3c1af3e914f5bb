// Package api is the typed REST client for the Xerpia ERP API. The base
// Client owns URL building, query parameters, envelope decoding, and the
// single place where HTTP failures are annotated with their user-facing
// error category; resource services are thin wrappers over it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/metrics"
	"github.com/xerpia/erp-console/pkg/logger"
)

// Pagination carries the standard list query parameters.
type Pagination struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Values renders the pagination block as query parameters, omitting unset
// fields.
func (p *Pagination) Values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", p.SortOrder)
	}
	return v
}

// Client is the shared HTTP layer beneath all resource services.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient returns a Client rooted at baseURL. httpClient should carry the
// authenticating transport; a default client is used when nil.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log}
}

// Products returns the product resource service.
func (c *Client) Products() *ProductService { return &ProductService{c: c} }

// Providers returns the provider resource service.
func (c *Client) Providers() *ProviderService { return &ProviderService{c: c} }

// Users returns the user resource service.
func (c *Client) Users() *UserService { return &UserService{c: c} }

// Accounting returns the accounting resource service.
func (c *Client) Accounting() *AccountingService { return &AccountingService{c: c} }

// getJSON issues a GET and decodes the enveloped payload.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	return doJSON[T](ctx, c, http.MethodGet, path, query, nil)
}

// postJSON issues a POST with a JSON body and decodes the enveloped payload.
func postJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return doJSON[T](ctx, c, http.MethodPost, path, nil, body)
}

// putJSON issues a PUT with a JSON body and decodes the enveloped payload.
func putJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return doJSON[T](ctx, c, http.MethodPut, path, nil, body)
}

// patchJSON issues a PATCH with a JSON body and decodes the enveloped payload.
func patchJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return doJSON[T](ctx, c, http.MethodPatch, path, nil, body)
}

// deleteJSON issues a DELETE and discards the payload.
func deleteJSON(ctx context.Context, c *Client, path string) error {
	_, err := doJSON[json.RawMessage](ctx, c, http.MethodDelete, path, nil, nil)
	return err
}

// doJSON performs one request/response cycle: build URL, send, map errors,
// decode the envelope, unwrap data.
func doJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, err
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return zero, err
	}
	requestID := logger.NewRequestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		return zero, c.fail(domain.NewAPIError(domain.ErrNetworkUnreachable, 0, err), method, path, requestID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env domain.Envelope[json.RawMessage]
		_ = json.NewDecoder(resp.Body).Decode(&env)
		cat := domain.CategoryForStatus(resp.StatusCode, false)
		apiErr := domain.NewAPIError(cat, resp.StatusCode, nil)
		if env.Message != "" {
			apiErr.Err = fmt.Errorf("%s", env.Message)
		}
		return zero, c.fail(apiErr, method, path, requestID)
	}

	var env domain.Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// 204-style responses have no body to decode.
		if errors.Is(err, io.EOF) {
			return zero, nil
		}
		return zero, c.fail(domain.NewAPIError(domain.ErrServerError, resp.StatusCode,
			fmt.Errorf("decode response: %w", err)), method, path, requestID)
	}
	return env.Data, nil
}

// listJSON performs a GET against a paginated endpoint and returns the items.
func listJSON[T any](ctx context.Context, c *Client, path string, p *Pagination, extra url.Values) ([]T, error) {
	query := p.Values()
	for key, vals := range extra {
		for _, v := range vals {
			query.Add(key, v)
		}
	}
	items, err := getJSON[[]T](ctx, c, path, query)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// fail records a request failure once, best-effort, and returns err for the
// caller to display. The sink must never block the main flow.
func (c *Client) fail(err *domain.APIError, method, path, requestID string) error {
	metrics.RequestErrorsTotal.WithLabelValues(string(err.Category)).Inc()
	c.log.Warn().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", err.Status).
		Str("category", string(err.Category)).
		Msg("api request failed")
	return err
}
