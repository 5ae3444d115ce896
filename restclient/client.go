// Package restclient is the thin REST transport the admin resources fetch
// and mutate through. It maps the backend's listing contract (limit/offset
// parameters, {data, total} payloads, detail-bearing error bodies) onto the
// pagination core's types and error taxonomy.
package restclient

import (
	"bytes"
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

	"github.com/goliatone/go-pagination-cache/paginationcache"
)

// Client issues JSON requests against one admin API base URL.
type Client struct {
	baseURL string
	hc      *http.Client
	token   string
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listPayload is the listing response shape: records plus the total count
// for the whole result set.
type listPayload[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// errorPayload is the error response body shape.
type errorPayload struct {
	Detail string `json:"detail"`
}

// List fetches one page. Pagination is expressed as limit/offset; the tenant
// scope, filters, and search term ride along as query parameters.
func List[T any](ctx context.Context, c *Client, path string, q paginationcache.ListQuery) ([]T, int, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.PageSize))
	params.Set("offset", strconv.Itoa(q.Page*q.PageSize))
	if q.Scope.BrandID != "" {
		params.Set("organization_id", q.Scope.BrandID)
	}
	if q.Scope.UserID != "" {
		params.Set("user_id", q.Scope.UserID)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	for k, v := range q.Filters {
		if v != "" {
			params.Set(k, v)
		}
	}

	var payload listPayload[T]
	if err := c.do(ctx, http.MethodGet, path+"?"+params.Encode(), nil, &payload); err != nil {
		return nil, 0, ensureListKind(err)
	}
	return payload.Data, payload.Total, nil
}

// Get fetches a single JSON object, e.g. an aggregate summary endpoint.
func Get[T any](ctx context.Context, c *Client, path string, query map[string]string) (T, error) {
	var out T
	if len(query) > 0 {
		params := url.Values{}
		for k, v := range query {
			if v != "" {
				params.Set(k, v)
			}
		}
		path += "?" + params.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return out, ensureListKind(err)
	}
	return out, nil
}

// Create POSTs a record and decodes the created entity.
func Create[T any](ctx context.Context, c *Client, path string, record T) (T, error) {
	var created T
	if err := c.do(ctx, http.MethodPost, path, record, &created); err != nil {
		return created, err
	}
	return created, nil
}

// Update PATCHes a record by id. A 204 response yields a nil record, which
// tells the façade it has no merge material for an in-place patch.
func Update[T any](ctx context.Context, c *Client, path, id string, patch map[string]any) (*T, error) {
	var updated T
	hasBody, err := c.doMaybeEmpty(ctx, http.MethodPatch, path+"/"+url.PathEscape(id), patch, &updated)
	if err != nil {
		return nil, err
	}
	if !hasBody {
		return nil, nil
	}
	return &updated, nil
}

// Delete removes a record by id.
func Delete(ctx context.Context, c *Client, path, id string) error {
	return c.do(ctx, http.MethodDelete, path+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.doMaybeEmpty(ctx, method, path, body, out)
	return err
}

// doMaybeEmpty runs one request and reports whether a response body was
// decoded into out.
func (c *Client) doMaybeEmpty(ctx context.Context, method, path string, body, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, paginationcache.NewError(paginationcache.ErrValidationRejected, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, paginationcache.NewError(paginationcache.ErrNetworkFailure, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return false, paginationcache.NewError(paginationcache.ErrNetworkFailure, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false, c.statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, paginationcache.NewError(paginationcache.ErrNetworkFailure, "decode response", err)
	}
	return true, nil
}

// statusError maps HTTP statuses onto the core's failure kinds. The error
// body's detail field becomes the human-readable message when present.
func (c *Client) statusError(resp *http.Response) error {
	var payload errorPayload
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &payload)
	msg := payload.Detail
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = paginationcache.ErrUnauthenticated
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = paginationcache.ErrValidationRejected
	default:
		kind = paginationcache.ErrNetworkFailure
	}
	return paginationcache.NewError(kind, msg, nil)
}

// ensureListKind downgrades generic transport failures on the read path to
// the listing taxonomy; auth and validation kinds pass through.
func ensureListKind(err error) error {
	if err == nil {
		return nil
	}
	var kinded *paginationcache.Error
	if errors.As(err, &kinded) {
		if kinded.Kind == paginationcache.ErrNetworkFailure {
			return paginationcache.NewError(paginationcache.ErrFetchFailed, kinded.Message, kinded.Err)
		}
		return err
	}
	return paginationcache.NewError(paginationcache.ErrFetchFailed, err.Error(), err)
}
