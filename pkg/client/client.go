// Package client is the Go consumer of the admin console API. It covers the
// endpoint families the console frontend calls, plus the indexing status
// view-model and its conditional poller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// APIError is the normalized error for any request that reached the server
// and came back non-2xx.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// QuotaExceeded distinguishes 403 quota rejections from generic failures so
// callers can surface a specific message instead of a retry prompt.
func (e *APIError) QuotaExceeded() bool {
	return e.StatusCode == http.StatusForbidden
}

// FetchError wraps transport-level failures. Callers surface it as a generic
// "fetch failed" banner.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "fetch failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type responseEnvelope struct {
	Meta struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken swaps the bearer token, used after login and workspace switch.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &FetchError{Err: err}
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if method == http.MethodHead {
		if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
			return &APIError{StatusCode: resp.StatusCode}
		}
		if boolOut, ok := out.(*bool); ok {
			*boolOut = resp.StatusCode == http.StatusOK
		}
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Err: err}
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &FetchError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Meta.Message,
			RequestID:  envelope.Meta.RequestID,
		}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &FetchError{Err: err}
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Err: err}
		}
		reader = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, nil, reader, "application/json", out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// postFile uploads one file as multipart/form-data under the "file" field.
func (c *Client) postFile(ctx context.Context, path, filename string, content io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return &FetchError{Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &FetchError{Err: err}
	}
	if err := writer.Close(); err != nil {
		return &FetchError{Err: err}
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), out)
}
