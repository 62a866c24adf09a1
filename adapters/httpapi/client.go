package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codewandler/lrukv/ports/kv"
)

type ClientOptions struct {
	BaseURL string        // e.g. http://localhost:7171
	Timeout time.Duration // per request, default 10s
	HTTP    *http.Client  // optional, overrides Timeout
}

// Client talks to a Server and implements kv.Service.
type Client struct {
	base string
	hc   *http.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("httpapi: invalid base url %q: %w", opts.BaseURL, err)
	}
	hc := opts.HTTP
	if hc == nil {
		if opts.Timeout <= 0 {
			opts.Timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{base: strings.TrimRight(opts.BaseURL, "/"), hc: hc}, nil
}

func (c *Client) Put(ctx context.Context, key, value string) error {
	body, err := json.Marshal(PutRequest{Key: &key, Value: &value})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/put", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var out StatusResponse
	return c.do(req, &out)
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/get?key="+url.QueryEscape(key), nil)
	if err != nil {
		return "", err
	}

	var out ValueResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *Client) Health(ctx context.Context) (kv.Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return kv.Health{}, err
	}

	var out StatusResponse
	if err := c.do(req, &out); err != nil {
		return kv.Health{}, err
	}
	return kv.Health{Status: out.Status}, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var e ErrorResponse
	_ = json.Unmarshal(data, &e)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return kv.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", kv.ErrInvalid, e.Detail)
	default:
		return fmt.Errorf("httpapi: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, e.Detail)
	}
}

var _ kv.Service = (*Client)(nil)
