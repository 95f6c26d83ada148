// Package apiclient 远端杂货 REST 接口客户端
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/logger"
)

var (
	ErrConfigInvalid   = errors.New("api config invalid")
	ErrTimeout         = fmt.Errorf("%w: api", apperr.ErrTimeout)
	ErrNetwork         = fmt.Errorf("%w: api", apperr.ErrNetwork)
	ErrInvalidResponse = errors.New("api response invalid")
	ErrUnauthorized    = errors.New("api unauthorized")
)

const (
	defaultTimeout   = 15 * time.Second
	defaultKeyHeader = "X-API-Key"
	maxErrorBodySize = 4 << 10
)

// ServerError 远端返回非 2xx
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api server error: status %d", e.Status)
	}
	return fmt.Sprintf("api server error: status %d: %s", e.Status, e.Message)
}

// Is 401 视为 ErrUnauthorized，404 视为 apperr.ErrNotFound
func (e *ServerError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case apperr.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Client 远端接口客户端
type Client struct {
	baseURL    *url.URL
	key        string
	keyHeader  string
	httpClient *http.Client
}

// New 根据配置创建客户端
func New(cfg config.APIConfig) (*Client, error) {
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient 使用指定 http.Client 创建客户端
func NewWithHTTPClient(cfg config.APIConfig, httpClient *http.Client) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	base, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	keyHeader := strings.TrimSpace(cfg.KeyHeader)
	if keyHeader == "" {
		keyHeader = defaultKeyHeader
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    base,
		key:        strings.TrimSpace(cfg.Key),
		keyHeader:  keyHeader,
		httpClient: httpClient,
	}, nil
}

type requestOptions struct {
	token   string
	query   url.Values
	body    interface{}
	headers map[string]string
}

func (c *Client) do(ctx context.Context, method, path string, opts requestOptions, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL.JoinPath(path)
	if len(opts.query) > 0 {
		endpoint.RawQuery = opts.query.Encode()
	}

	var reader io.Reader
	if opts.body != nil {
		payload, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encode request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: build request failed: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set(c.keyHeader, c.key)
	}
	if token := strings.TrimSpace(opts.token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(ctx, err)
		logger.Warnw("api_request_failed",
			"method", method,
			"path", path,
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err,
		)
		return classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response failed: %v", ErrInvalidResponse, err)
	}
	logger.Debugw("api_request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: extractMessage(body)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		if out != nil {
			return fmt.Errorf("%w: empty body", ErrInvalidResponse)
		}
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// extractMessage 从错误响应中提取提示信息
func extractMessage(body []byte) string {
	if len(body) > maxErrorBodySize {
		body = body[:maxErrorBodySize]
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "msg", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	return strings.TrimSpace(string(body))
}
