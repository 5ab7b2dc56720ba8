// Package backend is the HTTP client for the remote ERP backend.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// RequestIDHeader correlates console requests with backend logs
const RequestIDHeader = "X-Request-ID"

const dateLayout = "2006-01-02"

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() string
}

// Config holds backend client settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client implements port.Backend over HTTP
type Client struct {
	http           *resty.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	logger         *zap.Logger
}

var _ port.Backend = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithUnauthorizedHandler registers fn to run whenever the backend answers 401
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// NewClient creates a backend client
func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		tokens: tokens,
		logger: logger,
	}

	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		AddRetryCondition(retryIdempotentNetworkErrors).
		OnBeforeRequest(c.decorate)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) decorate(_ *resty.Client, r *resty.Request) error {
	r.SetHeader(RequestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			r.SetAuthToken(token)
		}
	}
	return nil
}

// Only GETs are retried; a repeated approve or reject must not reach the backend twice.
func retryIdempotentNetworkErrors(r *resty.Response, err error) bool {
	return err != nil && r != nil && r.Request != nil && r.Request.Method == http.MethodGet
}

type call struct {
	method string
	path   string
	params map[string]string
	query  map[string]string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, cl call) error {
	req := c.http.R().SetContext(ctx)
	if cl.params != nil {
		req.SetPathParams(cl.params)
	}
	if cl.query != nil {
		req.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", cl.method, cl.path, ctxErr)
		}
		c.logger.Warn("Backend unreachable",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Error(err))
		return apperr.Network(err)
	}

	if !resp.IsSuccess() {
		ae := apperr.FromStatus(resp.StatusCode(), resp.Body())
		c.logger.Warn("Backend request failed",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Int("status", resp.StatusCode()),
			zap.String("request_id", resp.Request.Header.Get(RequestIDHeader)))
		if ae.Kind == apperr.KindUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ae
	}

	if cl.out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), cl.out); err != nil {
			return apperr.Unknown(fmt.Errorf("decode %s response: %w", cl.path, err))
		}
	}
	return nil
}

func pageQuery(page, pageSize int) map[string]string {
	page, pageSize = entity.NormalizePage(page, pageSize)
	return map[string]string{
		"page":     strconv.Itoa(page),
		"pageSize": strconv.Itoa(pageSize),
	}
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

type reasonBody struct {
	Reason string `json:"reason"`
}
