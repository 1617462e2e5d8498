package panelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"smm-storefront/internal/metrics"
)

const tracerName = "smm-storefront/panelapi"

// Client talks to the panel REST API. Reads are retried, writes never are.
type Client struct {
	baseURL       string
	http          *http.Client
	limiter       *rate.Limiter
	readRetries   int
	retryInterval time.Duration
	tracer        trace.Tracer
	logger        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithReadRetries(n int, interval time.Duration) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.readRetries = n
		c.retryInterval = interval
	}
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Inf, 0),
		readRetries:   1,
		retryInterval: 500 * time.Millisecond,
		tracer:        otel.Tracer(tracerName),
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method   string
	path     string
	endpoint string
	token    string
	body     any
}

func (c *Client) call(ctx context.Context, req request, out any) error {
	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.readRetries
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.once(ctx, req, out)
		if err == nil || !retryable(err) || attempt == attempts {
			break
		}

		c.logger.Warn("Panel read failed, retrying",
			"endpoint", req.endpoint,
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryInterval):
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, ErrNoResponse) {
		return true
	}
	return StatusOf(err) >= http.StatusInternalServerError
}

func (c *Client) once(ctx context.Context, req request, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "panel "+req.endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.method),
			attribute.String("panel.endpoint", req.endpoint),
		),
	)
	start := time.Now()
	status := "error"
	defer func() {
		metrics.PanelLatency.WithLabelValues(req.endpoint).Observe(time.Since(start).Seconds())
		metrics.PanelRequests.WithLabelValues(req.endpoint, status).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiting")
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		status = "no_response"
		return &noResponseError{op: req.method + " " + req.path, cause: err}
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &noResponseError{op: req.method + " " + req.path, cause: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp.StatusCode, body)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return &Error{Status: http.StatusBadGateway, Message: err.Error()}
	}
	if !env.Success {
		return &Error{Status: http.StatusBadRequest, Message: env.Message, Data: json.RawMessage(env.Data)}
	}
	return env.decodeData(out)
}

func (c *Client) newHTTPRequest(ctx context.Context, req request) (*http.Request, error) {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, errors.Wrap(err, "encode body")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	return httpReq, nil
}

// errorFromResponse builds an *Error from a non-2xx response, keeping the
// envelope message when the body carries one.
func errorFromResponse(status int, body []byte) *Error {
	apiErr := &Error{Status: status, Message: http.StatusText(status)}
	env, err := decodeEnvelope(body)
	if err != nil {
		return apiErr
	}
	if env.Message != "" {
		apiErr.Message = env.Message
	}
	if env.hasData() {
		apiErr.Data = json.RawMessage(env.Data)
	}
	return apiErr
}
