package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/teamgamma/storefront-discount-relay/pkg/config"
	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
)

const (
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	maxResponseBytes  = 5 << 20
)

// Upstream call outcomes reported to the Observer.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeHTTPError      = "http_error"
	OutcomeGraphQLError   = "graphql_error"
	OutcomeDecodeError    = "decode_error"
)

// Observer records the latency and outcome of every Storefront call.
type Observer interface {
	ObserveUpstream(operation, outcome string, duration time.Duration)
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithObserver attaches an upstream call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// Client talks to a single store's Storefront GraphQL endpoint. Calls are made once; nothing
// is retried.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	logger      *logger.Logger
	observer    Observer
}

// NewClient validates the credentials and builds the Storefront wrapper.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if cfg.StoreDomain() == "" && strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errDomainRequired
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errTokenRequired
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		endpoint:    cfg.StorefrontURL(),
		accessToken: token,
		logger:      logg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the resolved GraphQL URL.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// FetchCart reads the cart's current discount codes.
func (c *Client) FetchCart(ctx context.Context, cartID string) (*Cart, error) {
	var data struct {
		Cart *Cart `json:"cart"`
	}
	if err := c.execute(ctx, opFetchCart, map[string]any{"cartId": cartID}, &data); err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, &UpstreamError{
			Operation:  opFetchCart.name,
			StatusCode: http.StatusOK,
			Details:    ErrCartNotFound.Error(),
			Err:        ErrCartNotFound,
		}
	}
	return data.Cart, nil
}

// UpdateDiscountCodes replaces the cart's discount code list with codes, sent verbatim.
func (c *Client) UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*DiscountCodesUpdatePayload, error) {
	if codes == nil {
		codes = []string{}
	}
	var data struct {
		Payload *DiscountCodesUpdatePayload `json:"cartDiscountCodesUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "discountCodes": codes}
	if err := c.execute(ctx, opUpdateDiscountCodes, vars, &data); err != nil {
		return nil, err
	}
	if data.Payload == nil {
		return nil, &UpstreamError{
			Operation:  opUpdateDiscountCodes.name,
			StatusCode: http.StatusOK,
			Details:    ErrEmptyPayload.Error(),
			Err:        ErrEmptyPayload,
		}
	}
	return data.Payload, nil
}

func (c *Client) execute(ctx context.Context, op operation, variables map[string]any, out any) error {
	if err := op.checkVariables(variables); err != nil {
		return err
	}

	body, err := json.Marshal(graphQLRequest{Query: op.document, Variables: variables})
	if err != nil {
		return fmt.Errorf("shopify: encode %s request: %w", op.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: build %s request: %w", op.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)

	start := time.Now()
	c.log(ctx, "request", op, map[string]any{
		"operation_type": string(op.kind),
		"cart_ref":       logger.Fingerprint(fmt.Sprint(variables["cartId"])),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, op, start, OutcomeTransportError, &UpstreamError{
			Operation: op.name,
			Details:   err.Error(),
			Err:       err,
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.fail(ctx, op, start, OutcomeTransportError, &UpstreamError{
			Operation:  op.name,
			StatusCode: resp.StatusCode,
			Details:    err.Error(),
			Err:        fmt.Errorf("read response: %w", err),
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.fail(ctx, op, start, OutcomeHTTPError, &UpstreamError{
			Operation:  op.name,
			StatusCode: resp.StatusCode,
			Details:    errorDetails(resp.StatusCode, raw),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		})
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return c.fail(ctx, op, start, OutcomeDecodeError, &UpstreamError{
			Operation:  op.name,
			StatusCode: resp.StatusCode,
			Details:    fmt.Sprintf("decode response: %v", err),
			Err:        fmt.Errorf("decode response: %w", err),
		})
	}
	if present(envelope.Errors) {
		return c.fail(ctx, op, start, OutcomeGraphQLError, &UpstreamError{
			Operation:  op.name,
			StatusCode: resp.StatusCode,
			Details:    envelope.Errors,
			Err:        graphQLErrorMessage(envelope.Errors),
		})
	}
	if !present(envelope.Data) {
		return c.fail(ctx, op, start, OutcomeDecodeError, &UpstreamError{
			Operation:  op.name,
			StatusCode: resp.StatusCode,
			Details:    "response contained no data",
			Err:        errors.New("response contained no data"),
		})
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return c.fail(ctx, op, start, OutcomeDecodeError, &UpstreamError{
			Operation:  op.name,
			StatusCode: resp.StatusCode,
			Details:    fmt.Sprintf("decode data: %v", err),
			Err:        fmt.Errorf("decode data: %w", err),
		})
	}

	c.observe(op, OutcomeOK, time.Since(start))
	c.log(ctx, "response", op, map[string]any{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Client) fail(ctx context.Context, op operation, start time.Time, outcome string, err *UpstreamError) error {
	c.observe(op, outcome, time.Since(start))
	c.log(ctx, "error", op, map[string]any{
		"outcome":     outcome,
		"status":      err.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       err.Error(),
	})
	return err
}

func (c *Client) observe(op operation, outcome string, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(op.name, outcome, d)
}

func (c *Client) log(ctx context.Context, phase string, op operation, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op.name,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("shopify %s", op.name), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Debug(ctx, fmt.Sprintf("shopify %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "password"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
