package shopify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrCartNotFound   = errors.New("cart not found")
	ErrEmptyPayload   = errors.New("empty mutation payload")
	errTokenRequired  = errors.New("shopify access token is required")
	errDomainRequired = errors.New("shopify store domain is required")
	errLoggerRequired = errors.New("shopify logger is required")
)

// UpstreamError describes a failed Storefront call. Details carries the upstream error body
// (GraphQL errors array, decoded JSON or raw text) or the transport message.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Details    any
	Err        error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("shopify %s failed (status %d): %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("shopify %s failed: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsUpstreamError extracts the upstream error from a chain.
func AsUpstreamError(err error) *UpstreamError {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream
	}
	return nil
}

// errorDetails picks the most useful representation of a non-2xx body.
func errorDetails(status int, raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return http.StatusText(status)
	}
	if json.Valid(trimmed) {
		var envelope struct {
			Errors json.RawMessage `json:"errors"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && present(envelope.Errors) {
			return envelope.Errors
		}
		return json.RawMessage(trimmed)
	}
	return string(trimmed)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]":
		return false
	}
	return true
}

func graphQLErrorMessage(raw json.RawMessage) error {
	var errs []graphQLError
	if err := json.Unmarshal(raw, &errs); err != nil || len(errs) == 0 {
		return errors.New("graphql errors returned")
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if m := strings.TrimSpace(e.Message); m != "" {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return errors.New("graphql errors returned")
	}
	return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
}
