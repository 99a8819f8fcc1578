package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgamma/storefront-discount-relay/internal/discount"
	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
	"github.com/teamgamma/storefront-discount-relay/pkg/shopify"
)

type stubDiscountService struct {
	result   discount.Result
	requests []discount.Request
}

func (s *stubDiscountService) Apply(_ context.Context, req discount.Request) discount.Result {
	s.requests = append(s.requests, req)
	return s.result
}

func postApply(t *testing.T, svc discount.Service, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/apply-discount", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ApplyDiscount(svc, logger.Nop()).ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestApplyDiscountSuccess(t *testing.T) {
	svc := &stubDiscountService{result: discount.Result{
		Outcome: discount.OutcomeSuccess,
		Code:    "SAVE10",
		Cart: &discount.CartSnapshot{
			ID:            "gid://shopify/Cart/abc",
			TotalQuantity: 3,
			Subtotal:      "120",
			Total:         "108.5",
			Currency:      "EUR",
		},
	}}

	rec, payload := postApply(t, svc, `{"discount_code":"SAVE10","cart":{"token":"abc"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "SAVE10", payload["discount_code"])
	assert.Equal(t, true, payload["applicable"])
	assert.Equal(t, map[string]any{
		"id":             "gid://shopify/Cart/abc",
		"total_quantity": float64(3),
		"subtotal":       "120",
		"total":          "108.5",
		"currency":       "EUR",
	}, payload["cart"])
	require.Len(t, svc.requests, 1)
	assert.Equal(t, discount.Request{DiscountCode: "SAVE10", CartToken: "abc"}, svc.requests[0])
}

func TestApplyDiscountMissingInputSkipsService(t *testing.T) {
	svc := &stubDiscountService{}

	rec, payload := postApply(t, svc, `{"discount_code":"SAVE10"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Discount code and cart token are required"}, payload)
	assert.Empty(t, svc.requests)
}

func TestApplyDiscountFailureBodies(t *testing.T) {
	tests := []struct {
		name       string
		result     discount.Result
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name: "user errors",
			result: discount.Result{
				Outcome:    discount.OutcomeUpstreamRejected,
				UserErrors: []discount.UserError{{Field: []string{"discountCodes"}, Message: "Invalid"}},
			},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Failed to apply discount",
				"details": []any{map[string]any{"field": []any{"discountCodes"}, "message": "Invalid"}},
			},
		},
		{
			name:       "not applicable",
			result:     discount.Result{Outcome: discount.OutcomeNotApplicable, RevertErr: errors.New("revert failed")},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Discount code is not applicable",
				"details": "The provided discount code cannot be applied to this cart",
			},
		},
		{
			name: "upstream failure",
			result: discount.Result{
				Outcome: discount.OutcomeTransportError,
				Cause: &shopify.UpstreamError{
					Operation:  "CartDiscountCodes",
					StatusCode: http.StatusUnauthorized,
					Details:    json.RawMessage(`[{"message":"Unauthorized"}]`),
					Err:        errors.New("unexpected status 401"),
				},
			},
			wantStatus: http.StatusInternalServerError,
			wantBody: map[string]any{
				"error":   "Failed to apply discount",
				"details": []any{map[string]any{"message": "Unauthorized"}},
			},
		},
		{
			name:       "internal failure",
			result:     discount.Result{Outcome: discount.OutcomeInternalError, Cause: errors.New("panic: nil map")},
			wantStatus: http.StatusInternalServerError,
			wantBody: map[string]any{
				"error":   "Failed to apply discount",
				"details": "panic: nil map",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubDiscountService{result: tt.result}
			rec, payload := postApply(t, svc, `{"discount_code":"SAVE10","cart":{"token":"abc"}}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, payload)
		})
	}
}
