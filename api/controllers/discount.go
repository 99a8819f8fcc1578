package controllers

import (
	"net/http"

	"github.com/teamgamma/storefront-discount-relay/api/responses"
	"github.com/teamgamma/storefront-discount-relay/api/validators"
	"github.com/teamgamma/storefront-discount-relay/internal/discount"
	pkgerrors "github.com/teamgamma/storefront-discount-relay/pkg/errors"
	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
)

type applyDiscountResponse struct {
	Success      bool            `json:"success"`
	DiscountCode string          `json:"discount_code"`
	Applicable   bool            `json:"applicable"`
	Cart         appliedCartView `json:"cart"`
}

type appliedCartView struct {
	ID            string `json:"id"`
	TotalQuantity int    `json:"total_quantity"`
	Subtotal      string `json:"subtotal"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
}

// ApplyDiscount handles POST /apply-discount.
func ApplyDiscount(svc discount.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		input, err := validators.DecodeApplyDiscount(w, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, pkgerrors.MessageInputRequired))
			return
		}

		result := svc.Apply(ctx, discount.Request{
			DiscountCode: input.DiscountCode,
			CartToken:    input.CartToken(),
		})
		if err := result.Err(); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, applyDiscountResponse{
			Success:      true,
			DiscountCode: result.Code,
			Applicable:   true,
			Cart: appliedCartView{
				ID:            result.Cart.ID,
				TotalQuantity: result.Cart.TotalQuantity,
				Subtotal:      result.Cart.Subtotal,
				Total:         result.Cart.Total,
				Currency:      result.Cart.Currency,
			},
		})
	}
}
