package validators

import (
	"net/http"

	pkgerrors "github.com/teamgamma/storefront-discount-relay/pkg/errors"
)

// Form keys mirror the bracketed nesting sent by the checkout extension.
const (
	formDiscountCode = "discount_code"
	formCartToken    = "cart[token]"
)

type ApplyDiscountRequest struct {
	DiscountCode string     `json:"discount_code" validate:"required"`
	Cart         *CartInput `json:"cart" validate:"required"`
}

type CartInput struct {
	Token string `json:"token" validate:"required"`
}

// DecodeApplyDiscount reads an apply-discount body sent as JSON or as a url-encoded form. Any
// decoding or validation failure is reported as a validation error.
func DecodeApplyDiscount(w http.ResponseWriter, r *http.Request) (ApplyDiscountRequest, error) {
	var req ApplyDiscountRequest
	if isForm(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return ApplyDiscountRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
		}
		req.DiscountCode = r.PostForm.Get(formDiscountCode)
		if token := r.PostForm.Get(formCartToken); token != "" {
			req.Cart = &CartInput{Token: token}
		}
	} else if err := DecodeJSONBody(w, r, &req); err != nil {
		return ApplyDiscountRequest{}, err
	}

	req.DiscountCode = SanitizeString(req.DiscountCode)
	if req.Cart != nil {
		req.Cart.Token = SanitizeString(req.Cart.Token)
	}
	if err := ValidateStruct(&req); err != nil {
		return ApplyDiscountRequest{}, err
	}
	return req, nil
}

// CartToken returns the token or an empty string when the cart object is missing.
func (r ApplyDiscountRequest) CartToken() string {
	if r.Cart == nil {
		return ""
	}
	return r.Cart.Token
}
