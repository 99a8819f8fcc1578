package shopify

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CartGIDPrefix is the Storefront global ID namespace for carts.
const CartGIDPrefix = "gid://shopify/Cart/"

type DiscountCode struct {
	Applicable bool   `json:"applicable"`
	Code       string `json:"code"`
}

// MoneyV2 mirrors the Storefront money scalar. Amount keeps the decimal string exactly as sent,
// so currencies with three fractional digits survive untouched.
type MoneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Decimal parses Amount.
func (m MoneyV2) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid money amount %q: %w", m.Amount, err)
	}
	return d, nil
}

type CartCost struct {
	SubtotalAmount MoneyV2 `json:"subtotalAmount"`
	TotalAmount    MoneyV2 `json:"totalAmount"`
}

type Cart struct {
	ID            string         `json:"id"`
	DiscountCodes []DiscountCode `json:"discountCodes"`
	TotalQuantity int            `json:"totalQuantity"`
	Cost          *CartCost      `json:"cost,omitempty"`
}

// UserError is a field-level validation error returned inside a 200 mutation response.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type DiscountCodesUpdatePayload struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}
