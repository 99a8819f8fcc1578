package discount

import (
	"errors"
	"strings"

	pkgerrors "github.com/teamgamma/storefront-discount-relay/pkg/errors"
	"github.com/teamgamma/storefront-discount-relay/pkg/shopify"
)

// Outcome tags the result of a single apply attempt.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeInputError       Outcome = "input_error"
	OutcomeUpstreamRejected Outcome = "upstream_rejected"
	OutcomeNotApplicable    Outcome = "not_applicable"
	OutcomeTransportError   Outcome = "transport_error"
	OutcomeInternalError    Outcome = "internal_error"
)

var errEmptyToken = errors.New("cart token is required")

// CartReference is a cart global ID built from a checkout cart token.
type CartReference string

// NewCartReference formats token into the Storefront cart GID. Tokens already in GID form are
// kept as they are.
func NewCartReference(token string) (CartReference, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errEmptyToken
	}
	if strings.HasPrefix(token, shopify.CartGIDPrefix) {
		return CartReference(token), nil
	}
	return CartReference(shopify.CartGIDPrefix + token), nil
}

func (c CartReference) String() string {
	return string(c)
}

type DiscountCodeEntry struct {
	Code       string `json:"code"`
	Applicable bool   `json:"applicable"`
}

// CartSnapshot is the cart state returned by the apply mutation. Amounts are the upstream decimal
// strings, unrounded.
type CartSnapshot struct {
	ID            string
	TotalQuantity int
	Subtotal      string
	Total         string
	Currency      string
	DiscountCodes []DiscountCodeEntry
}

// UserError is a field-level rejection reported by the Storefront mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type Request struct {
	DiscountCode string
	CartToken    string
}

// Result is the tagged outcome of Apply. RevertErr is populated only when a compensating revert
// was attempted and failed; it never changes Outcome.
type Result struct {
	Outcome    Outcome
	Code       string
	Cart       *CartSnapshot
	UserErrors []UserError
	Cause      error
	Reverted   bool
	RevertErr  error
}

// Err maps a failed outcome to the typed error rendered by the HTTP layer. It returns nil on
// success.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeSuccess:
		return nil
	case OutcomeInputError:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, r.Cause, pkgerrors.MessageInputRequired)
	case OutcomeUpstreamRejected:
		userErrors := r.UserErrors
		if userErrors == nil {
			userErrors = []UserError{}
		}
		return pkgerrors.New(pkgerrors.CodeUpstreamRejected, pkgerrors.MessageApplyFailed).
			WithDetails(userErrors)
	case OutcomeNotApplicable:
		return pkgerrors.New(pkgerrors.CodeNotApplicable, pkgerrors.MessageNotApplicable).
			WithDetails(pkgerrors.DetailsNotApplicable)
	case OutcomeTransportError:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, r.Cause, pkgerrors.MessageApplyFailed).
			WithDetails(upstreamDetails(r.Cause))
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, r.Cause, pkgerrors.MessageApplyFailed).
			WithDetails(upstreamDetails(r.Cause))
	}
}

func upstreamDetails(err error) any {
	if err == nil {
		return pkgerrors.MessageApplyFailed
	}
	if upstream := shopify.AsUpstreamError(err); upstream != nil && upstream.Details != nil {
		return upstream.Details
	}
	return err.Error()
}

func snapshotFromCart(cart *shopify.Cart) (*CartSnapshot, error) {
	if cart == nil {
		return nil, errors.New("mutation response contained no cart")
	}
	if cart.Cost == nil {
		return nil, errors.New("mutation response contained no cart cost")
	}
	for _, m := range []shopify.MoneyV2{cart.Cost.SubtotalAmount, cart.Cost.TotalAmount} {
		if _, err := m.Decimal(); err != nil {
			return nil, err
		}
	}
	return &CartSnapshot{
		ID:            cart.ID,
		TotalQuantity: cart.TotalQuantity,
		Subtotal:      cart.Cost.SubtotalAmount.Amount,
		Total:         cart.Cost.TotalAmount.Amount,
		Currency:      cart.Cost.TotalAmount.CurrencyCode,
		DiscountCodes: entriesFromCodes(cart.DiscountCodes),
	}, nil
}

func entriesFromCodes(codes []shopify.DiscountCode) []DiscountCodeEntry {
	entries := make([]DiscountCodeEntry, 0, len(codes))
	for _, c := range codes {
		entries = append(entries, DiscountCodeEntry{Code: c.Code, Applicable: c.Applicable})
	}
	return entries
}

func userErrorsFrom(errs []shopify.UserError) []UserError {
	out := make([]UserError, 0, len(errs))
	for _, e := range errs {
		field := e.Field
		if field == nil {
			field = []string{}
		}
		out = append(out, UserError{Field: field, Message: e.Message})
	}
	return out
}
