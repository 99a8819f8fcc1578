package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/teamgamma/storefront-discount-relay/pkg/shopify"
)

const (
	stepFetchCart   = "fetch_cart"
	stepApplyCodes  = "apply_codes"
	stepVerifyCode  = "verify_code"
	stepRevertCodes = "revert_codes"
)

// Revert results recorded by the metrics recorder.
const (
	RevertOK      = "ok"
	RevertFailed  = "failed"
	RevertSkipped = "skipped"
)

var errNotApplicable = errors.New("discount code is not applicable to this cart")

// rejectedError carries the userErrors of a refused mutation.
type rejectedError struct {
	userErrors []UserError
}

func (e *rejectedError) Error() string {
	msgs := make([]string, 0, len(e.userErrors))
	for _, ue := range e.userErrors {
		msgs = append(msgs, ue.Message)
	}
	return "discount codes rejected: " + strings.Join(msgs, "; ")
}

// applyState is shared by the steps of a single apply attempt.
type applyState struct {
	cartID   CartReference
	code     string
	existing []string
	applied  *shopify.Cart
	revert   string
}

type fetchCartStep struct {
	store storefront
	state *applyState
}

func (s *fetchCartStep) Name() string { return stepFetchCart }

func (s *fetchCartStep) Execute(ctx context.Context) error {
	cart, err := s.store.FetchCart(ctx, s.state.cartID.String())
	if err != nil {
		return err
	}
	existing := make([]string, 0, len(cart.DiscountCodes))
	for _, dc := range cart.DiscountCodes {
		if dc.Applicable {
			existing = append(existing, dc.Code)
		}
	}
	s.state.existing = existing
	return nil
}

func (s *fetchCartStep) Compensate(context.Context) error { return nil }

type applyCodesStep struct {
	store storefront
	state *applyState
}

func (s *applyCodesStep) Name() string { return stepApplyCodes }

// Execute sends the existing applicable codes with the new code appended last.
func (s *applyCodesStep) Execute(ctx context.Context) error {
	codes := make([]string, 0, len(s.state.existing)+1)
	codes = append(codes, s.state.existing...)
	codes = append(codes, s.state.code)

	payload, err := s.store.UpdateDiscountCodes(ctx, s.state.cartID.String(), codes)
	if err != nil {
		return err
	}
	if len(payload.UserErrors) > 0 {
		return &rejectedError{userErrors: userErrorsFrom(payload.UserErrors)}
	}
	s.state.applied = payload.Cart
	return nil
}

// Compensate restores the codes that were applicable before the apply. An empty prior set
// needs no call.
func (s *applyCodesStep) Compensate(ctx context.Context) error {
	if len(s.state.existing) == 0 {
		s.state.revert = RevertSkipped
		return nil
	}
	payload, err := s.store.UpdateDiscountCodes(ctx, s.state.cartID.String(), s.state.existing)
	if err != nil {
		s.state.revert = RevertFailed
		return fmt.Errorf("%s: %w", stepRevertCodes, err)
	}
	if len(payload.UserErrors) > 0 {
		s.state.revert = RevertFailed
		return fmt.Errorf("%s: %w", stepRevertCodes, &rejectedError{userErrors: userErrorsFrom(payload.UserErrors)})
	}
	s.state.revert = RevertOK
	return nil
}

type verifyCodeStep struct {
	state *applyState
}

func (s *verifyCodeStep) Name() string { return stepVerifyCode }

// Execute fails when the mutated cart lacks the new code or marks it not applicable.
func (s *verifyCodeStep) Execute(context.Context) error {
	if s.state.applied == nil {
		return nil
	}
	for _, dc := range s.state.applied.DiscountCodes {
		if dc.Code == s.state.code {
			if dc.Applicable {
				return nil
			}
			break
		}
	}
	return errNotApplicable
}

func (s *verifyCodeStep) Compensate(context.Context) error { return nil }
