package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
	"github.com/teamgamma/storefront-discount-relay/pkg/shopify"
)

type storefront interface {
	FetchCart(ctx context.Context, cartID string) (*shopify.Cart, error)
	UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*shopify.DiscountCodesUpdatePayload, error)
}

// Recorder counts apply outcomes and compensating reverts.
type Recorder interface {
	IncOutcome(outcome string)
	IncRevert(result string)
}

type nopRecorder struct{}

func (nopRecorder) IncOutcome(string) {}
func (nopRecorder) IncRevert(string)  {}

// Service applies discount codes to Storefront carts.
type Service interface {
	Apply(ctx context.Context, req Request) Result
}

type service struct {
	store    storefront
	logg     *logger.Logger
	recorder Recorder
}

// NewService builds the discount applier.
func NewService(store storefront, logg *logger.Logger, recorder Recorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storefront client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &service{
		store:    store,
		logg:     logg,
		recorder: recorder,
	}, nil
}

// Apply runs fetch, apply and verify against the cart, reverting the apply when the new code
// turns out not to be applicable. Every outbound call is attempted once.
func (s *service) Apply(ctx context.Context, req Request) (result Result) {
	code := strings.TrimSpace(req.DiscountCode)
	result.Code = code

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			s.logg.Error(ctx, "discount.apply.panic", err)
			result = Result{Outcome: OutcomeInternalError, Code: code, Cause: err}
		}
		s.recorder.IncOutcome(string(result.Outcome))
	}()

	if code == "" {
		result.Outcome = OutcomeInputError
		result.Cause = errors.New("discount code is required")
		return result
	}
	cartID, err := NewCartReference(req.CartToken)
	if err != nil {
		result.Outcome = OutcomeInputError
		result.Cause = err
		return result
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"cart_ref":      logger.Fingerprint(cartID.String()),
		"discount_code": code,
	})
	s.logg.Info(ctx, "discount.apply.start")

	state := &applyState{cartID: cartID, code: code}
	saga := &orchestrator{
		steps: []step{
			&fetchCartStep{store: s.store, state: state},
			&applyCodesStep{store: s.store, state: state},
			&verifyCodeStep{state: state},
		},
		logg: s.logg,
	}
	report := saga.run(ctx)

	if state.revert != "" {
		s.recorder.IncRevert(state.revert)
	}
	result.Reverted = state.revert == RevertOK
	result.RevertErr = report.compensateErr

	if report.err != nil {
		result = s.classify(ctx, result, report)
		return result
	}

	snapshot, err := snapshotFromCart(state.applied)
	if err != nil {
		result.Outcome = OutcomeTransportError
		result.Cause = err
		s.logg.Error(ctx, "discount.apply.malformed_response", err)
		return result
	}

	result.Outcome = OutcomeSuccess
	result.Cart = snapshot
	s.logg.Info(s.logg.WithField(ctx, "applied_codes", len(state.existing)+1), "discount.apply.success")
	return result
}

func (s *service) classify(ctx context.Context, result Result, report runReport) Result {
	result.Cause = report.err

	var rejected *rejectedError
	switch {
	case errors.As(report.err, &rejected):
		result.Outcome = OutcomeUpstreamRejected
		result.UserErrors = rejected.userErrors
		s.logg.Warn(ctx, "discount.apply.rejected")
	case errors.Is(report.err, errNotApplicable):
		result.Outcome = OutcomeNotApplicable
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"reverted":      result.Reverted,
			"revert_failed": result.RevertErr != nil,
		}), "discount.apply.not_applicable")
	default:
		result.Outcome = OutcomeTransportError
		s.logg.Error(s.logg.WithField(ctx, "step", report.failedStep), "discount.apply.upstream_failed", report.err)
	}
	return result
}
