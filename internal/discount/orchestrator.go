package discount

import (
	"context"

	"go.uber.org/multierr"

	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
)

// step is one unit of the apply saga. Compensate undoes a step that completed when a later
// step fails.
type step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

type runReport struct {
	failedStep    string
	err           error
	compensated   []string
	compensateErr error
}

type orchestrator struct {
	steps []step
	logg  *logger.Logger
}

// run executes the steps in order and compensates completed steps in reverse when one fails.
// Compensation failures are collected in the report and never replace the step error.
func (o *orchestrator) run(ctx context.Context) runReport {
	completed := make([]step, 0, len(o.steps))
	for _, s := range o.steps {
		stepCtx := o.logg.WithField(ctx, "step", s.Name())
		o.logg.Debug(stepCtx, "discount.step.start")
		if err := s.Execute(ctx); err != nil {
			o.logg.Warn(o.logg.WithField(stepCtx, "error", err.Error()), "discount.step.failed")
			report := runReport{failedStep: s.Name(), err: err}
			o.rollback(ctx, completed, &report)
			return report
		}
		completed = append(completed, s)
	}
	return runReport{}
}

func (o *orchestrator) rollback(ctx context.Context, completed []step, report *runReport) {
	// a caller hanging up must not leave the cart half applied
	ctx = context.WithoutCancel(ctx)
	for i := len(completed) - 1; i >= 0; i-- {
		s := completed[i]
		if err := s.Compensate(ctx); err != nil {
			report.compensateErr = multierr.Append(report.compensateErr, err)
			o.logg.Error(o.logg.WithField(ctx, "step", s.Name()), "discount.revert.failed", err)
			continue
		}
		report.compensated = append(report.compensated, s.Name())
	}
}
