// Package saga runs two-step writes that span stores without a shared
// transaction: a first write that can be undone, then a committing write.
// If the commit fails the first write is compensated.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// Steps reported in Error.
const (
	StepAttempt = "attempt"
	StepCommit  = "commit"
)

// DefaultCompensationTimeout bounds a compensation when none is configured.
const DefaultCompensationTimeout = 10 * time.Second

// Outcome of a Run, for observers.
type Outcome string

const (
	OutcomeCommitted     Outcome = "committed"
	OutcomeAttemptFailed Outcome = "attempt_failed"
	// OutcomeCommitFailed is a failed commit with nothing to compensate.
	OutcomeCommitFailed Outcome = "commit_failed"
	OutcomeCompensated  Outcome = "compensated"
	// OutcomeOrphaned means the compensation itself failed and the first
	// write is left behind.
	OutcomeOrphaned Outcome = "orphaned"
)

// Observer receives the outcome of every run. It must be safe for
// concurrent use.
type Observer interface {
	SagaFinished(name string, outcome Outcome)
}

// Error reports a failed run. It matches common.ErrPersistenceFailed and
// the underlying cause.
type Error struct {
	Saga  string
	Step  string
	Cause error
	// CompensationErr is set when the undo of the first step failed too.
	CompensationErr error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %v", e.Saga, e.Step, e.Cause)
	if e.CompensationErr != nil {
		msg += fmt.Sprintf(" (compensation failed: %v)", e.CompensationErr)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	return []error{common.ErrPersistenceFailed, e.Cause}
}

// TwoStep describes one saga. D is the result of the first write, R the
// result of the commit.
type TwoStep[D, R any] struct {
	Name string

	// Attempt performs the undoable write. skip reports that there is
	// nothing to write, in which case Compensate is never called.
	Attempt    func(ctx context.Context) (d D, skip bool, err error)
	Commit     func(ctx context.Context, d D) (R, error)
	Compensate func(ctx context.Context, d D) error
}

// Runner executes sagas with shared logging, timeout and observer.
type Runner struct {
	logger              logging.Logger
	observer            Observer
	compensationTimeout time.Duration
}

func NewRunner(logger logging.Logger, observer Observer, compensationTimeout time.Duration) *Runner {
	if compensationTimeout <= 0 {
		compensationTimeout = DefaultCompensationTimeout
	}
	return &Runner{logger: logger, observer: observer, compensationTimeout: compensationTimeout}
}

// Run executes s. On commit failure the compensation runs even if ctx is
// already cancelled; its failure is logged and attached to the returned
// error, but the commit failure stays the cause.
func Run[D, R any](ctx context.Context, r *Runner, s TwoStep[D, R]) (R, error) {
	var zero R

	d, skip, err := s.Attempt(ctx)
	if err != nil {
		r.logger.Warn(ctx, "saga attempt failed", "saga", s.Name, "cause", err.Error())
		r.finish(s.Name, OutcomeAttemptFailed)
		return zero, &Error{Saga: s.Name, Step: StepAttempt, Cause: err}
	}

	res, err := s.Commit(ctx, d)
	if err == nil {
		r.finish(s.Name, OutcomeCommitted)
		return res, nil
	}

	serr := &Error{Saga: s.Name, Step: StepCommit, Cause: err}
	if skip {
		r.finish(s.Name, OutcomeCommitFailed)
		return zero, serr
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.compensationTimeout)
	defer cancel()

	if cerr := s.Compensate(cctx, d); cerr != nil {
		serr.CompensationErr = cerr
		r.logger.Error(ctx, "saga compensation failed",
			"saga", s.Name, "cause", err.Error(), "compensation_error", cerr.Error())
		r.finish(s.Name, OutcomeOrphaned)
		return zero, serr
	}

	r.logger.Warn(ctx, "saga compensated", "saga", s.Name, "cause", err.Error())
	r.finish(s.Name, OutcomeCompensated)
	return zero, serr
}

func (r *Runner) finish(name string, outcome Outcome) {
	if r.observer != nil {
		r.observer.SagaFinished(name, outcome)
	}
}

// IsOrphaned reports whether err is a saga failure that left the first
// write behind.
func IsOrphaned(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.CompensationErr != nil
}
