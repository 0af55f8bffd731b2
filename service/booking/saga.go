package bookingsvc

import (
	"context"
	"fmt"
	"log/slog"
)

// sagaStep pairs a forward action with its compensating action. Steps run in
// order; once any step has committed, a later failure is handled by running
// the compensations of completed steps in reverse.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes the steps and returns the original failure plus any
// compensation failure. Compensation runs on a context that survives
// cancellation of the request: once started it must run to completion or be
// escalated by the caller.
func runSaga(ctx context.Context, log *slog.Logger, steps []sagaStep) (cause, compErr error) {
	done := make([]sagaStep, 0, len(steps))
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			cause = fmt.Errorf("%s: %w", st.name, err)
			break
		}
		done = append(done, st)
	}
	if cause == nil {
		return nil, nil
	}

	cctx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		st := done[i]
		if st.compensate == nil {
			continue
		}
		if err := st.compensate(cctx); err != nil {
			log.Error("saga compensation failed", "step", st.name, "err", err)
			if compErr == nil {
				compErr = fmt.Errorf("undo %s: %w", st.name, err)
			}
			continue
		}
		log.Info("saga step compensated", "step", st.name)
	}
	return cause, compErr
}
