package calc

import (
	"context"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one evaluation in EvalBatch.
type BatchResult struct {
	// Value is the result of the evaluation, or nil if it failed.
	Value *Value
	// Err is the evaluation error, e.g. a *NameError.
	Err error
}

// EvalBatch evaluates e once for each set of variable values in sets, with up
// to jobs evaluations running concurrently. If jobs is not positive, there is
// no limit. Each evaluation uses its own clone of base with the set applied,
// so base must not be modified until EvalBatch returns.
//
// Results are in the same order as sets. Evaluation errors are reported in
// the corresponding result; the returned error is non-nil only if ctx is
// done before every evaluation has started.
func EvalBatch(ctx context.Context, e *Expr, base *Context, sets []map[string]*big.Float, jobs int) ([]BatchResult, error) {
	res := make([]BatchResult, len(sets))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, set := range sets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := base.Clone(SetVars(set))
			v := c.Eval(e)
			res[i] = BatchResult{Value: v, Err: c.Err()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
