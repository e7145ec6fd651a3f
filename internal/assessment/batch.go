package assessment

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds in-flight completion calls when the caller passes zero.
const DefaultBatchConcurrency = 4

// BatchItem holds the outcome for the input at the same index.
type BatchItem struct {
	Input  Input
	Result *Result
	Err    error
}

// AssessBatch assesses independent inputs in parallel. Items are returned in input order and a
// failed item does not cancel the others.
func (a *Assessor) AssessBatch(ctx context.Context, inputs []Input, concurrency int) []BatchItem {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	items := make([]BatchItem, len(inputs))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			items[i].Input = in
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = a.Assess(ctx, in)
			return nil
		})
	}
	_ = g.Wait()

	return items
}
