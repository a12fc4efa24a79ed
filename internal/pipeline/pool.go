package pipeline

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Outcome is the tagged result of one unit of work. Value may be set even
// when Err is, a pack whose cards partially failed keeps the good ones.
type Outcome[T any] struct {
	Key   string
	Value T
	Err   error
}

func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

// RunPool runs unit on every input with at most `workers` of them in flight.
// A failing unit never cancels its siblings, every input yields exactly one
// outcome. Outcomes come back sorted by key so the aggregate does not depend
// on completion order.
func RunPool[In, Out any](
	ctx context.Context,
	workers int,
	inputs []In,
	key func(In) string,
	unit func(context.Context, In) (Out, error),
) []Outcome[Out] {
	outcomes := make([]Outcome[Out], len(inputs))

	var group errgroup.Group
	group.SetLimit(max(1, workers))
	for i, in := range inputs {
		group.Go(func() error {
			value, err := unit(ctx, in)
			outcomes[i] = Outcome[Out]{Key: key(in), Value: value, Err: err}
			return nil
		})
	}
	group.Wait()

	slices.SortStableFunc(outcomes, func(a, b Outcome[Out]) int {
		return strings.Compare(a.Key, b.Key)
	})
	return outcomes
}
