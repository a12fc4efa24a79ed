package catalog

import (
	"errors"
	"fmt"
)

// errNotApplicable is returned by a strategy whose preconditions do not hold
// for the input, the chain moves on without remembering it as a failure.
var errNotApplicable = errors.New("not applicable")

type strategy[In, Out any] struct {
	name   string
	decode func(In) (Out, error)
}

// firstOf runs the strategies in order and returns the output and the name of
// the first one that succeeds. When all of them fail the error of the last
// strategy that actually tried is returned.
func firstOf[In, Out any](in In, strategies ...strategy[In, Out]) (Out, string, error) {
	var lastErr error
	for _, s := range strategies {
		out, err := s.decode(in)
		if err == nil {
			return out, s.name, nil
		}
		if errors.Is(err, errNotApplicable) {
			continue
		}
		lastErr = fmt.Errorf("%s: %w", s.name, err)
	}

	var zero Out
	if lastErr == nil {
		lastErr = errNotApplicable
	}
	return zero, "", lastErr
}
