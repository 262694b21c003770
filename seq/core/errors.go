package core

import "errors"

// ErrUnboundedEvaluation is returned when a terminal operation that must
// drain its input is invoked on a sequence built from an infinite source
// without a Limit. It is also reported for stages that need the whole
// input up front, such as sorting an unbounded sequence.
var ErrUnboundedEvaluation = errors.New("seq: cannot fully evaluate an unbounded sequence")

// ErrReuse is returned when a terminal operation is invoked on a chain that
// has already been consumed. Every stage derived from the same source
// belongs to the same chain.
var ErrReuse = errors.New("seq: sequence has already been consumed")
