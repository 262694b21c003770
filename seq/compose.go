package seq

// Stage is a reusable pipeline step.
type Stage[IN, OUT any] func(*Sequence[IN]) *Sequence[OUT]

// Through chains two stages together, creating a new stage that first
// applies s1 and then s2.
func Through[IN, MID, OUT any](s1 Stage[IN, MID], s2 Stage[MID, OUT]) Stage[IN, OUT] {
	return func(in *Sequence[IN]) *Sequence[OUT] {
		return s2(s1(in))
	}
}

// Chain composes stages of the same type into a single stage, applied left
// to right. With no stages it is the identity.
func Chain[T any](stages ...Stage[T, T]) Stage[T, T] {
	return func(in *Sequence[T]) *Sequence[T] {
		return Pipe(in, stages...)
	}
}

// Pipe applies stages to source in order and returns the final sequence.
func Pipe[T any](source *Sequence[T], stages ...Stage[T, T]) *Sequence[T] {
	out := source
	for _, s := range stages {
		out = s(out)
	}
	return out
}

// MapStage lifts f into a Stage.
func MapStage[IN, OUT any](f func(IN) OUT) Stage[IN, OUT] {
	return func(in *Sequence[IN]) *Sequence[OUT] {
		return Map(in, f)
	}
}

// FilterStage lifts pred into a Stage.
func FilterStage[T any](pred func(T) bool) Stage[T, T] {
	return func(in *Sequence[T]) *Sequence[T] {
		return in.Filter(pred)
	}
}
