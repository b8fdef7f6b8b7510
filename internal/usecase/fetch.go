package usecase

import "log/slog"

// fetched is the outcome of one best-effort sub-fetch: either the data, or
// degraded with the cause. Degraded data is never mistaken for "no data".
type fetched[T any] struct {
	value    T
	degraded bool
	cause    error
}

func fetchOK[T any](v T) fetched[T] {
	return fetched[T]{value: v}
}

func fetchDegraded[T any](cause error) fetched[T] {
	return fetched[T]{degraded: true, cause: cause}
}

// orEmpty returns the fetched data, or the zero value after logging the
// degrade at WARN.
func (f fetched[T]) orEmpty(logger *slog.Logger, source, steamID string) T {
	if !f.degraded {
		return f.value
	}
	logger.Warn("steam sub-fetch degraded", "source", source, "steam_id", steamID, "err", f.cause)
	var zero T
	return zero
}
