package ergast

// Source tells where an Outcome's value came from.
type Source int

const (
	SourceLive Source = iota
	SourceCache
	SourceEmpty
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceCache:
		return "cache"
	}
	return "empty"
}

// Outcome is the explicit result of a gateway call. Err is the fetch
// failure that forced a cache or empty result, nil for live results.
type Outcome[T any] struct {
	Value  T
	Source Source
	Err    error
}

func (o Outcome[T]) Stale() bool {
	return o.Source == SourceCache
}
