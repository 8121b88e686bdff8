package blackjack

import (
	"blackjack-server/internal/rng"
	"time"
)

// Options contains options for creating a new blackjack session
type Options struct {
	StartingBalance int
	// DealerDelay is the pause before each dealer draw
	DealerDelay time.Duration
	Shuffle     rng.Source
}

// DefaultOptions returns the default set of options
func DefaultOptions() Options {
	return Options{
		StartingBalance: 10000,
		DealerDelay:     time.Second,
		Shuffle:         rng.SourceMath,
	}
}
