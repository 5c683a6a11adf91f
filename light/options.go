package light

import (
	"errors"
	"fmt"
	"math"
	"time"

	tmmath "github.com/tendermint/lightcore/libs/math"
)

const (
	// DefaultTrustingPeriod is the trusting period used by the default
	// configuration. It should be significantly less than the unbonding
	// period of the chain.
	DefaultTrustingPeriod = 168 * time.Hour

	// DefaultMaxClockDrift is how far into the future a new header's time may
	// be relative to now.
	DefaultMaxClockDrift = 10 * time.Second
)

var (
	// DefaultTrustLevel - new header can be trusted if at least one correct
	// validator signed it.
	DefaultTrustLevel = tmmath.Fraction{Numerator: 1, Denominator: 3}
)

// Options are the parameters of a single verification. They are passed to
// every call; nothing is read from global state.
type Options struct {
	// TrustLevel is the share of the trusted next validator set's power that
	// must sign a non-adjacent header. Must be within [1/3, 1].
	TrustLevel tmmath.Fraction
	// TrustingPeriod is how long a trusted header can anchor verification.
	TrustingPeriod time.Duration
	// MaxClockDrift is how far into the future a new header's time may be.
	MaxClockDrift time.Duration
}

// DefaultOptions returns Options with the default trust level and clock drift
// and the given trusting period.
func DefaultOptions(trustingPeriod time.Duration) Options {
	return Options{
		TrustLevel:     DefaultTrustLevel,
		TrustingPeriod: trustingPeriod,
		MaxClockDrift:  DefaultMaxClockDrift,
	}
}

// ValidateBasic performs basic validation.
func (opts Options) ValidateBasic() error {
	if opts.TrustingPeriod <= 0 {
		return errors.New("negative or zero trusting period")
	}
	if opts.MaxClockDrift < 0 {
		return errors.New("negative max clock drift")
	}
	return ValidateTrustLevel(opts.TrustLevel)
}

// ValidateTrustLevel checks that trustLevel is within the allowed range [1/3,
// 1]. If not, it returns an error. 1/3 is the minimum amount of trust needed
// which does not break the security model.
func ValidateTrustLevel(lvl tmmath.Fraction) error {
	if lvl.Denominator == 0 ||
		(lvl.Numerator <= math.MaxUint64/3 && lvl.Numerator*3 < lvl.Denominator) || // < 1/3
		lvl.Numerator > lvl.Denominator { // > 1
		return fmt.Errorf("trustLevel must be within [1/3, 1], given %v", lvl)
	}
	return nil
}
