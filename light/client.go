package light

import (
	"fmt"
	"time"

	"github.com/tendermint/lightcore/libs/log"
	"github.com/tendermint/lightcore/types"
)

// Option sets a parameter for the light verifier.
type Option func(*Verifier)

// Logger option can be used to set a logger for the verifier.
func Logger(l log.Logger) Option {
	return func(v *Verifier) {
		v.logger = l
	}
}

// WithMetrics sets the metrics the verifier reports to.
func WithMetrics(m *Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// Verifier runs VerifySingle with fixed Options and reports every outcome to
// its logger and metrics. It keeps no verification state: the trusted state
// is passed in and returned on every call, so a Verifier can be shared by
// goroutines verifying unrelated headers.
type Verifier struct {
	opts Options

	logger  log.Logger
	metrics *Metrics
}

// NewVerifier returns a new Verifier. An error is returned if opts are
// invalid.
func NewVerifier(opts Options, options ...Option) (*Verifier, error) {
	if err := opts.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	v := &Verifier{
		opts:    opts,
		logger:  log.NewNopLogger(),
		metrics: NopMetrics(),
	}
	for _, o := range options {
		o(v)
	}
	return v, nil
}

// Options returns the options the verifier was created with.
func (v *Verifier) Options() Options {
	return v.opts
}

// Verify verifies newHeader against trusted at time now.
//
// See VerifySingle.
func (v *Verifier) Verify(
	trusted TrustedState,
	newHeader *types.SignedHeader,
	newVals, newNextVals *types.ValidatorSet,
	now time.Time) (TrustedState, error) {

	start := time.Now()
	next, err := VerifySingle(trusted, newHeader, newVals, newNextVals, v.opts, now)
	v.metrics.VerificationDuration.Observe(time.Since(start).Seconds())

	kind := Kind(err)
	v.metrics.Verifications.With("outcome", kind.String()).Add(1)

	if err != nil {
		keyVals := []interface{}{"trusted", trusted.Height(), "err", err, "kind", kind.String()}
		if newHeader != nil && newHeader.Header != nil {
			keyVals = append(keyVals, "height", newHeader.Height)
		}
		v.logger.Info("Header verification failed", keyVals...)
		return TrustedState{}, err
	}

	v.metrics.TrustedHeight.Set(float64(next.Height()))
	v.metrics.SkipDistance.Observe(float64(next.Height() - trusted.Height()))
	v.logger.Debug("Verified header",
		"height", next.Height(),
		"hash", next.SignedHeader.Hash(),
		"trusted", trusted.Height(),
		"adjacent", next.Height() == trusted.Height()+1)

	return next, nil
}
