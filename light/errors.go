package light

import (
	"errors"
	"fmt"
	"time"

	tmbytes "github.com/tendermint/lightcore/libs/bytes"
	"github.com/tendermint/lightcore/types"
)

// ErrOldHeaderExpired means the old (trusted) header has expired according to
// the given trustingPeriod and current time. If so, the light client must be
// reset subjectively.
type ErrOldHeaderExpired struct {
	At  time.Time
	Now time.Time
}

func (e ErrOldHeaderExpired) Error() string {
	return fmt.Sprintf("old header has expired at %v (now: %v)", e.At, e.Now)
}

// ErrTrustedHeaderFromFuture means the trusted header is newer than the
// current time, so its trusting period cannot be measured.
type ErrTrustedHeaderFromFuture struct {
	HeaderTime time.Time
	Now        time.Time
}

func (e ErrTrustedHeaderFromFuture) Error() string {
	return fmt.Sprintf("trusted header time %v is after now %v", e.HeaderTime, e.Now)
}

// ErrNonIncreasingHeight means the new header is not higher than the trusted
// one.
type ErrNonIncreasingHeight struct {
	Got     uint64
	Trusted uint64
}

func (e ErrNonIncreasingHeight) Error() string {
	return fmt.Sprintf("expected new header height %d to be greater than one of old header %d",
		e.Got, e.Trusted)
}

// ErrNonIncreasingTime means the new header is not later than the trusted
// one.
type ErrNonIncreasingTime struct {
	Got     time.Time
	Trusted time.Time
}

func (e ErrNonIncreasingTime) Error() string {
	return fmt.Sprintf("expected new header time %v to be after old header time %v", e.Got, e.Trusted)
}

// ErrChainIDMismatch means the new header belongs to another chain.
type ErrChainIDMismatch struct {
	Got     string
	Trusted string
}

func (e ErrChainIDMismatch) Error() string {
	return fmt.Sprintf("header belongs to another chain %q, not %q", e.Got, e.Trusted)
}

// ErrHeaderFromFuture means the new header is further in the future than the
// allowed clock drift.
type ErrHeaderFromFuture struct {
	HeaderTime    time.Time
	Now           time.Time
	MaxClockDrift time.Duration
}

func (e ErrHeaderFromFuture) Error() string {
	return fmt.Sprintf("new header has a time from the future %v (now: %v; max clock drift: %v)",
		e.HeaderTime, e.Now, e.MaxClockDrift)
}

// ErrInvalidValidatorSet means a validator set does not hash to the hash
// the header commits to: either the set supplied with the header, or, for an
// adjacent header, the next validator set of the trusted header.
type ErrInvalidValidatorSet struct {
	Expected tmbytes.HexBytes
	Got      tmbytes.HexBytes
	Height   uint64
}

func (e ErrInvalidValidatorSet) Error() string {
	return fmt.Sprintf("expected validators %X to match those of header %X at height %d",
		e.Expected, e.Got, e.Height)
}

// ErrHeaderCommitMismatch means the commit is not for the header.
type ErrHeaderCommitMismatch struct {
	Reason error
}

func (e ErrHeaderCommitMismatch) Error() string {
	return fmt.Sprintf("commit does not match header: %v", e.Reason)
}

func (e ErrHeaderCommitMismatch) Unwrap() error {
	return e.Reason
}

// ErrInvalidNextValidatorSet means the supplied next validator set does not
// hash to the header's NextValidatorsHash.
type ErrInvalidNextValidatorSet struct {
	Expected tmbytes.HexBytes
	Got      tmbytes.HexBytes
}

func (e ErrInvalidNextValidatorSet) Error() string {
	return fmt.Sprintf("expected next validators %X to match header's next validators hash %X",
		e.Got, e.Expected)
}

// ErrInsufficientVotingPower means the new header is not signed by more than
// 2/3 of its own validator set.
type ErrInsufficientVotingPower struct {
	Reason types.ErrNotEnoughVotingPowerSigned
}

func (e ErrInsufficientVotingPower) Error() string {
	return fmt.Sprintf("insufficient voting power for new header: %v", e.Reason)
}

func (e ErrInsufficientVotingPower) Unwrap() error {
	return e.Reason
}

// ErrNewValSetCantBeTrusted means the new validator set cannot be trusted
// because < 1/3rd (+trustLevel+) of the old validator set has signed.
type ErrNewValSetCantBeTrusted struct {
	Reason types.ErrNotEnoughVotingPowerSigned
}

func (e ErrNewValSetCantBeTrusted) Error() string {
	return fmt.Sprintf("cant trust new val set: %v", e.Reason)
}

func (e ErrNewValSetCantBeTrusted) Unwrap() error {
	return e.Reason
}

//-----------------------------------------------------------------------------

// ErrorKind classifies a verification error.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMalformedData
	KindTrustedStateExpired
	KindNonIncreasingHeight
	KindNonIncreasingTime
	KindChainIDMismatch
	KindHeaderFromFuture
	KindValidatorSetMismatch
	KindHeaderCommitMismatch
	KindNextValidatorSetMismatch
	KindInvalidCommitSignature
	KindInsufficientVotingPower
	KindInsufficientTrustLevel
	KindUnknown
)

var kindNames = map[ErrorKind]string{
	KindNone:                     "ok",
	KindMalformedData:            "malformed_data",
	KindTrustedStateExpired:      "trusted_state_expired",
	KindNonIncreasingHeight:      "non_increasing_height",
	KindNonIncreasingTime:        "non_increasing_time",
	KindChainIDMismatch:          "chain_id_mismatch",
	KindHeaderFromFuture:         "header_from_future",
	KindValidatorSetMismatch:     "validator_set_mismatch",
	KindHeaderCommitMismatch:     "header_commit_mismatch",
	KindNextValidatorSetMismatch: "next_validator_set_mismatch",
	KindInvalidCommitSignature:   "invalid_commit_signature",
	KindInsufficientVotingPower:  "insufficient_voting_power",
	KindInsufficientTrustLevel:   "insufficient_trust_level",
	KindUnknown:                  "unknown",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Kind returns the kind of err, KindNone for a nil error. A trusted header
// from the future is reported as KindTrustedStateExpired: in both cases the
// trusted state cannot anchor verification at now.
//
// The bisection driver retries with a closer height on
// KindInsufficientTrustLevel and KindInsufficientVotingPower.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &ErrOldHeaderExpired{}), errors.As(err, &ErrTrustedHeaderFromFuture{}):
		return KindTrustedStateExpired
	case errors.As(err, &ErrNonIncreasingHeight{}):
		return KindNonIncreasingHeight
	case errors.As(err, &ErrNonIncreasingTime{}):
		return KindNonIncreasingTime
	case errors.As(err, &ErrChainIDMismatch{}):
		return KindChainIDMismatch
	case errors.As(err, &ErrHeaderFromFuture{}):
		return KindHeaderFromFuture
	case errors.As(err, &ErrInvalidValidatorSet{}):
		return KindValidatorSetMismatch
	case errors.As(err, &ErrHeaderCommitMismatch{}):
		return KindHeaderCommitMismatch
	case errors.As(err, &ErrInvalidNextValidatorSet{}):
		return KindNextValidatorSetMismatch
	case errors.As(err, &ErrInsufficientVotingPower{}):
		return KindInsufficientVotingPower
	case errors.As(err, &ErrNewValSetCantBeTrusted{}):
		return KindInsufficientTrustLevel
	case types.IsErrInvalidCommitSignature(err):
		return KindInvalidCommitSignature
	case types.IsErrMalformedData(err):
		return KindMalformedData
	default:
		return KindUnknown
	}
}
