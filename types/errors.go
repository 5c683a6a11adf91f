package types

import (
	"errors"
	"fmt"
)

// ErrMalformedData means the input could not have come from a well-formed
// chain: a structural check failed, a value does not fit its wire encoding,
// or voting power arithmetic overflowed.
type ErrMalformedData struct {
	Reason error
}

func (e ErrMalformedData) Error() string {
	return fmt.Sprintf("malformed data: %v", e.Reason)
}

func (e ErrMalformedData) Unwrap() error {
	return e.Reason
}

// NewErrMalformedData wraps err as ErrMalformedData, leaving an error that is
// already ErrMalformedData as is.
func NewErrMalformedData(err error) error {
	if err == nil {
		return nil
	}
	if IsErrMalformedData(err) {
		return err
	}
	return ErrMalformedData{Reason: err}
}

// IsErrMalformedData returns true if err is ErrMalformedData.
func IsErrMalformedData(err error) bool {
	return errors.As(err, &ErrMalformedData{})
}

// ErrInvalidCommitSignature is returned when a present commit signature does
// not verify against the public key of the validator in its slot.
type ErrInvalidCommitSignature struct {
	Index     int
	Signature []byte
}

func (e ErrInvalidCommitSignature) Error() string {
	return fmt.Sprintf("wrong signature (#%d): %X", e.Index, e.Signature)
}

// IsErrInvalidCommitSignature returns true if err is
// ErrInvalidCommitSignature.
func IsErrInvalidCommitSignature(err error) bool {
	return errors.As(err, &ErrInvalidCommitSignature{})
}

// ErrNotEnoughVotingPowerSigned is returned when not enough validators signed
// a commit.
type ErrNotEnoughVotingPowerSigned struct {
	Got    uint64
	Needed uint64
	Total  uint64
}

func (e ErrNotEnoughVotingPowerSigned) Error() string {
	return fmt.Sprintf("invalid commit -- insufficient voting power: got %d, needed more than %d (total %d)",
		e.Got, e.Needed, e.Total)
}

// IsErrNotEnoughVotingPowerSigned returns true if err is
// ErrNotEnoughVotingPowerSigned.
func IsErrNotEnoughVotingPowerSigned(err error) bool {
	return errors.As(err, &ErrNotEnoughVotingPowerSigned{})
}

// NewErrInvalidCommitSignatures returns ErrMalformedData for a commit whose
// number of signature slots differs from the validator set size.
func NewErrInvalidCommitSignatures(expected, actual int) error {
	return ErrMalformedData{
		Reason: fmt.Errorf("invalid commit -- wrong set size: %v vs %v", expected, actual),
	}
}
