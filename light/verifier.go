package light

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/tendermint/lightcore/types"
)

// VerifySingle verifies untrustedHeader, signed by untrustedVals, against the
// trusted state and returns the state to trust next. It ensures that:
//
//	a) trusted can still be trusted at now (if not, ErrOldHeaderExpired is returned)
//	b) untrustedHeader and both untrusted validator sets are well formed
//	   (if not, types.ErrMalformedData is returned)
//	c) untrustedVals and untrustedHeader.Commit belong to untrustedHeader
//	d) untrustedHeader is higher and later than the trusted header, on the same chain
//	e) untrustedHeader is not from the future, allowing for opts.MaxClockDrift
//	f) the trusted next validators are the ones the trusted header names; for an
//	   adjacent header, untrustedVals are the trusted next validators;
//	   otherwise opts.TrustLevel of the trusted next validators signed
//	   untrustedHeader (if not, ErrNewValSetCantBeTrusted is returned)
//	g) more than 2/3 of untrustedVals signed untrustedHeader
//	   (if not, ErrInsufficientVotingPower is returned)
//	h) untrustedNextVals are the validators untrustedHeader names for the next height
//
// The checks run in that order and the first failure is returned. Every
// signature of the commit is verified; a bad one is returned as
// types.ErrInvalidCommitSignature. No argument is modified, and the returned
// state holds copies of the validator sets.
func VerifySingle(
	trusted TrustedState, // height=X
	untrustedHeader *types.SignedHeader, // height=Y
	untrustedVals *types.ValidatorSet, // height=Y
	untrustedNextVals *types.ValidatorSet, // height=Y+1
	opts Options,
	now time.Time) (TrustedState, error) {

	if err := opts.ValidateBasic(); err != nil {
		return TrustedState{}, types.ErrMalformedData{Reason: fmt.Errorf("invalid options: %w", err)}
	}
	if trusted.SignedHeader == nil || trusted.SignedHeader.Header == nil {
		return TrustedState{}, types.ErrMalformedData{Reason: errors.New("trusted state has no header")}
	}
	trustedHeader := trusted.SignedHeader

	if err := checkTrustingPeriod(trustedHeader, opts.TrustingPeriod, now); err != nil {
		return TrustedState{}, err
	}

	if err := validateUntrusted(untrustedHeader, untrustedVals, untrustedNextVals); err != nil {
		return TrustedState{}, err
	}

	if err := crossCheck(untrustedHeader, untrustedVals); err != nil {
		return TrustedState{}, err
	}

	if err := checkMonotonicity(trustedHeader, untrustedHeader); err != nil {
		return TrustedState{}, err
	}

	if untrustedHeader.Time.After(now.Add(opts.MaxClockDrift)) {
		return TrustedState{}, ErrHeaderFromFuture{
			HeaderTime:    untrustedHeader.Time,
			Now:           now,
			MaxClockDrift: opts.MaxClockDrift,
		}
	}

	trustedNextVals, err := trustedNextValidators(trustedHeader, trusted.NextValidatorSet)
	if err != nil {
		return TrustedState{}, err
	}
	if untrustedHeader.Height == trustedHeader.Height+1 {
		// Check the validator hashes are the same
		if !bytes.Equal(untrustedHeader.ValidatorsHash, trustedHeader.NextValidatorsHash) {
			return TrustedState{}, ErrInvalidValidatorSet{
				Expected: trustedHeader.NextValidatorsHash,
				Got:      untrustedHeader.ValidatorsHash,
				Height:   untrustedHeader.Height,
			}
		}
		if !untrustedVals.Equals(trustedNextVals) {
			return TrustedState{}, ErrInvalidValidatorSet{
				Expected: trustedNextVals.Hash(),
				Got:      untrustedVals.Hash(),
				Height:   untrustedHeader.Height,
			}
		}
	} else if err := verifyTrustLevel(trustedNextVals, untrustedHeader, opts); err != nil {
		return TrustedState{}, err
	}

	// Ensure that +2/3 of new validators signed correctly.
	if err := verifyCommitPower(untrustedHeader, untrustedVals); err != nil {
		return TrustedState{}, err
	}

	if nextHash := untrustedNextVals.Hash(); !bytes.Equal(untrustedHeader.NextValidatorsHash, nextHash) {
		return TrustedState{}, ErrInvalidNextValidatorSet{
			Expected: untrustedHeader.NextValidatorsHash,
			Got:      nextHash,
		}
	}

	return TrustedState{
		SignedHeader:     untrustedHeader,
		ValidatorSet:     untrustedVals.Copy(),
		NextValidatorSet: untrustedNextVals.Copy(),
	}, nil
}

// ValidateInitialSignedHeaderAndVals validates a subjectively chosen trust
// root before first use: the header, commit and both validator sets must be
// well formed and bound to each other, and more than 2/3 of vals must have
// signed the header.
func ValidateInitialSignedHeaderAndVals(sh *types.SignedHeader, vals, nextVals *types.ValidatorSet) error {
	if err := validateUntrusted(sh, vals, nextVals); err != nil {
		return err
	}
	if err := crossCheck(sh, vals); err != nil {
		return err
	}
	if err := verifyCommitPower(sh, vals); err != nil {
		return err
	}
	if nextHash := nextVals.Hash(); !bytes.Equal(sh.NextValidatorsHash, nextHash) {
		return ErrInvalidNextValidatorSet{
			Expected: sh.NextValidatorsHash,
			Got:      nextHash,
		}
	}
	return nil
}

// HeaderExpired return true if the given header expired: more than
// trustingPeriod has passed since its time. A header exactly trustingPeriod
// old has not expired.
func HeaderExpired(h *types.SignedHeader, trustingPeriod time.Duration, now time.Time) bool {
	expirationTime := h.Time.Add(trustingPeriod)
	return now.After(expirationTime)
}

func checkTrustingPeriod(trustedHeader *types.SignedHeader, trustingPeriod time.Duration, now time.Time) error {
	if HeaderExpired(trustedHeader, trustingPeriod, now) {
		return ErrOldHeaderExpired{At: trustedHeader.Time.Add(trustingPeriod), Now: now}
	}
	if trustedHeader.Time.After(now) {
		return ErrTrustedHeaderFromFuture{HeaderTime: trustedHeader.Time, Now: now}
	}
	return nil
}

func validateUntrusted(
	untrustedHeader *types.SignedHeader,
	untrustedVals *types.ValidatorSet,
	untrustedNextVals *types.ValidatorSet) error {

	if untrustedHeader == nil {
		return types.ErrMalformedData{Reason: errors.New("missing signed header")}
	}
	if err := untrustedHeader.ValidateBasic(); err != nil {
		return types.ErrMalformedData{Reason: fmt.Errorf("untrustedHeader.ValidateBasic failed: %w", err)}
	}
	if err := untrustedVals.ValidateBasic(); err != nil {
		return types.NewErrMalformedData(fmt.Errorf("invalid validator set: %w", err))
	}
	if err := untrustedNextVals.ValidateBasic(); err != nil {
		return types.NewErrMalformedData(fmt.Errorf("invalid next validator set: %w", err))
	}
	// Signers are matched to validators in crossCheck, once the set is known
	// to be the one the header commits to.
	if untrustedVals.Size() != len(untrustedHeader.Commit.Signatures) {
		return types.NewErrInvalidCommitSignatures(untrustedVals.Size(), len(untrustedHeader.Commit.Signatures))
	}
	return nil
}

// crossCheck ensures the validator set and the commit belong to the header.
// Commit signers must sit at the positions of their validators in vals.
func crossCheck(sh *types.SignedHeader, vals *types.ValidatorSet) error {
	if valsHash := vals.Hash(); !bytes.Equal(sh.ValidatorsHash, valsHash) {
		return ErrInvalidValidatorSet{
			Expected: sh.ValidatorsHash,
			Got:      valsHash,
			Height:   sh.Height,
		}
	}
	if err := types.ValidateCommitBasic(sh.Commit, vals); err != nil {
		return types.ErrMalformedData{Reason: fmt.Errorf("invalid commit: %w", err)}
	}

	if sh.Commit.Height != sh.Height {
		return ErrHeaderCommitMismatch{
			Reason: fmt.Errorf("header and commit height mismatch: %d vs %d", sh.Height, sh.Commit.Height),
		}
	}
	if hhash, chash := sh.Header.Hash(), sh.Commit.BlockID.Hash; !bytes.Equal(hhash, chash) {
		return ErrHeaderCommitMismatch{
			Reason: fmt.Errorf("commit signs block %X, header is block %X", chash, hhash),
		}
	}
	return nil
}

func checkMonotonicity(trustedHeader, untrustedHeader *types.SignedHeader) error {
	if untrustedHeader.Height <= trustedHeader.Height {
		return ErrNonIncreasingHeight{Got: untrustedHeader.Height, Trusted: trustedHeader.Height}
	}
	if !untrustedHeader.Time.After(trustedHeader.Time) {
		return ErrNonIncreasingTime{Got: untrustedHeader.Time, Trusted: trustedHeader.Time}
	}
	if untrustedHeader.ChainID != trustedHeader.ChainID {
		return ErrChainIDMismatch{Got: untrustedHeader.ChainID, Trusted: trustedHeader.ChainID}
	}
	return nil
}

// trustedNextValidators checks the next validator set of the trusted state is
// well formed and is the one the trusted header names for the next height.
func trustedNextValidators(trustedHeader *types.SignedHeader, nextVals *types.ValidatorSet) (*types.ValidatorSet, error) {
	if err := nextVals.ValidateBasic(); err != nil {
		return nil, types.NewErrMalformedData(fmt.Errorf("invalid trusted next validator set: %w", err))
	}
	if nextHash := nextVals.Hash(); !bytes.Equal(trustedHeader.NextValidatorsHash, nextHash) {
		return nil, ErrInvalidValidatorSet{
			Expected: trustedHeader.NextValidatorsHash,
			Got:      nextHash,
			Height:   trustedHeader.Height + 1,
		}
	}
	return nextVals, nil
}

// verifyTrustLevel ensures that +`trustLevel` (default 1/3) or more of the
// trusted next validators signed correctly.
func verifyTrustLevel(trustedVals *types.ValidatorSet, untrustedHeader *types.SignedHeader, opts Options) error {
	err := types.VerifyCommitLightTrusting(untrustedHeader.ChainID, trustedVals, untrustedHeader.Commit, opts.TrustLevel)
	var e types.ErrNotEnoughVotingPowerSigned
	if errors.As(err, &e) {
		return ErrNewValSetCantBeTrusted{e}
	}
	return err
}

// verifyCommitPower ensures that +2/3 of vals signed sh.
func verifyCommitPower(sh *types.SignedHeader, vals *types.ValidatorSet) error {
	err := types.VerifyCommitLight(sh.ChainID, vals, sh.Commit.BlockID, sh.Height, sh.Commit)
	var e types.ErrNotEnoughVotingPowerSigned
	if errors.As(err, &e) {
		return ErrInsufficientVotingPower{e}
	}
	return err
}
