package light

import (
	"errors"
	"fmt"

	"github.com/tendermint/lightcore/types"
)

// TrustedState is the anchor of verification: a header the caller trusts,
// the validator set that signed it and the validator set of the next height.
//
// VerifySingle never modifies a TrustedState. On success it returns a new one
// holding the new header and copies of the validator sets it was given.
type TrustedState struct {
	SignedHeader     *types.SignedHeader `json:"signed_header"`
	ValidatorSet     *types.ValidatorSet `json:"validator_set"`
	NextValidatorSet *types.ValidatorSet `json:"next_validator_set"`
}

// NewTrustedState validates a subjectively chosen trust root and returns it
// as a TrustedState.
//
// See ValidateInitialSignedHeaderAndVals.
func NewTrustedState(sh *types.SignedHeader, vals, nextVals *types.ValidatorSet) (TrustedState, error) {
	if err := ValidateInitialSignedHeaderAndVals(sh, vals, nextVals); err != nil {
		return TrustedState{}, err
	}
	return TrustedState{
		SignedHeader:     sh,
		ValidatorSet:     vals.Copy(),
		NextValidatorSet: nextVals.Copy(),
	}, nil
}

// Height returns the height of the trusted header, 0 if there is none.
func (ts TrustedState) Height() uint64 {
	if ts.SignedHeader == nil || ts.SignedHeader.Header == nil {
		return 0
	}
	return ts.SignedHeader.Height
}

// ValidateBasic checks the state is complete and its parts are well formed.
// It does not verify signatures.
func (ts TrustedState) ValidateBasic() error {
	if ts.SignedHeader == nil {
		return errors.New("missing signed header")
	}
	if err := ts.SignedHeader.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid signed header: %w", err)
	}
	if err := ts.ValidatorSet.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid validator set: %w", err)
	}
	if err := ts.NextValidatorSet.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid next validator set: %w", err)
	}
	return nil
}

// ValidateTrustedState checks that ts is internally consistent and that its
// header is signed by more than 2/3 of its validator set.
func ValidateTrustedState(ts TrustedState) error {
	return ValidateInitialSignedHeaderAndVals(ts.SignedHeader, ts.ValidatorSet, ts.NextValidatorSet)
}

func (ts TrustedState) String() string {
	return fmt.Sprintf("TrustedState{#%d %X}", ts.Height(), ts.hash())
}

func (ts TrustedState) hash() []byte {
	if ts.SignedHeader == nil {
		return nil
	}
	return ts.SignedHeader.Header.Hash()
}
