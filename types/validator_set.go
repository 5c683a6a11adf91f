package types

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tendermint/lightcore/crypto/merkle"
	tmmath "github.com/tendermint/lightcore/libs/math"
)

// ValidatorSet represent a set of *Validator at a given height.
//
// The validators can be fetched by address or index. Validators keep the
// order they were given in: it is the order the set is hashed in and the
// order of the signature slots of every commit the set produces.
// NewValidatorSet puts them in the canonical order, by voting power
// (descending) and then by address (ascending).
//
// A ValidatorSet is never modified after construction, so it is safe to
// share between goroutines.
type ValidatorSet struct {
	// NOTE: persisted via reflect, must be exported.
	Validators []*Validator `json:"validators"`
}

// NewValidatorSet initializes a ValidatorSet by copying over the values from
// `valz`, a list of Validators, and sorting them in the canonical order.
// If valz is nil or empty, the new ValidatorSet will have an empty list of
// Validators.
//
// Uniqueness of addresses is not checked here; see ValidateBasic.
func NewValidatorSet(valz []*Validator) *ValidatorSet {
	validators := validatorListCopy(valz)
	sort.Sort(ValidatorsByVotingPower(validators))
	return &ValidatorSet{Validators: validators}
}

// ValidatorSetFromExistingValidators returns a set holding a copy of valz in
// the given order, as a set decoded from the wire would.
func ValidatorSetFromExistingValidators(valz []*Validator) *ValidatorSet {
	return &ValidatorSet{Validators: validatorListCopy(valz)}
}

// ValidateBasic checks the set is non-empty, every validator is well formed,
// addresses are unique and the total voting power fits in 64 bits.
func (vals *ValidatorSet) ValidateBasic() error {
	if vals.IsNilOrEmpty() {
		return errors.New("validator set is nil or empty")
	}

	seen := make(map[string]int, len(vals.Validators))
	for idx, val := range vals.Validators {
		if err := val.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid validator #%d: %w", idx, err)
		}
		if first, ok := seen[string(val.Address)]; ok {
			return fmt.Errorf("duplicate validator %v (#%d and #%d)", val.Address, first, idx)
		}
		seen[string(val.Address)] = idx
	}

	if _, err := vals.TotalVotingPower(); err != nil {
		return err
	}

	return nil
}

// IsNilOrEmpty returns true if validator set is nil or empty.
func (vals *ValidatorSet) IsNilOrEmpty() bool {
	return vals == nil || len(vals.Validators) == 0
}

// Equals returns true if both sets hold the same validators in the same
// order.
func (vals *ValidatorSet) Equals(other *ValidatorSet) bool {
	if vals.Size() != other.Size() {
		return false
	}
	for i, val := range vals.Validators {
		if !bytes.Equal(val.Bytes(), other.Validators[i].Bytes()) {
			return false
		}
	}
	return true
}

// Makes a copy of the validator list.
func validatorListCopy(valsList []*Validator) []*Validator {
	if valsList == nil {
		return nil
	}
	valsCopy := make([]*Validator, len(valsList))
	for i, val := range valsList {
		if val != nil {
			valsCopy[i] = val.Copy()
		}
	}
	return valsCopy
}

// Copy each validator into a new ValidatorSet.
func (vals *ValidatorSet) Copy() *ValidatorSet {
	return &ValidatorSet{Validators: validatorListCopy(vals.Validators)}
}

// HasAddress returns true if address given is in the validator set, false -
// otherwise.
func (vals *ValidatorSet) HasAddress(address []byte) bool {
	idx, _ := vals.GetByAddress(address)
	return idx != -1
}

// GetByAddress returns an index of the validator with address and validator
// itself (copy) if found. Otherwise, -1 and nil are returned.
func (vals *ValidatorSet) GetByAddress(address []byte) (index int32, val *Validator) {
	for idx, val := range vals.Validators {
		if bytes.Equal(val.Address, address) {
			return int32(idx), val.Copy()
		}
	}
	return -1, nil
}

// GetByIndex returns the validator's address and validator itself (copy) by
// index.
// It returns nil values if index is less than 0 or greater or equal to
// len(ValidatorSet.Validators).
func (vals *ValidatorSet) GetByIndex(index int32) (address []byte, val *Validator) {
	if index < 0 || int(index) >= len(vals.Validators) {
		return nil, nil
	}
	val = vals.Validators[index]
	return val.Address, val.Copy()
}

// Size returns the length of the validator set.
func (vals *ValidatorSet) Size() int {
	if vals == nil {
		return 0
	}
	return len(vals.Validators)
}

// TotalVotingPower returns the sum of the voting powers of all validators.
// It is recomputed on every call. An overflow is reported as
// ErrMalformedData.
func (vals *ValidatorSet) TotalVotingPower() (uint64, error) {
	var sum uint64
	for _, val := range vals.Validators {
		var err error
		sum, err = tmmath.SafeAddUint64(sum, val.VotingPower)
		if err != nil {
			return 0, ErrMalformedData{
				Reason: fmt.Errorf("total voting power of validator set: %w", err),
			}
		}
	}
	return sum, nil
}

// Hash returns the Merkle root hash build using validators (as leaves) in the
// set.
//
// See merkle.HashFromByteSlices.
func (vals *ValidatorSet) Hash() []byte {
	bzs := make([][]byte, vals.Size())
	for i, val := range vals.Validators {
		bzs[i] = val.Bytes()
	}
	return merkle.HashFromByteSlices(bzs)
}

// Iterate will run the given function over the set.
func (vals *ValidatorSet) Iterate(fn func(index int, val *Validator) bool) {
	for i, val := range vals.Validators {
		stop := fn(i, val.Copy())
		if stop {
			break
		}
	}
}

//----------------

// String returns a string representation of ValidatorSet.
//
// See StringIndented.
func (vals *ValidatorSet) String() string {
	return vals.StringIndented("")
}

// StringIndented returns an intended String.
//
// See Validator#String.
func (vals *ValidatorSet) StringIndented(indent string) string {
	if vals == nil {
		return "nil-ValidatorSet"
	}
	var valStrings []string
	vals.Iterate(func(index int, val *Validator) bool {
		valStrings = append(valStrings, val.String())
		return false
	})
	return fmt.Sprintf(`ValidatorSet{
%s  Validators:
%s    %v
%s}`,
		indent,
		indent, strings.Join(valStrings, "\n"+indent+"    "),
		indent)
}

//-------------------------------------

// ValidatorsByVotingPower implements sort.Interface for []*Validator based on
// the VotingPower and Address fields.
type ValidatorsByVotingPower []*Validator

func (valz ValidatorsByVotingPower) Len() int { return len(valz) }

func (valz ValidatorsByVotingPower) Less(i, j int) bool {
	if valz[i].VotingPower == valz[j].VotingPower {
		return bytes.Compare(valz[i].Address, valz[j].Address) == -1
	}
	return valz[i].VotingPower > valz[j].VotingPower
}

func (valz ValidatorsByVotingPower) Swap(i, j int) {
	valz[i], valz[j] = valz[j], valz[i]
}

