package types

import (
	"fmt"
	"sort"
	"time"
)

// MakeCommit returns a commit of vals for blockID at height/round. Every
// validator with a PrivValidator in privVals votes for the block at time now;
// the others are absent.
func MakeCommit(chainID string, blockID BlockID, height uint64, round int32,
	vals *ValidatorSet, privVals []PrivValidator, now time.Time) (*Commit, error) {

	byAddress := make(map[string]PrivValidator, len(privVals))
	for _, pv := range privVals {
		byAddress[string(pv.GetPubKey().Address())] = pv
	}

	sigs := make([]CommitSig, vals.Size())
	for idx, val := range vals.Validators {
		pv, ok := byAddress[string(val.Address)]
		if !ok {
			sigs[idx] = NewCommitSigAbsent()
			continue
		}
		vote := &Vote{
			Type:             PrecommitType,
			Height:           height,
			Round:            round,
			BlockID:          blockID,
			Timestamp:        now,
			ValidatorAddress: val.Address,
			ValidatorIndex:   int32(idx),
		}
		if err := pv.SignVote(chainID, vote); err != nil {
			return nil, fmt.Errorf("can't sign vote of %v: %w", val.Address, err)
		}
		sigs[idx] = vote.CommitSig()
	}

	return NewCommit(height, round, blockID, sigs), nil
}

// MakeVote returns a precommit for blockID at height signed by privVal,
// positioned at privVal's index in valSet.
func MakeVote(chainID string, height uint64, blockID BlockID, valSet *ValidatorSet,
	privVal PrivValidator, now time.Time) (*Vote, error) {
	if privVal == nil {
		return nil, fmt.Errorf("privVal must be set")
	}
	addr := privVal.GetPubKey().Address()
	idx, _ := valSet.GetByAddress(addr)
	vote := &Vote{
		Type:             PrecommitType,
		Height:           height,
		Round:            0,
		BlockID:          blockID,
		Timestamp:        now,
		ValidatorAddress: addr,
		ValidatorIndex:   idx,
	}
	if err := privVal.SignVote(chainID, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// GenerateValidatorSet returns a canonically ordered set with one validator
// per power, and their PrivValidators in the same order as the set.
// Keys are derived from seed, so equal arguments give equal sets.
func GenerateValidatorSet(seed string, powers ...uint64) (*ValidatorSet, []PrivValidator) {
	var (
		valz     = make([]*Validator, len(powers))
		privVals = make([]PrivValidator, len(powers))
	)
	for i, power := range powers {
		pv := NewMockPVFromSecret([]byte(fmt.Sprintf("%s/%d", seed, i)))
		valz[i] = NewValidator(pv.GetPubKey(), power)
		privVals[i] = pv
	}

	vals := NewValidatorSet(valz)
	sort.Slice(privVals, func(i, j int) bool {
		ii, _ := vals.GetByAddress(privVals[i].GetPubKey().Address())
		jj, _ := vals.GetByAddress(privVals[j].GetPubKey().Address())
		return ii < jj
	})
	return vals, privVals
}
