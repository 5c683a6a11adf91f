package types

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/tendermint/lightcore/crypto"
	"github.com/tendermint/lightcore/crypto/batch"
	"github.com/tendermint/lightcore/crypto/ed25519"
	tmmath "github.com/tendermint/lightcore/libs/math"
)

// CommitThreshold is the share of the total voting power a commit must be
// signed by: strictly more than 2/3.
var CommitThreshold = tmmath.Fraction{Numerator: 2, Denominator: 3}

// CommitTally is the result of checking the signatures of a commit.
type CommitTally struct {
	// SignedPower is the power of the validators that signed for the
	// commit's BlockID.
	SignedPower uint64
	// Validated lists the indices of the signature slots whose signatures
	// were verified, in increasing order.
	Validated []int
}

// ValidateCommitBasic checks commit on its own and against the validator set
// that produced it: one signature slot per validator, and every present slot
// is signed by the validator in the same position.
func ValidateCommitBasic(commit *Commit, vals *ValidatorSet) error {
	if commit == nil {
		return errors.New("nil commit")
	}
	if vals == nil {
		return errors.New("nil validator set")
	}
	if err := commit.ValidateBasic(); err != nil {
		return err
	}
	if vals.Size() != len(commit.Signatures) {
		return fmt.Errorf("wrong set size: %v vs %v", vals.Size(), len(commit.Signatures))
	}
	for idx, commitSig := range commit.Signatures {
		if commitSig.Absent() {
			continue
		}
		if val := vals.Validators[idx]; !val.Address.Equal(commitSig.ValidatorAddress) {
			return fmt.Errorf("wrong validator address in CommitSig #%d: expected %v, got %v",
				idx, val.Address, commitSig.ValidatorAddress)
		}
	}
	return nil
}

// TallyCommit verifies every present signature of the commit against the
// validator at the same position in vals and sums the power of those that
// voted for commit.BlockID. Signatures for nil are verified but add no power.
//
// Any invalid signature fails the whole tally with ErrInvalidCommitSignature.
// Inputs that do not line up (nil arguments, size mismatch, signer in the
// wrong slot, unencodable vote) and power overflow return ErrMalformedData.
func TallyCommit(chainID string, vals *ValidatorSet, commit *Commit) (CommitTally, error) {
	if vals == nil {
		return CommitTally{}, ErrMalformedData{Reason: errors.New("nil validator set")}
	}
	if commit == nil {
		return CommitTally{}, ErrMalformedData{Reason: errors.New("nil commit")}
	}
	if vals.Size() != len(commit.Signatures) {
		return CommitTally{}, NewErrInvalidCommitSignatures(vals.Size(), len(commit.Signatures))
	}

	entries := make([]sigEntry, 0, len(commit.Signatures))
	for idx, commitSig := range commit.Signatures {
		if commitSig.Absent() {
			continue // OK, some signatures can be absent.
		}

		// The vals and commit have a 1-to-1 correspondance.
		// This means we don't need the validator address or to do any lookup.
		val := vals.Validators[idx]
		if !val.Address.Equal(commitSig.ValidatorAddress) {
			return CommitTally{}, ErrMalformedData{
				Reason: fmt.Errorf("CommitSig #%d signed by %v, expected %v", idx, commitSig.ValidatorAddress, val.Address),
			}
		}

		signBytes, err := commit.voteSignBytes(chainID, int32(idx))
		if err != nil {
			return CommitTally{}, ErrMalformedData{Reason: fmt.Errorf("CommitSig #%d: %w", idx, err)}
		}
		entries = append(entries, sigEntry{
			idx:       idx,
			pubKey:    val.PubKey,
			signBytes: signBytes,
			sig:       commitSig.Signature,
			power:     val.VotingPower,
			forBlock:  commitSig.ForBlock(),
		})
	}

	return tallyEntries(entries)
}

// TallyCommitTrusting sums the power, as recorded in vals, of the validators
// of vals that signed commit for its BlockID. vals need not be the set that
// produced the commit; signers are matched by address and signers unknown to
// vals are ignored.
//
// The signatures that are counted are verified, and an invalid one fails the
// tally with ErrInvalidCommitSignature. A validator signing twice is
// ErrMalformedData.
func TallyCommitTrusting(chainID string, vals *ValidatorSet, commit *Commit) (CommitTally, error) {
	if vals == nil {
		return CommitTally{}, ErrMalformedData{Reason: errors.New("nil validator set")}
	}
	if commit == nil {
		return CommitTally{}, ErrMalformedData{Reason: errors.New("nil commit")}
	}

	var (
		entries  = make([]sigEntry, 0, len(commit.Signatures))
		seenVals = make(map[int32]int, len(commit.Signatures)) // validator index -> commit index
	)
	for idx, commitSig := range commit.Signatures {
		// No need to verify absent or nil votes.
		if !commitSig.ForBlock() {
			continue
		}

		// We don't know the validators that committed this block, so we have to
		// check for each vote if its validator is already known.
		valIdx, val := vals.GetByAddress(commitSig.ValidatorAddress)
		if val == nil {
			continue
		}

		// check for double vote of validator on the same commit
		if firstIndex, ok := seenVals[valIdx]; ok {
			return CommitTally{}, ErrMalformedData{
				Reason: fmt.Errorf("double vote from %v (%d and %d)", val.Address, firstIndex, idx),
			}
		}
		seenVals[valIdx] = idx

		signBytes, err := commit.voteSignBytes(chainID, int32(idx))
		if err != nil {
			return CommitTally{}, ErrMalformedData{Reason: fmt.Errorf("CommitSig #%d: %w", idx, err)}
		}
		entries = append(entries, sigEntry{
			idx:       idx,
			pubKey:    val.PubKey,
			signBytes: signBytes,
			sig:       commitSig.Signature,
			power:     val.VotingPower,
			forBlock:  true,
		})
	}

	return tallyEntries(entries)
}

// VerifyCommitLight verifies +2/3 of the set had signed the given commit for
// blockID at height.
func VerifyCommitLight(chainID string, vals *ValidatorSet, blockID BlockID,
	height uint64, commit *Commit) error {
	if commit == nil {
		return ErrMalformedData{Reason: errors.New("nil commit")}
	}
	if height != commit.Height {
		return ErrMalformedData{
			Reason: fmt.Errorf("invalid commit -- wrong height: %v vs %v", height, commit.Height),
		}
	}
	if !blockID.Equals(commit.BlockID) {
		return ErrMalformedData{
			Reason: fmt.Errorf("invalid commit -- wrong block ID: want %v, got %v", blockID, commit.BlockID),
		}
	}

	tally, err := TallyCommit(chainID, vals, commit)
	if err != nil {
		return err
	}
	return checkVotingPower(tally.SignedPower, vals, CommitThreshold)
}

// VerifyCommitLightTrusting verifies that more than trustLevel of the voting
// power of vals signed the given commit.
//
// NOTE the given validators do not necessarily correspond to the validator set
// for this commit, but there may be some intersection.
func VerifyCommitLightTrusting(chainID string, vals *ValidatorSet, commit *Commit, trustLevel tmmath.Fraction) error {
	// sanity check
	if trustLevel.Denominator == 0 {
		return ErrMalformedData{Reason: errors.New("trustLevel has zero Denominator")}
	}

	tally, err := TallyCommitTrusting(chainID, vals, commit)
	if err != nil {
		return err
	}
	return checkVotingPower(tally.SignedPower, vals, trustLevel)
}

func checkVotingPower(signed uint64, vals *ValidatorSet, threshold tmmath.Fraction) error {
	total, err := vals.TotalVotingPower()
	if err != nil {
		return err
	}
	if !HasSufficientVotingPower(signed, total, threshold) {
		return ErrNotEnoughVotingPowerSigned{
			Got:    signed,
			Needed: VotingPowerNeeded(total, threshold),
			Total:  total,
		}
	}
	return nil
}

// HasSufficientVotingPower reports whether signed is strictly more than
// threshold of total, that is signed*denominator > total*numerator. The
// products are computed in 256 bits and cannot overflow.
func HasSufficientVotingPower(signed, total uint64, threshold tmmath.Fraction) bool {
	lhs := new(uint256.Int).Mul(uint256.NewInt(signed), uint256.NewInt(threshold.Denominator))
	rhs := new(uint256.Int).Mul(uint256.NewInt(total), uint256.NewInt(threshold.Numerator))
	return lhs.Gt(rhs)
}

// VotingPowerNeeded returns floor(total*threshold): the power a tally must
// exceed to pass HasSufficientVotingPower. It saturates at math.MaxUint64.
func VotingPowerNeeded(total uint64, threshold tmmath.Fraction) uint64 {
	if threshold.Denominator == 0 {
		return math.MaxUint64
	}
	needed := new(uint256.Int).Mul(uint256.NewInt(total), uint256.NewInt(threshold.Numerator))
	needed.Div(needed, uint256.NewInt(threshold.Denominator))
	if !needed.IsUint64() {
		return math.MaxUint64
	}
	return needed.Uint64()
}

//-----------------------------------------------------------------------------

type sigEntry struct {
	idx       int
	pubKey    crypto.PubKey
	signBytes []byte
	sig       []byte
	power     uint64
	forBlock  bool
}

// tallyEntries verifies all signatures and sums the power of the entries
// for the block.
func tallyEntries(entries []sigEntry) (CommitTally, error) {
	if err := verifySignatures(entries); err != nil {
		return CommitTally{}, err
	}

	tally := CommitTally{Validated: make([]int, 0, len(entries))}
	for _, e := range entries {
		tally.Validated = append(tally.Validated, e.idx)
		if !e.forBlock {
			continue
		}
		sum, err := tmmath.SafeAddUint64(tally.SignedPower, e.power)
		if err != nil {
			return CommitTally{}, ErrMalformedData{Reason: fmt.Errorf("tallied voting power: %w", err)}
		}
		tally.SignedPower = sum
	}
	return tally, nil
}

// verifySignatures checks every entry, in a batch when there is more than one
// and the key type allows it. If the batch fails, entries are verified one by
// one to find the first bad signature.
func verifySignatures(entries []sigEntry) error {
	if len(entries) > 1 && batch.SupportsBatchVerifier(entries[0].pubKey) {
		if ok := verifyBatch(entries); ok {
			return nil
		}
	}

	// attempt with single verification
	for _, e := range entries {
		if err := verifySingle(e); err != nil {
			return err
		}
	}
	return nil
}

func verifyBatch(entries []sigEntry) bool {
	bv, ok := batch.CreateBatchVerifier(entries[0].pubKey)
	if !ok {
		return false
	}
	for _, e := range entries {
		// a malformed entry is reported by single verification
		if err := bv.Add(e.pubKey, e.signBytes, e.sig); err != nil {
			return false
		}
	}
	ok, _ = bv.Verify()
	return ok
}

func verifySingle(e sigEntry) error {
	if e.pubKey == nil || e.pubKey.Type() != ed25519.KeyType {
		return ErrMalformedData{Reason: fmt.Errorf("CommitSig #%d: unsupported public key", e.idx)}
	}
	ok, err := ed25519.Verify(e.sig, e.signBytes, e.pubKey.Bytes())
	if err != nil {
		return ErrMalformedData{Reason: fmt.Errorf("CommitSig #%d: %w", e.idx, err)}
	}
	if !ok {
		return ErrInvalidCommitSignature{Index: e.idx, Signature: e.sig}
	}
	return nil
}
