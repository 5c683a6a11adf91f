package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/tendermint/lightcore/crypto"
	tmbytes "github.com/tendermint/lightcore/libs/bytes"
)

// SignedMsgType is a type of signed message in the consensus.
type SignedMsgType int32

const (
	UnknownType SignedMsgType = 0
	// Votes
	PrevoteType   SignedMsgType = 1
	PrecommitType SignedMsgType = 2
)

var (
	ErrVoteInvalidValidatorAddress = errors.New("invalid validator address")
	ErrVoteInvalidSignature        = errors.New("invalid signature")
)

// Vote represents a prevote or precommit from a validator.
type Vote struct {
	Type             SignedMsgType    `json:"type"`
	Height           uint64           `json:"height,string"`
	Round            int32            `json:"round"`    // assume there will not be greater than 2_147_483_647 rounds
	BlockID          BlockID          `json:"block_id"` // zero if vote is nil.
	Timestamp        time.Time        `json:"timestamp"`
	ValidatorAddress crypto.Address   `json:"validator_address"`
	ValidatorIndex   int32            `json:"validator_index"`
	Signature        tmbytes.HexBytes `json:"signature"`
}

// CommitSig converts the Vote to a CommitSig.
func (vote *Vote) CommitSig() CommitSig {
	if vote == nil {
		return NewCommitSigAbsent()
	}

	var blockIDFlag BlockIDFlag
	switch {
	case vote.BlockID.IsComplete():
		blockIDFlag = BlockIDFlagCommit
	case vote.BlockID.IsZero():
		blockIDFlag = BlockIDFlagNil
	default:
		panic(fmt.Sprintf("Invalid vote %v - expected BlockID to be either empty or complete", vote))
	}

	return CommitSig{
		BlockIDFlag:      blockIDFlag,
		ValidatorAddress: vote.ValidatorAddress,
		Timestamp:        vote.Timestamp,
		Signature:        vote.Signature,
	}
}

// VoteSignBytes returns the proto-encoding of the canonicalized Vote, for
// signing. Panics if the vote cannot be encoded.
//
// See CanonicalVote
func VoteSignBytes(chainID string, vote *Vote) []byte {
	bz, err := voteSignBytes(chainID, vote)
	if err != nil {
		panic(err)
	}
	return bz
}

// Verify checks the signature of the vote against the given public key.
func (vote *Vote) Verify(chainID string, pubKey crypto.PubKey) error {
	if !pubKey.Address().Equal(vote.ValidatorAddress) {
		return ErrVoteInvalidValidatorAddress
	}
	signBytes, err := voteSignBytes(chainID, vote)
	if err != nil {
		return err
	}
	if !pubKey.VerifySignature(signBytes, vote.Signature) {
		return ErrVoteInvalidSignature
	}
	return nil
}

func (vote *Vote) String() string {
	if vote == nil {
		return "nil-Vote"
	}
	var typeString string
	switch vote.Type {
	case PrevoteType:
		typeString = "Prevote"
	case PrecommitType:
		typeString = "Precommit"
	default:
		typeString = "Unknown"
	}

	return fmt.Sprintf("Vote{%v:%X %v/%02d/%v(%v) %X %X @ %s}",
		vote.ValidatorIndex,
		tmbytes.Fingerprint(vote.ValidatorAddress),
		vote.Height,
		vote.Round,
		vote.Type,
		typeString,
		tmbytes.Fingerprint(vote.BlockID.Hash),
		tmbytes.Fingerprint(vote.Signature),
		vote.Timestamp.UTC().Format(time.RFC3339Nano),
	)
}
