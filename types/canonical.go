package types

import (
	"fmt"
	"math"
)

// Field numbers of the CanonicalVote message:
//
//	message CanonicalVote {
//	  SignedMsgType             type      = 1;
//	  sfixed64                  height    = 2;
//	  sfixed64                  round     = 3;
//	  CanonicalBlockID          block_id  = 4;
//	  google.protobuf.Timestamp timestamp = 5;
//	  string                    chain_id  = 6;
//	}
const (
	canonicalVoteType = iota + 1
	canonicalVoteHeight
	canonicalVoteRound
	canonicalVoteBlockID
	canonicalVoteTimestamp
	canonicalVoteChainID
)

// canonicalBlockIDBytes encodes a CanonicalBlockID. A zero BlockID has no
// canonical form and returns nil.
func canonicalBlockIDBytes(bid BlockID) []byte {
	if bid.IsZero() {
		return nil
	}
	psh := newProtoWriter()
	psh.uvarint(1, uint64(bid.PartSetHeader.Total))
	psh.bytes(2, bid.PartSetHeader.Hash)

	w := newProtoWriter()
	w.bytes(1, bid.Hash)
	w.message(2, psh.Bytes())
	return w.Bytes()
}

// voteSignBytes returns the length-delimited CanonicalVote for vote.
func voteSignBytes(chainID string, vote *Vote) ([]byte, error) {
	if vote.Height > math.MaxInt64 {
		return nil, fmt.Errorf("vote height %d does not fit in int64", vote.Height)
	}
	ts, err := timestampBytes(vote.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("vote timestamp: %w", err)
	}

	w := newProtoWriter()
	w.uvarint(canonicalVoteType, uint64(vote.Type))
	w.sfixed64(canonicalVoteHeight, int64(vote.Height))
	w.sfixed64(canonicalVoteRound, int64(vote.Round))
	if bid := canonicalBlockIDBytes(vote.BlockID); bid != nil {
		w.message(canonicalVoteBlockID, bid)
	}
	w.message(canonicalVoteTimestamp, ts)
	w.string(canonicalVoteChainID, chainID)

	return marshalDelimited(w.Bytes()), nil
}
