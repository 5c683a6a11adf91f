package types

import (
	"fmt"

	"github.com/tendermint/lightcore/crypto"
	"github.com/tendermint/lightcore/crypto/ed25519"
)

// PrivValidator signs votes. The light client never holds one; it is used to
// produce commits in tests and tooling.
type PrivValidator interface {
	GetPubKey() crypto.PubKey

	SignVote(chainID string, vote *Vote) error
}

//----------------------------------------
// MockPV

// MockPV implements PrivValidator without any safety or persistence.
// Only use it for testing.
type MockPV struct {
	PrivKey          crypto.PrivKey
	breakVoteSigning bool
}

func NewMockPV() MockPV {
	return MockPV{PrivKey: ed25519.GenPrivKey()}
}

// NewMockPVFromSecret returns a MockPV with a key derived from secret, so
// repeated runs sign with the same key.
func NewMockPVFromSecret(secret []byte) MockPV {
	return MockPV{PrivKey: ed25519.GenPrivKeyFromSecret(secret)}
}

// NewMockPVWithParams allows one to create a MockPV instance, but with finer
// grained control over the operation of the mock validator. This is useful for
// mocking test failures.
func NewMockPVWithParams(privKey crypto.PrivKey, breakVoteSigning bool) MockPV {
	return MockPV{PrivKey: privKey, breakVoteSigning: breakVoteSigning}
}

// Implements PrivValidator.
func (pv MockPV) GetPubKey() crypto.PubKey {
	return pv.PrivKey.PubKey()
}

// Implements PrivValidator.
func (pv MockPV) SignVote(chainID string, vote *Vote) error {
	useChainID := chainID
	if pv.breakVoteSigning {
		useChainID = "incorrect-chain-id"
	}
	signBytes, err := voteSignBytes(useChainID, vote)
	if err != nil {
		return err
	}
	sig, err := pv.PrivKey.Sign(signBytes)
	if err != nil {
		return err
	}
	vote.Signature = sig
	return nil
}

// String returns a string representation of the MockPV.
func (pv MockPV) String() string {
	addr := pv.GetPubKey().Address()
	return fmt.Sprintf("MockPV{%v}", addr)
}
