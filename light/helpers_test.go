package light_test

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tendermint/lightcore/crypto"
	"github.com/tendermint/lightcore/light"
	"github.com/tendermint/lightcore/types"
	"github.com/tendermint/lightcore/version"
)

// testingT is satisfied by *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

// privKeys is a helper type for testing.
//
// It lets us simulate signing with many keys. The main use case is to create
// a set, and call GenSignedHeader to get properly signed header for testing.
//
// You can set different weights of validators each time you call ToValidators,
// and can optionally extend the validator set later with Extend.
type privKeys []types.PrivValidator

// genPrivKeys produces an array of private keys to generate commits. The keys
// are derived from seed, so the same seed always gives the same keys.
func genPrivKeys(seed string, n int) privKeys {
	res := make(privKeys, n)
	for i := range res {
		res[i] = types.NewMockPVFromSecret([]byte(fmt.Sprintf("%s/%d", seed, i)))
	}
	return res
}

// Extend adds n more keys (to remove, just take a slice).
func (pkz privKeys) Extend(seed string, n int) privKeys {
	extra := genPrivKeys(seed, n)
	return append(append(privKeys{}, pkz...), extra...)
}

// ToValidators produces a valset from the set of keys. The i-th key gets
// powers[i], or the last of powers when there are more keys than powers.
func (pkz privKeys) ToValidators(powers ...uint64) *types.ValidatorSet {
	res := make([]*types.Validator, len(pkz))
	for i, k := range pkz {
		power := powers[len(powers)-1]
		if i < len(powers) {
			power = powers[i]
		}
		res[i] = types.NewValidator(k.GetPubKey(), power)
	}
	return types.NewValidatorSet(res)
}

// signHeader properly signs the header with the keys from first to last
// exclusive. The others are absent from the commit.
func (pkz privKeys) signHeader(t testingT, header *types.Header, valSet *types.ValidatorSet,
	first, last int) *types.Commit {
	t.Helper()
	return pkz[first:last].signHeaderWith(t, header, valSet)
}

// signHeaderWith signs the header with all of pkz. Validators of valSet
// without a key in pkz are absent from the commit.
func (pkz privKeys) signHeaderWith(t testingT, header *types.Header, valSet *types.ValidatorSet) *types.Commit {
	t.Helper()

	blockID := types.BlockID{
		Hash:          header.Hash(),
		PartSetHeader: types.PartSetHeader{Total: 1, Hash: hash("parts")},
	}
	commit, err := types.MakeCommit(header.ChainID, blockID, header.Height, 1,
		valSet, pkz, header.Time)
	require.NoError(t, err)
	return commit
}

func genHeader(chainID string, height uint64, bTime time.Time,
	valset, nextValset *types.ValidatorSet, appHash []byte) *types.Header {

	return &types.Header{
		Version: version.Consensus{Block: version.BlockProtocol, App: 0},
		ChainID: chainID,
		Height:  height,
		Time:    bTime,
		LastBlockID: types.BlockID{
			Hash:          hash(fmt.Sprintf("block %d", height-1)),
			PartSetHeader: types.PartSetHeader{Total: 1, Hash: hash("parts")},
		},
		ValidatorsHash:     valset.Hash(),
		NextValidatorsHash: nextValset.Hash(),
		ConsensusHash:      hash("cons_hash"),
		AppHash:            appHash,
		LastResultsHash:    hash("results_hash"),
		ProposerAddress:    valset.Validators[0].Address,
	}
}

// GenSignedHeader calls genHeader and signHeader and combines them into a
// SignedHeader.
func (pkz privKeys) GenSignedHeader(t testingT, chainID string, height uint64, bTime time.Time,
	valset, nextValset *types.ValidatorSet, first, last int) *types.SignedHeader {
	t.Helper()

	header := genHeader(chainID, height, bTime, valset, nextValset, hash("app_hash"))
	return &types.SignedHeader{
		Header: header,
		Commit: pkz.signHeader(t, header, valset, first, last),
	}
}

// genTrustedState returns a trusted state at height signed by all of keys.
func (pkz privKeys) genTrustedState(t testingT, chainID string, height uint64, bTime time.Time,
	vals, nextVals *types.ValidatorSet) light.TrustedState {
	t.Helper()

	sh := pkz.GenSignedHeader(t, chainID, height, bTime, vals, nextVals, 0, len(pkz))
	ts, err := light.NewTrustedState(sh, vals, nextVals)
	require.NoError(t, err)
	return ts
}

func hash(s string) []byte {
	return crypto.Checksum([]byte(s))
}
