package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/lightcore/crypto/ed25519"
)

func TestValidatorValidateBasic(t *testing.T) {
	priv := NewMockPVFromSecret([]byte("validator"))
	pubKey := priv.GetPubKey()

	testCases := []struct {
		val *Validator
		err bool
		msg string
	}{
		{
			val: NewValidator(pubKey, 1),
			err: false,
			msg: "",
		},
		{
			val: nil,
			err: true,
			msg: "nil validator",
		},
		{
			val: &Validator{
				PubKey: nil,
			},
			err: true,
			msg: "validator does not have a public key",
		},
		{
			val: &Validator{
				PubKey:  ed25519.PubKey(make([]byte, 31)),
				Address: pubKey.Address(),
			},
			err: true,
			msg: "validator public key is the wrong size: got 31, want 32",
		},
		{
			val: &Validator{
				PubKey:      pubKey,
				VotingPower: 1 << 63,
				Address:     pubKey.Address(),
			},
			err: true,
			msg: "validator voting power 9223372036854775808 does not fit in int64",
		},
		{
			val: &Validator{
				PubKey:  pubKey,
				Address: nil,
			},
			err: true,
			msg: "validator address is the wrong size: ",
		},
		{
			val: &Validator{
				PubKey:  pubKey,
				Address: []byte{'a'},
			},
			err: true,
			msg: "validator address is the wrong size: 61",
		},
	}

	for _, tc := range testCases {
		err := tc.val.ValidateBasic()
		if tc.err {
			if assert.Error(t, err) {
				assert.Equal(t, tc.msg, err.Error())
			}
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestValidatorBytes(t *testing.T) {
	pubKey := ed25519.PubKey(make([]byte, ed25519.PubKeySize))
	bz := NewValidator(pubKey, 10).Bytes()

	want := append([]byte{0x0a, 0x22, 0x0a, 0x20}, make([]byte, 32)...)
	want = append(want, 0x10, 0x0a)
	assert.Equal(t, want, bz)

	// zero power is left out
	assert.Equal(t, want[:36], NewValidator(pubKey, 0).Bytes())
}

func TestValidatorJSON(t *testing.T) {
	val := NewValidator(NewMockPVFromSecret([]byte("json")).GetPubKey(), 42)

	bz, err := json.Marshal(val)
	require.NoError(t, err)

	var decoded Validator
	require.NoError(t, json.Unmarshal(bz, &decoded))
	assert.Equal(t, val.Address, decoded.Address)
	assert.Equal(t, val.VotingPower, decoded.VotingPower)
	assert.True(t, val.PubKey.Equals(decoded.PubKey))
	assert.NoError(t, decoded.ValidateBasic())

	assert.Error(t, json.Unmarshal([]byte(`{"pub_key":{"type":"unknown","value":"AA=="}}`), &decoded))
}
