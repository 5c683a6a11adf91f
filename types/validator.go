package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tendermint/lightcore/crypto"
	"github.com/tendermint/lightcore/crypto/ed25519"
	ce "github.com/tendermint/lightcore/crypto/encoding"
)

// Validator is a member of a ValidatorSet: a signing key and the voting power
// attached to it.
// NOTE: The Address is not included in Validator.Bytes(); it is derived from
// the PubKey and must match it.
type Validator struct {
	Address     crypto.Address `json:"address"`
	PubKey      crypto.PubKey  `json:"pub_key"`
	VotingPower uint64         `json:"voting_power"`
}

type validatorJSON struct {
	Address     crypto.Address  `json:"address"`
	PubKey      json.RawMessage `json:"pub_key,omitempty"`
	VotingPower uint64          `json:"voting_power,string"`
}

func (v Validator) MarshalJSON() ([]byte, error) {
	val := validatorJSON{
		Address:     v.Address,
		VotingPower: v.VotingPower,
	}
	if v.PubKey != nil {
		pk, err := ce.PubKeyToJSON(v.PubKey)
		if err != nil {
			return nil, err
		}
		val.PubKey = pk
	}
	return json.Marshal(val)
}

func (v *Validator) UnmarshalJSON(data []byte) error {
	var val validatorJSON
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	if len(val.PubKey) != 0 {
		pk, err := ce.PubKeyFromJSON(val.PubKey)
		if err != nil {
			return err
		}
		v.PubKey = pk
	}
	v.Address = val.Address
	v.VotingPower = val.VotingPower
	return nil
}

// NewValidator returns a new validator with the given pubkey and voting power.
func NewValidator(pubKey crypto.PubKey, votingPower uint64) *Validator {
	return &Validator{
		Address:     pubKey.Address(),
		PubKey:      pubKey,
		VotingPower: votingPower,
	}
}

// ValidateBasic performs basic validation.
func (v *Validator) ValidateBasic() error {
	if v == nil {
		return errors.New("nil validator")
	}
	if v.PubKey == nil {
		return errors.New("validator does not have a public key")
	}
	if v.PubKey.Type() != ed25519.KeyType {
		return fmt.Errorf("validator has unsupported key type %q", v.PubKey.Type())
	}
	if len(v.PubKey.Bytes()) != ed25519.PubKeySize {
		return fmt.Errorf("validator public key is the wrong size: got %d, want %d",
			len(v.PubKey.Bytes()), ed25519.PubKeySize)
	}

	// The voting power is encoded as int64 on the wire.
	if v.VotingPower > math.MaxInt64 {
		return fmt.Errorf("validator voting power %d does not fit in int64", v.VotingPower)
	}

	if len(v.Address) != crypto.AddressSize {
		return fmt.Errorf("validator address is the wrong size: %v", v.Address)
	}
	if !v.Address.Equal(v.PubKey.Address()) {
		return fmt.Errorf("validator address %v does not match its public key %v", v.Address, v.PubKey.Address())
	}

	return nil
}

// Copy creates a new copy of the validator so we can mutate it.
// Panics if the validator is nil.
func (v *Validator) Copy() *Validator {
	vCopy := *v
	vCopy.Address = v.Address.Copy()
	return &vCopy
}

// String returns a string representation of String.
//
// 1. address
// 2. public key
// 3. voting power
func (v *Validator) String() string {
	if v == nil {
		return "nil-Validator"
	}
	return fmt.Sprintf("Validator{%v %v VP:%v}",
		v.Address,
		v.PubKey,
		v.VotingPower)
}

// Bytes computes the unique encoding of a validator with a given voting
// power: the SimpleValidator message
//
//	message SimpleValidator {
//	  tendermint.crypto.PublicKey pub_key      = 1;
//	  int64                       voting_power = 2;
//	}
//
// These are the bytes that gets hashed in consensus. Panics if the public key
// cannot be encoded; ValidateBasic rules this out.
func (v *Validator) Bytes() []byte {
	pk := ce.MustPubKeyToProto(v.PubKey)

	w := newProtoWriter()
	w.message(1, pk)
	w.uvarint(2, v.VotingPower)
	return w.Bytes()
}
