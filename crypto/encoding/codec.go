package encoding

import (
	"encoding/json"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/tendermint/lightcore/crypto"
	"github.com/tendermint/lightcore/crypto/ed25519"
)

// Field numbers of the tendermint.crypto.PublicKey oneof.
const (
	fieldPublicKeyEd25519 = 1
)

// PubKeyToProto encodes k as a tendermint.crypto.PublicKey protobuf message.
func PubKeyToProto(k crypto.PubKey) ([]byte, error) {
	switch k := k.(type) {
	case ed25519.PubKey:
		buf := proto.NewBuffer(nil)
		if err := buf.EncodeVarint(uint64(fieldPublicKeyEd25519<<3 | proto.WireBytes)); err != nil {
			return nil, err
		}
		if err := buf.EncodeRawBytes(k); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("toproto: key type %v is not supported", k)
	}
}

// MustPubKeyToProto is PubKeyToProto which panics on error.
func MustPubKeyToProto(k crypto.PubKey) []byte {
	bz, err := PubKeyToProto(k)
	if err != nil {
		panic(err)
	}
	return bz
}

// PubKeyFromProto decodes a tendermint.crypto.PublicKey protobuf message.
func PubKeyFromProto(bz []byte) (crypto.PubKey, error) {
	buf := proto.NewBuffer(bz)
	tag, err := buf.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(err, "fromproto: failed to read key tag")
	}
	switch tag {
	case uint64(fieldPublicKeyEd25519<<3 | proto.WireBytes):
		raw, err := buf.DecodeRawBytes(true)
		if err != nil {
			return nil, errors.Wrap(err, "fromproto: failed to read ed25519 key")
		}
		return PubKeyFromTypeAndBytes(ed25519.KeyType, raw)
	default:
		return nil, fmt.Errorf("fromproto: key type tag %d is not supported", tag)
	}
}

// PubKeyFromTypeAndBytes builds a crypto.PubKey of the named type from raw
// key bytes.
func PubKeyFromTypeAndBytes(pkType string, bytes []byte) (crypto.PubKey, error) {
	switch pkType {
	case ed25519.KeyType, ed25519.PubKeyName:
		if len(bytes) != ed25519.PubKeySize {
			return nil, fmt.Errorf("invalid size for PubKeyEd25519. Got %d, expected %d",
				len(bytes), ed25519.PubKeySize)
		}
		pk := make(ed25519.PubKey, ed25519.PubKeySize)
		copy(pk, bytes)
		return pk, nil
	default:
		return nil, fmt.Errorf("key type %q is not supported", pkType)
	}
}

type pubKeyJSON struct {
	Type  string `json:"type"`
	Value []byte `json:"value"`
}

// PubKeyToJSON encodes k in the tagged {"type", "value"} JSON form.
func PubKeyToJSON(k crypto.PubKey) ([]byte, error) {
	var name string
	switch k.(type) {
	case ed25519.PubKey:
		name = ed25519.PubKeyName
	default:
		return nil, fmt.Errorf("tojson: key type %v is not supported", k)
	}
	return json.Marshal(pubKeyJSON{Type: name, Value: k.Bytes()})
}

// PubKeyFromJSON decodes the tagged {"type", "value"} JSON form of a key.
func PubKeyFromJSON(bz []byte) (crypto.PubKey, error) {
	var pk pubKeyJSON
	if err := json.Unmarshal(bz, &pk); err != nil {
		return nil, errors.Wrap(err, "fromjson: invalid public key")
	}
	return PubKeyFromTypeAndBytes(pk.Type, pk.Value)
}
