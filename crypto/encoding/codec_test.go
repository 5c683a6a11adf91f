package encoding

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/lightcore/crypto/ed25519"
)

func TestPubKeyProtoRoundTrip(t *testing.T) {
	pk := ed25519.GenPrivKeyFromSecret([]byte("codec")).PubKey()

	bz, err := PubKeyToProto(pk)
	require.NoError(t, err)
	// field 1, wire type 2, 32 byte key
	require.Equal(t, []byte{0x0a, 0x20}, bz[:2])
	require.Len(t, bz, 34)

	decoded, err := PubKeyFromProto(bz)
	require.NoError(t, err)
	assert.True(t, pk.Equals(decoded))
}

func TestPubKeyFromProtoRejectsGarbage(t *testing.T) {
	_, err := PubKeyFromProto(nil)
	require.Error(t, err)

	_, err = PubKeyFromProto([]byte{0x12, 0x01, 0x00})
	require.Error(t, err)

	// ed25519 tag with a short key
	_, err = PubKeyFromProto([]byte{0x0a, 0x02, 0x01, 0x02})
	require.Error(t, err)
}

func TestPubKeyJSON(t *testing.T) {
	raw, err := hex.DecodeString("F85678BD3C00EE053F6255B70A4AF2F645151C2884C6189F7646C199B282310A")
	require.NoError(t, err)
	pk := ed25519.PubKey(raw)

	bz, err := PubKeyToJSON(pk)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"tendermint/PubKeyEd25519","value":"+FZ4vTwA7gU/YlW3Ckry9kUVHCiExhifdkbBmbKCMQo="}`,
		string(bz))

	decoded, err := PubKeyFromJSON(bz)
	require.NoError(t, err)
	assert.True(t, pk.Equals(decoded))

	_, err = PubKeyFromJSON([]byte(`{"type":"tendermint/PubKeySecp256k1","value":"AA=="}`))
	require.Error(t, err)
}
