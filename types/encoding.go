package types

import (
	"time"

	"github.com/gogo/protobuf/proto"
	gogotypes "github.com/gogo/protobuf/types"

	tmbytes "github.com/tendermint/lightcore/libs/bytes"
)

// protoWriter hand-encodes protobuf messages field by field. Fields holding
// their zero value are omitted, as proto3 requires, except embedded messages
// which are always written (gogoproto non-nullable semantics).
//
// The proto.Buffer Encode* methods only append to the buffer and always
// return a nil error, so their results are discarded.
type protoWriter struct {
	buf *proto.Buffer
}

func newProtoWriter() *protoWriter {
	return &protoWriter{buf: proto.NewBuffer(nil)}
}

func (w *protoWriter) tag(field int, wireType int) {
	_ = w.buf.EncodeVarint(uint64(field)<<3 | uint64(wireType))
}

func (w *protoWriter) uvarint(field int, v uint64) {
	if v == 0 {
		return
	}
	w.tag(field, proto.WireVarint)
	_ = w.buf.EncodeVarint(v)
}

func (w *protoWriter) sfixed64(field int, v int64) {
	if v == 0 {
		return
	}
	w.tag(field, proto.WireFixed64)
	_ = w.buf.EncodeFixed64(uint64(v))
}

func (w *protoWriter) bytes(field int, bz []byte) {
	if len(bz) == 0 {
		return
	}
	w.tag(field, proto.WireBytes)
	_ = w.buf.EncodeRawBytes(bz)
}

func (w *protoWriter) string(field int, s string) {
	if s == "" {
		return
	}
	w.tag(field, proto.WireBytes)
	_ = w.buf.EncodeStringBytes(s)
}

func (w *protoWriter) message(field int, msg []byte) {
	w.tag(field, proto.WireBytes)
	_ = w.buf.EncodeRawBytes(msg)
}

func (w *protoWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// marshalDelimited prefixes bz with its uvarint encoded length.
func marshalDelimited(bz []byte) []byte {
	return append(proto.EncodeVarint(uint64(len(bz))), bz...)
}

// timestampBytes encodes t as a google.protobuf.Timestamp. It fails for
// times outside of the range the Timestamp message can represent.
func timestampBytes(t time.Time) ([]byte, error) {
	return gogotypes.StdTimeMarshal(t)
}

// validateTimestamp checks that t can be represented on the wire.
func validateTimestamp(t time.Time) error {
	_, err := gogotypes.TimestampProto(t)
	return err
}

// cdcEncode returns nil if the input is nil, otherwise returns
// proto.Marshal(<type>Value{Value: item})
func cdcEncode(item interface{}) []byte {
	switch item := item.(type) {
	case string:
		if item == "" {
			return nil
		}
		i := gogotypes.StringValue{
			Value: item,
		}
		bz, err := i.Marshal()
		if err != nil {
			return nil
		}
		return bz
	case int64:
		if item == 0 {
			return nil
		}
		i := gogotypes.Int64Value{
			Value: item,
		}
		bz, err := i.Marshal()
		if err != nil {
			return nil
		}
		return bz
	case tmbytes.HexBytes:
		if len(item) == 0 {
			return nil
		}
		i := gogotypes.BytesValue{
			Value: item,
		}
		bz, err := i.Marshal()
		if err != nil {
			return nil
		}
		return bz
	default:
		return nil
	}
}
