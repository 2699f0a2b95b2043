package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

func appendUint64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

func appendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

// DecodeValue decodes one canonically encoded value from data and
// returns it with the remaining bytes.
func DecodeValue(data []byte) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, errors.New("vector: empty value encoding")
	}
	kind := Kind(data[0])
	data = data[1:]

	switch kind {
	case KindNull:
		return Null(), data, nil

	case KindBool:
		if len(data) < 1 {
			return Value{}, nil, errors.New("vector: short bool encoding")
		}
		return Bool(data[0] != 0), data[1:], nil

	case KindInt:
		if len(data) < 8 {
			return Value{}, nil, errors.New("vector: short int encoding")
		}
		v := int64(binary.LittleEndian.Uint64(data))
		return Int(v), data[8:], nil

	case KindFloat:
		if len(data) < 8 {
			return Value{}, nil, errors.New("vector: short float encoding")
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(data))
		return Float(v), data[8:], nil

	case KindString:
		n, rest, err := readUvarint(data)
		if err != nil {
			return Value{}, nil, err
		}
		if uint64(len(rest)) < n {
			return Value{}, nil, errors.New("vector: short string encoding")
		}
		return String(string(rest[:n])), rest[n:], nil

	case KindArray, KindRow:
		n, rest, err := readUvarint(data)
		if err != nil {
			return Value{}, nil, err
		}
		elems := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			var e Value
			e, rest, err = DecodeValue(rest)
			if err != nil {
				return Value{}, nil, err
			}
			elems = append(elems, e)
		}
		return Value{Kind: kind, Elems: elems}, rest, nil

	case KindMap:
		n, rest, err := readUvarint(data)
		if err != nil {
			return Value{}, nil, err
		}
		pairs := make([]MapEntry, 0, n)
		for i := uint64(0); i < n; i++ {
			var k, v Value
			k, rest, err = DecodeValue(rest)
			if err != nil {
				return Value{}, nil, err
			}
			v, rest, err = DecodeValue(rest)
			if err != nil {
				return Value{}, nil, err
			}
			pairs = append(pairs, MapEntry{Key: k, Val: v})
		}
		return Map(pairs...), rest, nil

	default:
		return Value{}, nil, fmt.Errorf("vector: unknown value kind %d", kind)
	}
}

func readUvarint(data []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, errors.New("vector: invalid length prefix")
	}
	return v, data[n:], nil
}
