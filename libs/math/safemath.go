package math

import (
	"errors"
	"math"
)

var ErrOverflowInt32 = errors.New("int32 overflow")
var ErrOverflowUint64 = errors.New("uint64 overflow")
var ErrOverflowInt64 = errors.New("int64 overflow")

// SafeAddUint64 adds two uint64 integers.
// If there is an overflow it returns ErrOverflowUint64.
func SafeAddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflowUint64
	}
	return a + b, nil
}

// SafeConvertInt64 takes a uint64 and checks if it fits into an int64.
// If there is an overflow it returns ErrOverflowInt64.
func SafeConvertInt64(a uint64) (int64, error) {
	if a > math.MaxInt64 {
		return 0, ErrOverflowInt64
	}
	return int64(a), nil
}

// SafeConvertInt32 takes a int and checks if it overflows
// If there is an overflow this will panic
func SafeConvertInt32(a int64) int32 {
	if a > math.MaxInt32 {
		panic(ErrOverflowInt32)
	} else if a < math.MinInt32 {
		panic(ErrOverflowInt32)
	}
	return int32(a)
}
