// Package dtype describes the element encoding of raw calibration payloads
// and decodes their bytes into typed Go slices.
//
// Descriptors follow the numpy array-interface notation used by the
// calibration tables:
//
//	<f4   little-endian float32
//	>i2   big-endian int16
//	|u1   uint8 (byte order not applicable)
//	=c8   native-endian complex64
//
// Accepted descriptors, each with an optional byte-order prefix:
//
//   - a kind code with a byte width: i1 i2 i4 i8, u1 u2 u4 u8, f4 f8, c8 c16,
//     and b1 or ?1 for bool
//   - a single-character code: ? (bool), b B (int8/uint8), h H (16-bit),
//     i I (32-bit), l L q Q (64-bit), f (float32), d (float64),
//     F D (complex64/complex128)
//
// The names bool, int8..int64, uint8..uint64, float32, float64, complex64 and
// complex128 are accepted as well, along with int, uint, float, double and
// complex (the 64-bit or 128-bit variants); names imply native byte order.
// Half precision (e, f2), long double (g), strings and structured types are
// not supported. The C long codes l and L are taken as 64-bit.
//
// Decoded payloads map to Go types as follows:
//
//	Kind     | Go Type
//	---------|---------------------------------
//	Int      | int8, int16, int32, int64
//	Uint     | uint8, uint16, uint32, uint64
//	Float    | float32, float64
//	Complex  | complex64, complex128
//	Bool     | bool
package dtype
