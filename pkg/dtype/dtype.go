package dtype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrUnsupported is returned for descriptors that do not name a known
// numeric element type.
var ErrUnsupported = errors.New("unsupported element type")

// ErrShortData is returned when a payload is not a whole number of elements.
var ErrShortData = errors.New("payload is not a whole number of elements")

// Kind is the numeric class of an element.
type Kind byte

const (
	Invalid Kind = iota
	Int
	Uint
	Float
	Complex
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case Complex:
		return "complex"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Type is a parsed element descriptor.
type Type struct {
	Kind  Kind
	Size  int
	Order binary.ByteOrder
}

// kindCodes are the type codes that take an explicit byte width, as in "<f4".
// "b" with a width is bool, matching numpy's "b1".
var kindCodes = map[byte]Kind{
	'i': Int,
	'u': Uint,
	'f': Float,
	'c': Complex,
	'b': Bool,
	'?': Bool,
}

// charCodes are the single-character codes that imply their width.
var charCodes = map[byte]Type{
	'?': {Kind: Bool, Size: 1},
	'b': {Kind: Int, Size: 1},
	'B': {Kind: Uint, Size: 1},
	'h': {Kind: Int, Size: 2},
	'H': {Kind: Uint, Size: 2},
	'i': {Kind: Int, Size: 4},
	'I': {Kind: Uint, Size: 4},
	'l': {Kind: Int, Size: 8},
	'L': {Kind: Uint, Size: 8},
	'q': {Kind: Int, Size: 8},
	'Q': {Kind: Uint, Size: 8},
	'f': {Kind: Float, Size: 4},
	'd': {Kind: Float, Size: 8},
	'F': {Kind: Complex, Size: 8},
	'D': {Kind: Complex, Size: 16},
}

var names = map[string]Type{
	"bool":       {Kind: Bool, Size: 1},
	"int8":       {Kind: Int, Size: 1},
	"int16":      {Kind: Int, Size: 2},
	"int32":      {Kind: Int, Size: 4},
	"int64":      {Kind: Int, Size: 8},
	"int":        {Kind: Int, Size: 8},
	"uint8":      {Kind: Uint, Size: 1},
	"uint16":     {Kind: Uint, Size: 2},
	"uint32":     {Kind: Uint, Size: 4},
	"uint64":     {Kind: Uint, Size: 8},
	"uint":       {Kind: Uint, Size: 8},
	"float32":    {Kind: Float, Size: 4},
	"float64":    {Kind: Float, Size: 8},
	"float":      {Kind: Float, Size: 8},
	"double":     {Kind: Float, Size: 8},
	"complex64":  {Kind: Complex, Size: 8},
	"complex128": {Kind: Complex, Size: 16},
	"complex":    {Kind: Complex, Size: 16},
}

// Parse parses a descriptor such as "<f4", "uint16" or ">i8".
func Parse(desc string) (Type, error) {
	s := strings.TrimSpace(desc)
	if t, ok := names[strings.ToLower(s)]; ok {
		t.Order = binary.NativeEndian
		return t, nil
	}
	if s == "" {
		return Type{}, pkgerrors.Wrap(ErrUnsupported, "empty descriptor")
	}

	var order binary.ByteOrder = binary.NativeEndian
	switch s[0] {
	case '<':
		order = binary.LittleEndian
		s = s[1:]
	case '>':
		order = binary.BigEndian
		s = s[1:]
	case '=', '|':
		s = s[1:]
	}
	if s == "" {
		return Type{}, pkgerrors.Wrapf(ErrUnsupported, "descriptor %q has no kind", desc)
	}

	if len(s) == 1 {
		t, ok := charCodes[s[0]]
		if !ok {
			return Type{}, pkgerrors.Wrapf(ErrUnsupported, "descriptor %q: unknown type code %q", desc, s[0])
		}
		t.Order = order
		return t, nil
	}

	kind, ok := kindCodes[s[0]]
	if !ok {
		return Type{}, pkgerrors.Wrapf(ErrUnsupported, "descriptor %q: unknown kind %q", desc, s[0])
	}
	size, err := strconv.Atoi(s[1:])
	if err != nil {
		return Type{}, pkgerrors.Wrapf(ErrUnsupported, "descriptor %q: invalid width", desc)
	}

	t := Type{Kind: kind, Size: size, Order: order}
	if !t.valid() {
		return Type{}, pkgerrors.Wrapf(ErrUnsupported, "descriptor %q: %d-byte %s", desc, size, kind)
	}
	return t, nil
}

func (t Type) valid() bool {
	switch t.Kind {
	case Int, Uint:
		return t.Size == 1 || t.Size == 2 || t.Size == 4 || t.Size == 8
	case Float:
		return t.Size == 4 || t.Size == 8
	case Complex:
		return t.Size == 8 || t.Size == 16
	case Bool:
		return t.Size == 1
	default:
		return false
	}
}

// String returns the canonical descriptor, e.g. "<f4".
func (t Type) String() string {
	if t.Kind == Invalid {
		return "invalid"
	}
	prefix := "|"
	if t.Size > 1 {
		switch t.Order {
		case binary.BigEndian:
			prefix = ">"
		case binary.LittleEndian:
			prefix = "<"
		default:
			prefix = nativePrefix()
		}
	}
	code := map[Kind]string{Int: "i", Uint: "u", Float: "f", Complex: "c", Bool: "b"}[t.Kind]
	return fmt.Sprintf("%s%s%d", prefix, code, t.Size)
}

func nativePrefix() string {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return "<"
	}
	return ">"
}

// Count returns how many elements raw holds. It fails when len(raw) is not a
// multiple of the element size.
func (t Type) Count(raw []byte) (int, error) {
	if t.Size <= 0 {
		return 0, ErrUnsupported
	}
	if len(raw)%t.Size != 0 {
		return 0, pkgerrors.Wrapf(ErrShortData, "%d bytes is not a multiple of %d-byte %s", len(raw), t.Size, t)
	}
	return len(raw) / t.Size, nil
}
