package audio

import "fmt"

// SampleFormat identifies one of the ten sample formats a Buffer may be
// instantiated with, for contexts that need to dispatch on the type at
// runtime (e.g. a codec registry returning a single buffer value over any
// of the formats it can produce).
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatI8
	FormatU16
	FormatI16
	FormatU24
	FormatI24
	FormatU32
	FormatI32
	FormatF32
	FormatF64
)

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatI8:
		return "i8"
	case FormatU16:
		return "u16"
	case FormatI16:
		return "i16"
	case FormatU24:
		return "u24"
	case FormatI24:
		return "i24"
	case FormatU32:
		return "u32"
	case FormatI32:
		return "i32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	default:
		return fmt.Sprintf("SampleFormat(%d)", int(f))
	}
}

// BufferRef is a type-erased reference to a Buffer[S] for some sample
// format S, letting a decoder registry return a single value regardless of
// which of the ten sample formats the underlying codec produced.
type BufferRef interface {
	SampleFormat() SampleFormat
	Spec() Spec
	NumFrames() int
	NumPlanes() int
}

// SampleFormat reports which SampleFormat constant corresponds to S.
func (b *Buffer[S]) SampleFormat() SampleFormat {
	var zero S
	switch any(zero).(type) {
	case uint8:
		return FormatU8
	case int8:
		return FormatI8
	case uint16:
		return FormatU16
	case int16:
		return FormatI16
	case U24:
		return FormatU24
	case I24:
		return FormatI24
	case uint32:
		return FormatU32
	case int32:
		return FormatI32
	case float32:
		return FormatF32
	default:
		return FormatF64
	}
}
