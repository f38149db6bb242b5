package audio

// I24 is a 24-bit signed sample, stored sign-extended in an int32. Values
// outside [-(1<<23), 1<<23-1] are not meaningful.
type I24 int32

// U24 is a 24-bit unsigned sample, stored in a uint32. Values outside
// [0, 1<<24-1] are not meaningful.
type U24 uint32

// Sample is the set of types a Buffer may be instantiated with: the ten
// standard PCM sample formats.
type Sample interface {
	uint8 | int8 | uint16 | int16 | U24 | I24 | uint32 | int32 | float32 | float64
}

// Silence returns the value that represents digital silence for sample type
// S. Signed and floating-point formats are silent at zero; unsigned formats
// are biased and are silent at their midpoint.
func Silence[S Sample]() S {
	var zero S
	switch v := any(&zero).(type) {
	case *uint8:
		*v = 1 << 7
	case *uint16:
		*v = 1 << 15
	case *U24:
		*v = 1 << 23
	case *uint32:
		*v = 1 << 31
	}
	return zero
}
