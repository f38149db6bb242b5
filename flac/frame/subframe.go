package frame

import (
	"fmt"

	"github.com/pchchv/audiocore/internal/bitstream"
)

// Pred specifies the prediction method used to encode
// the audio samples of a subframe.
type Pred uint8

const (
	PredConstant Pred = iota
	PredVerbatim
	PredFixed
	PredFIR
)

// ResidualCodingMethod specifies a residual coding method.
type ResidualCodingMethod uint8

const (
	RiceCodingMethod1 ResidualCodingMethod = iota // 4-bit Rice parameters
	RiceCodingMethod2                             // 5-bit Rice parameters
)

// RicePartition is a partition containing
// a subset of the residuals of a subframe.
type RicePartition struct {
	// Rice parameter.
	Param uint
	// Residual sample size in bits-per-sample used by escaped partitions.
	EscapedBitsPerSample uint
}

// RiceSubframe holds rice-coding subframe fields used
// by residual coding methods rice1 and rice2.
type RiceSubframe struct {
	// Partition order used by fixed and FIR linear prediction decoding
	// (for residual coding methods, rice1 and rice2).
	PartOrder int
	// Rice partitions.
	Partitions []RicePartition
}

// SubHeader specifies the prediction method and order of a subframe.
type SubHeader struct {
	// Specifies the prediction method used to encode the audio sample of the subframe.
	Pred Pred
	// Prediction order used by fixed and FIR linear prediction decoding.
	Order int
	// Wasted bits-per-sample.
	Wasted uint
	// Residual coding method used by fixed and FIR linear prediction decoding.
	ResidualCodingMethod ResidualCodingMethod
	// Coefficients' precision in bits used by FIR linear prediction decoding.
	CoeffPrec uint
	// Predictor coefficient shift needed in bits used by FIR linear prediction decoding.
	CoeffShift int32
	// Predictor coefficients used by FIR linear prediction decoding.
	Coeffs []int32
	// Rice-coding subframe fields used by residual coding methods rice1 and rice2; nil if unused.
	RiceSubframe *RiceSubframe
}

// Subframe holds the decoded samples of a single channel within a frame,
// together with the header describing how they were coded.
type Subframe struct {
	SubHeader
	// NSamples is the number of audio samples in the subframe (equal to
	// the frame's block size).
	NSamples int
	// Samples holds the decoded (but not yet inter-channel decorrelated)
	// audio samples.
	Samples []int32
}

// fixedCoeffs holds the FLAC fixed predictor coefficients for orders 0-4,
// mirroring the polynomial predictors defined by the format: each order's
// predicted sample is the dot product of these coefficients with the
// previous `order` decoded samples.
var fixedCoeffs = [5][]int32{
	{},
	{1},
	{2, -1},
	{3, -3, 1},
	{4, -6, 4, -1},
}

// decodeSubframe reads one subframe of nsamples samples at the given
// effective bits-per-sample (already adjusted for a side channel's extra
// bit), per the FLAC subframe header and body encoding.
func decodeSubframe(br *bitstream.MSBReader, nsamples int, bps uint) (*Subframe, error) {
	if zero, err := br.ReadBit(); err != nil {
		return nil, err
	} else if zero {
		return nil, fmt.Errorf("frame: non-zero subframe padding bit")
	}

	typeBits, err := br.ReadBitsLeq32(6)
	if err != nil {
		return nil, err
	}

	hasWasted, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	var wasted uint
	if hasWasted {
		n, err := br.ReadUnary()
		if err != nil {
			return nil, err
		}
		wasted = uint(n) + 1
	}

	effBps := bps - wasted

	sf := &Subframe{NSamples: nsamples}
	sf.Wasted = wasted

	switch {
	case typeBits == 0x00:
		sf.Pred = PredConstant
		if err := decodeConstant(br, sf, effBps); err != nil {
			return nil, err
		}
	case typeBits == 0x01:
		sf.Pred = PredVerbatim
		if err := decodeVerbatim(br, sf, effBps); err != nil {
			return nil, err
		}
	case typeBits >= 0x08 && typeBits <= 0x0C:
		sf.Pred = PredFixed
		sf.Order = int(typeBits & 0x07)
		if err := decodeFixed(br, sf, effBps); err != nil {
			return nil, err
		}
	case typeBits >= 0x20:
		sf.Pred = PredFIR
		sf.Order = int(typeBits&0x1F) + 1
		if err := decodeLPC(br, sf, effBps); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("frame: reserved subframe type %#x", typeBits)
	}

	if wasted > 0 {
		for i := range sf.Samples {
			sf.Samples[i] <<= wasted
		}
	}

	return sf, nil
}

func decodeConstant(br *bitstream.MSBReader, sf *Subframe, bps uint) error {
	v, err := br.ReadBitsSigned(bps)
	if err != nil {
		return err
	}
	sf.Samples = make([]int32, sf.NSamples)
	for i := range sf.Samples {
		sf.Samples[i] = v
	}
	return nil
}

func decodeVerbatim(br *bitstream.MSBReader, sf *Subframe, bps uint) error {
	sf.Samples = make([]int32, sf.NSamples)
	for i := range sf.Samples {
		v, err := br.ReadBitsSigned(bps)
		if err != nil {
			return err
		}
		sf.Samples[i] = v
	}
	return nil
}

func decodeFixed(br *bitstream.MSBReader, sf *Subframe, bps uint) error {
	order := sf.Order
	samples := make([]int32, sf.NSamples)
	for i := 0; i < order; i++ {
		v, err := br.ReadBitsSigned(bps)
		if err != nil {
			return err
		}
		samples[i] = v
	}

	residuals, err := decodeResiduals(br, sf, order)
	if err != nil {
		return err
	}

	coeffs := fixedCoeffs[order]
	for i := order; i < sf.NSamples; i++ {
		var pred int64
		for j, c := range coeffs {
			pred += int64(c) * int64(samples[i-j-1])
		}
		samples[i] = int32(pred) + residuals[i-order]
	}

	sf.Samples = samples
	return nil
}

func decodeLPC(br *bitstream.MSBReader, sf *Subframe, bps uint) error {
	order := sf.Order
	samples := make([]int32, sf.NSamples)
	for i := 0; i < order; i++ {
		v, err := br.ReadBitsSigned(bps)
		if err != nil {
			return err
		}
		samples[i] = v
	}

	precBits, err := br.ReadBitsLeq32(4)
	if err != nil {
		return err
	}
	prec := uint(precBits) + 1
	sf.CoeffPrec = prec

	shiftBits, err := br.ReadBitsSigned(5)
	if err != nil {
		return err
	}
	sf.CoeffShift = shiftBits

	coeffs := make([]int32, order)
	for i := 0; i < order; i++ {
		c, err := br.ReadBitsSigned(prec)
		if err != nil {
			return err
		}
		coeffs[i] = c
	}
	sf.Coeffs = coeffs

	residuals, err := decodeResiduals(br, sf, order)
	if err != nil {
		return err
	}

	shift := uint(sf.CoeffShift)
	for i := order; i < sf.NSamples; i++ {
		var pred int64
		for j, c := range coeffs {
			pred += int64(c) * int64(samples[i-j-1])
		}
		samples[i] = int32(pred>>shift) + residuals[i-order]
	}

	sf.Samples = samples
	return nil
}

// decodeResiduals reads the partitioned Rice-coded residual for a subframe
// of predictor order order, returning NSamples-order residual values.
func decodeResiduals(br *bitstream.MSBReader, sf *Subframe, order int) ([]int32, error) {
	methodBits, err := br.ReadBitsLeq32(2)
	if err != nil {
		return nil, err
	}

	var paramSize uint
	switch methodBits {
	case 0:
		sf.ResidualCodingMethod = RiceCodingMethod1
		paramSize = 4
	case 1:
		sf.ResidualCodingMethod = RiceCodingMethod2
		paramSize = 5
	default:
		return nil, fmt.Errorf("frame: reserved residual coding method %#x", methodBits)
	}

	partOrderBits, err := br.ReadBitsLeq32(4)
	if err != nil {
		return nil, err
	}
	partOrder := int(partOrderBits)
	nparts := 1 << partOrder

	rs := &RiceSubframe{PartOrder: partOrder}
	sf.RiceSubframe = rs

	residuals := make([]int32, sf.NSamples-order)
	idx := 0
	escapeCode := uint32(1)<<paramSize - 1
	for i := 0; i < nparts; i++ {
		var nsamples int
		if partOrder == 0 {
			nsamples = sf.NSamples - order
		} else if i != 0 {
			nsamples = sf.NSamples / nparts
		} else {
			nsamples = sf.NSamples/nparts - order
		}

		param, err := br.ReadBitsLeq32(paramSize)
		if err != nil {
			return nil, err
		}

		part := RicePartition{Param: uint(param)}
		if param == escapeCode {
			nbits, err := br.ReadBitsLeq32(5)
			if err != nil {
				return nil, err
			}
			part.EscapedBitsPerSample = uint(nbits)
			for j := 0; j < nsamples; j++ {
				v, err := br.ReadBitsSigned(uint(nbits))
				if err != nil {
					return nil, err
				}
				residuals[idx] = v
				idx++
			}
		} else {
			for j := 0; j < nsamples; j++ {
				v, err := decodeRiceResidual(br, uint(param))
				if err != nil {
					return nil, err
				}
				residuals[idx] = v
				idx++
			}
		}

		rs.Partitions = append(rs.Partitions, part)
	}

	return residuals, nil
}

// decodeRiceResidual reads one Rice-coded residual with parameter k: a
// unary-coded quotient followed by a k-bit binary remainder, folded back
// from its zigzag encoding.
func decodeRiceResidual(br *bitstream.MSBReader, k uint) (int32, error) {
	high, err := br.ReadUnary()
	if err != nil {
		return 0, err
	}
	var low uint32
	if k > 0 {
		low, err = br.ReadBitsLeq32(k)
		if err != nil {
			return 0, err
		}
	}
	folded := high<<k | low
	return bitstream.DecodeZigZag(folded), nil
}
