package mp3

import (
	"math"
	"testing"
)

func TestRequantizeLongZeroGainUnitScale(t *testing.T) {
	gc := &GranuleChannel{
		GlobalGain: 210, // A = 210 - 210 - 0 = 0 => factor = 2^0 = 1
		BlockType:  GranuleBlockType{Kind: BlockLong},
	}
	var raw [576]int
	raw[0] = 8 // 8^(4/3) = 16
	raw[1] = -8

	xr := Requantize(gc, raw, 0)
	if math.Abs(float64(xr[0])-16) > 1e-2 {
		t.Errorf("xr[0] = %v, want 16", xr[0])
	}
	if math.Abs(float64(xr[1])+16) > 1e-2 {
		t.Errorf("xr[1] = %v, want -16", xr[1])
	}
}

func TestRequantizeLongScalefacAttenuates(t *testing.T) {
	base := &GranuleChannel{GlobalGain: 210, BlockType: GranuleBlockType{Kind: BlockLong}}
	scaled := &GranuleChannel{GlobalGain: 210, BlockType: GranuleBlockType{Kind: BlockLong}}
	scaled.ScalefacL[0] = 1 // A = 0 - 8*1 = -8 => factor = 2^-2 = 0.25

	var raw [576]int
	raw[0] = 8

	xrBase := Requantize(base, raw, 0)
	xrScaled := Requantize(scaled, raw, 0)

	if xrScaled[0] >= xrBase[0] {
		t.Fatalf("scaled xr[0] = %v should be smaller than base xr[0] = %v", xrScaled[0], xrBase[0])
	}
	ratio := float64(xrScaled[0]) / float64(xrBase[0])
	if math.Abs(ratio-0.25) > 1e-2 {
		t.Errorf("attenuation ratio = %v, want 0.25", ratio)
	}
}

func TestRequantizeMixedBlockSplitsAtSwitchPoint(t *testing.T) {
	gc := &GranuleChannel{
		GlobalGain: 210,
		BlockType:  GranuleBlockType{Kind: BlockShort, IsMixed: true},
	}
	var raw [576]int
	switchSample := sfbLongBands[0][sfbMixedSwitchPoint[0]]
	raw[switchSample-1] = 8 // last long-block sample
	raw[switchSample] = 8   // first short-block sample

	xr := Requantize(gc, raw, 0)
	// Both should have been requantized (nonzero), exercising both code
	// paths without asserting their exact short-block gain formula.
	if xr[switchSample-1] == 0 {
		t.Errorf("xr[%d] = 0, want nonzero (long part)", switchSample-1)
	}
	if xr[switchSample] == 0 {
		t.Errorf("xr[%d] = 0, want nonzero (short part)", switchSample)
	}
}
