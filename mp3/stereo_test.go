package mp3

import (
	"math"
	"testing"
)

func TestApplyStereoMidSide(t *testing.T) {
	h := &FrameHeader{
		Version:  Mpeg1,
		Channels: ModeJointStereo,
		ModeExt:  ModeExtension{MidSide: true},
	}
	left := &GranuleChannel{Rzero: 4, BlockType: GranuleBlockType{Kind: BlockLong}}
	right := &GranuleChannel{Rzero: 4, BlockType: GranuleBlockType{Kind: BlockLong}}
	for i := 0; i < 22; i++ {
		left.ScalefacL[i] = intensityInvPosMpeg1
		right.ScalefacL[i] = intensityInvPosMpeg1
	}

	var xrL, xrR [576]float32
	xrL[0], xrR[0] = 3, 1 // m=3, s=1 => l=(3+1)/sqrt2, r=(3-1)/sqrt2

	ApplyStereo(h, left, right, &xrL, &xrR, 0)

	const invSqrt2 = 0.7071067811865476
	wantL := float32(4 * invSqrt2)
	wantR := float32(2 * invSqrt2)
	if math.Abs(float64(xrL[0]-wantL)) > 1e-4 {
		t.Errorf("xrL[0] = %v, want %v", xrL[0], wantL)
	}
	if math.Abs(float64(xrR[0]-wantR)) > 1e-4 {
		t.Errorf("xrR[0] = %v, want %v", xrR[0], wantR)
	}
}

func TestApplyStereoNoOpWithoutJointStereo(t *testing.T) {
	h := &FrameHeader{Version: Mpeg1, Channels: ModeStereo}
	left := &GranuleChannel{Rzero: 4}
	right := &GranuleChannel{Rzero: 4}
	var xrL, xrR [576]float32
	xrL[0], xrR[0] = 3, 1

	ApplyStereo(h, left, right, &xrL, &xrR, 0)

	if xrL[0] != 3 || xrR[0] != 1 {
		t.Fatalf("xrL[0],xrR[0] = %v,%v, want unchanged 3,1", xrL[0], xrR[0])
	}
}

func TestIntensityBoundLongBlockFindsLowestUncoded(t *testing.T) {
	right := &GranuleChannel{BlockType: GranuleBlockType{Kind: BlockLong}}
	for i := 0; i < 22; i++ {
		right.ScalefacL[i] = intensityInvPosMpeg1
	}
	// Band 10 carries real (non-sentinel) data; everything above it is
	// intensity-coded.
	right.ScalefacL[10] = 2

	h := &FrameHeader{Version: Mpeg1}
	left := &GranuleChannel{BlockType: GranuleBlockType{Kind: BlockLong}}
	bound := intensityBound(h, left, right, 0)

	want := sfbLongBands[0][11]
	if bound != want {
		t.Errorf("intensityBound = %d, want %d", bound, want)
	}
}

func TestIntensityBoundAllCodedReturnsZero(t *testing.T) {
	right := &GranuleChannel{BlockType: GranuleBlockType{Kind: BlockLong}}
	for i := 0; i < 22; i++ {
		right.ScalefacL[i] = intensityInvPosMpeg1
	}
	h := &FrameHeader{Version: Mpeg1}
	left := &GranuleChannel{BlockType: GranuleBlockType{Kind: BlockLong}}
	if bound := intensityBound(h, left, right, 0); bound != 0 {
		t.Errorf("intensityBound = %d, want 0", bound)
	}
}

func TestIntensityRatiosMpeg1BoundaryValues(t *testing.T) {
	// is_pos=0 => ratio=tan(0)=0 => left=0, right=1 (all signal on right).
	if l, r := intensityRatiosMpeg1[0][0], intensityRatiosMpeg1[0][1]; l != 0 || math.Abs(float64(r)-1) > 1e-6 {
		t.Errorf("ratios[0] = (%v,%v), want (0,1)", l, r)
	}
	// is_pos=6 => ratio=tan(pi/2) is unbounded, folded to (1,0).
	if l, r := intensityRatiosMpeg1[6][0], intensityRatiosMpeg1[6][1]; l != 1 || r != 0 {
		t.Errorf("ratios[6] = (%v,%v), want (1,0)", l, r)
	}
}
