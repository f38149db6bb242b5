package pcm

import (
	"testing"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
)

func TestIntDecoderSignedLERoundTrip(t *testing.T) {
	params := engine.CodecParams{
		Codec:         engine.CodecIDPCMSignedLE,
		SampleRate:    44100,
		BitsPerSample: 16,
		Channels:      audio.NewDiscreteChannels(2),
	}
	dec, err := newSignedDecoder(false)(params, engine.DecoderOptions{})
	if err != nil {
		t.Fatalf("newSignedDecoder: %v", err)
	}

	// Two stereo frames: (1, -1) and (32767, -32768), little-endian i16.
	data := []byte{
		0x01, 0x00, 0xFF, 0xFF,
		0xFF, 0x7F, 0x00, 0x80,
	}
	ref, err := dec.Decode(&engine.Packet{Data: data})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	buf, ok := ref.(*audio.Buffer[int16])
	if !ok {
		t.Fatalf("decode returned %T, want *audio.Buffer[int16]", ref)
	}
	if buf.NumFrames() != 2 {
		t.Fatalf("NumFrames = %d, want 2", buf.NumFrames())
	}

	out := make([]int16, 4)
	buf.CopyToSliceInterleaved(out)
	want := []int16{1, -1, 32767, -32768}
	for i, v := range want {
		if out[i] != v {
			t.Errorf("out[%d] = %d, want %d", i, out[i], v)
		}
	}
}

func TestIntDecoderCodedWidthShift(t *testing.T) {
	// An 8-bit coded sample stored in a 16-bit container: the decoder must
	// left-shift the 8-bit value by 8 to fill the high-order bits.
	dec := &intDecoder[int16]{signed: true, codedBytes: 1, shift: 8}
	// Coded byte 0x01 (value 1 in 8 bits), shifted left 8 -> 0x0100 = 256.
	if got := dec.decodeSample([]byte{0x01}); got != 256 {
		t.Errorf("decodeSample(0x01) = %d, want 256", got)
	}
	// Coded byte 0xFF (value -1 in 8 bits signed), shifted left 8 -> -256.
	if got := dec.decodeSample([]byte{0xFF}); got != -256 {
		t.Errorf("decodeSample(0xFF) = %d, want -256", got)
	}
}

func TestFloatDecoderLE(t *testing.T) {
	params := engine.CodecParams{
		Codec:         engine.CodecIDPCMFloatLE,
		SampleRate:    48000,
		BitsPerSample: 32,
		Channels:      audio.NewDiscreteChannels(1),
	}
	dec, err := newFloatDecoder(false)(params, engine.DecoderOptions{})
	if err != nil {
		t.Fatalf("newFloatDecoder: %v", err)
	}
	// float32(1.0) little-endian: 0x3F800000 -> bytes 00 00 80 3F.
	ref, err := dec.Decode(&engine.Packet{Data: []byte{0x00, 0x00, 0x80, 0x3F}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	buf := ref.(*audio.Buffer[float32])
	if buf.Plane(0)[0] != 1.0 {
		t.Errorf("sample = %v, want 1.0", buf.Plane(0)[0])
	}
}
