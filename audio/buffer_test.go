package audio_test

import (
	"testing"

	"github.com/pchchv/audiocore/audio"
)

func TestBufferRenderAndTruncate(t *testing.T) {
	spec := audio.Spec{SampleRate: 44100, Channels: audio.NewDiscreteChannels(2)}
	buf := audio.New[int16](spec, 4)

	buf.Render([]int16{1, -1})
	buf.Render([]int16{2, -2})
	if buf.NumFrames() != 2 {
		t.Fatalf("NumFrames = %d, want 2", buf.NumFrames())
	}

	out := make([]int16, 4)
	n := buf.CopyToSliceInterleaved(out)
	if n != 4 {
		t.Fatalf("copied %d samples, want 4", n)
	}
	want := []int16{1, -1, 2, -2}
	for i, v := range want {
		if out[i] != v {
			t.Errorf("out[%d] = %d, want %d", i, out[i], v)
		}
	}

	buf.Truncate(1)
	if buf.NumFrames() != 1 {
		t.Fatalf("NumFrames after Truncate(1) = %d, want 1", buf.NumFrames())
	}
}

func TestBufferRenderSilenceOverrunPanics(t *testing.T) {
	spec := audio.Spec{SampleRate: 8000, Channels: audio.NewDiscreteChannels(1)}
	buf := audio.New[float32](spec, 2)
	buf.RenderSilence(2)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on capacity overrun")
		}
	}()
	buf.RenderSilence(1)
}

func TestChannelsPlaneIndex(t *testing.T) {
	ch := audio.NewPositionedChannels(uint32(audio.PosFrontLeft | audio.PosFrontRight | audio.PosLFE1))
	if ch.Count() != 3 {
		t.Fatalf("Count = %d, want 3", ch.Count())
	}
	idx, ok := ch.PlaneIndex(audio.PosLFE1)
	if !ok || idx != 2 {
		t.Fatalf("PlaneIndex(LFE1) = (%d, %v), want (2, true)", idx, ok)
	}
}
