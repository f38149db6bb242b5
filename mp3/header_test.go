package mp3

import "testing"

func TestParseHeaderMpeg1StereoLayer3(t *testing.T) {
	// 0xFFFB9064: MPEG1, Layer III, no CRC, bitrate index 9 (128kbps),
	// sample rate index 0 (44100), no padding, joint stereo (mid-side on).
	hdr, err := ParseHeader([4]byte{0xFF, 0xFB, 0x90, 0x64})
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.Version != Mpeg1 {
		t.Errorf("Version = %v, want Mpeg1", hdr.Version)
	}
	if hdr.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", hdr.SampleRate)
	}
	if hdr.Bitrate != 128000 {
		t.Errorf("Bitrate = %d, want 128000", hdr.Bitrate)
	}
	if hdr.Channels != ModeJointStereo {
		t.Errorf("Channels = %v, want ModeJointStereo", hdr.Channels)
	}
	if hdr.NumGranules() != 2 {
		t.Errorf("NumGranules = %d, want 2", hdr.NumGranules())
	}
	if hdr.SideInfoSize() != 32 {
		t.Errorf("SideInfoSize = %d, want 32", hdr.SideInfoSize())
	}
	// samples_per_frame/8 * bitrate/samplerate + padding = 144*128000/44100 = 417
	if hdr.FrameSize != 417 {
		t.Errorf("FrameSize = %d, want 417", hdr.FrameSize)
	}
}

func TestParseHeaderRejectsNonSync(t *testing.T) {
	if _, err := ParseHeader([4]byte{0x00, 0xFB, 0x90, 0x64}); err != errNotSync {
		t.Fatalf("err = %v, want errNotSync", err)
	}
}

func TestParseHeaderRejectsFreeFormat(t *testing.T) {
	if _, err := ParseHeader([4]byte{0xFF, 0xFB, 0x00, 0x64}); err != errFreeFormat {
		t.Fatalf("err = %v, want errFreeFormat", err)
	}
}

func TestParseHeaderMono(t *testing.T) {
	// Same as the stereo case above but with mode bits set to mono (0b11).
	hdr, err := ParseHeader([4]byte{0xFF, 0xFB, 0x90, 0xC4})
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.Channels != ModeMono {
		t.Fatalf("Channels = %v, want ModeMono", hdr.Channels)
	}
	if hdr.Channels.NumChannels() != 1 {
		t.Errorf("NumChannels = %d, want 1", hdr.Channels.NumChannels())
	}
	if hdr.SideInfoSize() != 17 {
		t.Errorf("SideInfoSize = %d, want 17", hdr.SideInfoSize())
	}
}
