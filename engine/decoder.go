package engine

import "github.com/pchchv/audiocore/audio"

// DecoderOptions configures a Decoder at construction time.
type DecoderOptions struct {
	// Verify enables CRC/MD5 self-verification during decode, when the
	// codec's bitstream carries a check value for it.
	Verify bool
}

// FinalizeResult is returned by Decoder.Finalize.
type FinalizeResult struct {
	// VerifyOk reports whether self-verification succeeded, or nil if
	// DecoderOptions.Verify was false or the codec has no check value.
	VerifyOk *bool
}

// DecoderFactory constructs a Decoder for the given codec parameters.
type DecoderFactory func(params CodecParams, opts DecoderOptions) (Decoder, error)

// Decoder decodes Packets belonging to a single track into audio buffers.
// A Decoder is stateful: packets must be fed to the same instance in
// stream order, since some codecs (MP3's bit reservoir, FLAC's running
// MD5 digest) carry state across packet boundaries.
type Decoder interface {
	// Decode decodes one packet, returning a reference to the internal
	// buffer that also becomes available from LastDecoded. The returned
	// BufferRef is only valid until the next call to Decode or Reset.
	Decode(pkt *Packet) (audio.BufferRef, error)
	// Reset clears all decode state, returning the Decoder to the state
	// of a freshly constructed instance for the same CodecParams.
	Reset()
	// Finalize signals that no more packets will be decoded and returns
	// the result of any pending self-verification. Finalize is
	// idempotent: calling it more than once returns the same result.
	Finalize() FinalizeResult
	// LastDecoded returns the buffer produced by the most recent
	// successful call to Decode.
	LastDecoded() audio.BufferRef
}
