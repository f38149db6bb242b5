// Package engine defines the root interfaces that tie the per-format
// demuxers (flac, ogg, mp3, pcm) into a single polymorphic pipeline: a
// Source feeds a Reader, a Reader emits Packets, and a Decoder turns each
// Packet into a buffer of PCM samples.
package engine

import "io"

// Source is the minimal surface a media source must expose to a Reader. It
// is satisfied directly by *bufseekio.Stream, which every package in this
// module already uses as its buffered view over the underlying bytes.
type Source interface {
	io.Reader
	IsSeekable() bool
	ByteLen() (int64, bool)
}
