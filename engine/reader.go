package engine

import (
	"errors"
	"io"
	"log/slog"
)

// ReaderOptions holds Reader configuration. No Reader constructor in this
// module takes a ReaderOptions, so setting its fields has no effect on the
// readers here.
type ReaderOptions struct {
	// EnableGapless enables encoder-delay/padding trimming; when set,
	// packets carry TrimStart/TrimEnd and track timestamps are relative
	// to the trimmed region.
	EnableGapless bool
	// PrebuildSeekIndex builds the full seek index at construction time
	// instead of lazily on first Seek, for containers that don't carry
	// one in their header (e.g. FLAC without a SeekTable block, OGG).
	PrebuildSeekIndex bool
	// SeekIndexFillRate is how many seconds of decoded content separate
	// two consecutive entries in a built seek index. Zero selects the
	// reader's own default (20 seconds, matching the teacher's own
	// seek-table granularity intent).
	SeekIndexFillRate uint16
	// Logger receives recoverable-condition reports (a discarded
	// fragment, a resynchronization, a cleared reservoir). A nil Logger
	// disables logging; the zero value behaves the same way.
	Logger *slog.Logger
}

// log reports msg via opts.Logger if one is set, otherwise it is a no-op.
// Nothing in the module calls it.
func (opts ReaderOptions) log(msg string, args ...any) {
	if opts.Logger != nil {
		opts.Logger.Debug(msg, args...)
	}
}

// SeekMode selects the precision of a Reader.Seek.
type SeekMode int

const (
	// SeekAccurate always lands at or before the requested position.
	SeekAccurate SeekMode = iota
	// SeekCoarse is a best-effort seek that may land before or after the
	// requested position; readers that cannot do better fall back to
	// SeekAccurate.
	SeekCoarse
)

// SeekTo specifies where a Reader.Seek should land, either by wall-clock
// time or by a track-relative timestamp.
type SeekTo struct {
	// Time, in seconds, to seek to. Used when TimeStamp is zero.
	Time float64
	// TimeStamp, in the target track's time base, to seek to. Takes
	// precedence over Time when nonzero.
	TimeStamp uint64
	// TrackID selects which track Time/TimeStamp is relative to. If nil,
	// the reader's default track is used.
	TrackID *uint32
}

// SeekedTo is the result of a successful Reader.Seek.
type SeekedTo struct {
	TrackID    uint32
	RequiredTS uint64
	ActualTS   uint64
}

// Track describes one independently coded bitstream inside a container.
type Track struct {
	ID       uint32
	Params   CodecParams
	Language string
}

// Cue is a named point of time within a media stream (e.g. a FLAC cue
// sheet track index or an OGG chapter mark).
type Cue struct {
	Index   uint32
	StartTS uint64
}

// Errors returned by Reader.Seek.
var (
	ErrSeekInvalidTrack = errors.New("engine: seek: invalid track")
	ErrSeekOutOfRange   = errors.New("engine: seek: out of range")
	ErrSeekForwardOnly  = errors.New("engine: seek: reader only supports seeking forward")
	ErrSeekUnseekable   = errors.New("engine: seek: underlying source is not seekable")
)

// ErrResetRequired signals that the stream's format changed mid-read (a new
// OGG chained logical stream, a mid-stream discontinuity); the caller must
// discard the current Reader/Decoder pair and re-probe.
var ErrResetRequired = errors.New("engine: reset required")

// Reader demuxes Packets out of a container, one track at a time.
type Reader interface {
	// NextPacket returns the next packet from the container. It returns
	// io.EOF at a graceful end of stream, or ErrResetRequired if the
	// format has changed and the caller must re-probe.
	NextPacket() (*Packet, error)
	// Seek seeks to the position described by to, as precisely as mode
	// allows. Any Decoder consuming this Reader's packets must be Reset
	// after a successful Seek.
	Seek(mode SeekMode, to SeekTo) (SeekedTo, error)
	// Tracks returns every track in the container.
	Tracks() []Track
	// DefaultTrack returns the container's default track, or the first
	// track if the container has no way to mark one, or false if the
	// container has no tracks.
	DefaultTrack() (Track, bool)
	// Cues returns every Cue point carried by the container.
	Cues() []Cue
	// Close releases the underlying source, if it implements io.Closer.
	Close() error
}

var _ io.Closer = Reader(nil)
