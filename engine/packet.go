package engine

// Packet holds a discrete amount of coded data for a single track. A Reader
// never mixes data from two different tracks into the same Packet; the
// exact size of a Packet is container- and codec-dependent.
type Packet struct {
	// TrackID identifies which Track this packet belongs to.
	TrackID uint32
	// TS is the packet's timestamp in the track's time base.
	TS uint64
	// Dur is the packet's duration in the track's time base.
	Dur uint64
	// TrimStart is the number of decoded frames to discard from the start
	// of the packet once decoded, for gapless playback. Zero unless
	// gapless support is enabled on the Reader.
	TrimStart uint32
	// TrimEnd is the number of decoded frames to discard from the end of
	// the packet once decoded, for gapless playback. Zero unless gapless
	// support is enabled on the Reader.
	TrimEnd uint32
	// Data is the packet's undecoded payload.
	Data []byte
}
