package ogg

// packet is one complete OGG logical-stream packet, reassembled from one or
// more page segments.
type packet struct {
	Serial  uint32
	Data    []byte
	BaseTS  uint64
	OnFirst bool // the page this packet's last segment arrived on was a first page
}

// logicalStream buffers segments from successive pages belonging to one
// serial number until a segment shorter than 255 bytes closes a packet.
// A logical stream's packets all carry the same BaseTS as the page that
// closed them: OGG only guarantees the granule position of the final
// completed packet on a page, so assigning every packet closed on the same
// page that page's granule is the same page-granularity approximation used
// when no codec-specific sample-duration calculator is available (computing
// one per packet would require per-codec duration logic, out of scope here
// per the Vorbis/Opus/AAC decoder bodies' out-of-scope boundary).
type logicalStream struct {
	serial  uint32
	partial []byte
	queue   []packet
}

func newLogicalStream(serial uint32) *logicalStream {
	return &logicalStream{serial: serial}
}

// read appends page's payload to the stream, splitting it into packets
// according to the page's segment table.
func (ls *logicalStream) read(h *pageHeader, data []byte) {
	offset := 0
	for _, segLen := range h.Segments {
		ls.partial = append(ls.partial, data[offset:offset+int(segLen)]...)
		offset += int(segLen)
		if segLen < 255 {
			ls.queue = append(ls.queue, packet{
				Serial:  ls.serial,
				Data:    ls.partial,
				BaseTS:  h.Granule,
				OnFirst: h.IsFirstPage,
			})
			ls.partial = nil
		}
	}
}

// peek returns the next ready packet without removing it from the queue.
func (ls *logicalStream) peek() (packet, bool) {
	if len(ls.queue) == 0 {
		return packet{}, false
	}
	return ls.queue[0], true
}

// pop removes the packet returned by the most recent peek.
func (ls *logicalStream) pop() {
	if len(ls.queue) > 0 {
		ls.queue = ls.queue[1:]
	}
}

// baseTS returns the granule position of the most recently completed
// packet, or 0 if none has completed yet.
func (ls *logicalStream) baseTS() uint64 {
	if len(ls.queue) == 0 {
		return 0
	}
	return ls.queue[len(ls.queue)-1].BaseTS
}

// reset discards any in-progress or queued packet data, used after a CRC
// failure (the partial packet can no longer be completed) or after a
// successful seek to a new position in the source.
func (ls *logicalStream) reset() {
	ls.partial = nil
	ls.queue = nil
}
