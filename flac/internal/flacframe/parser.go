// Package flacframe reconstructs FLAC frame packets from a byte stream that
// carries no external framing. FLAC frames are self-delimiting only by
// their own CRC-16 footer and the sync word of the frame that follows, so
// the parser reads "fragments" (candidate spans between two sync words),
// tracks a running CRC-16 per fragment, and merges fragments until one
// fragment's CRC matches its own footer. When synchronization is lost
// entirely, it resynchronizes by scanning byte-by-byte for a validated
// frame header. Grounded on symphonia-bundle-flac's parser.rs.
package flacframe

import (
	"bytes"
	"io"

	"github.com/pchchv/audiocore/flac/frame"
	"github.com/pchchv/audiocore/flac/meta"
	"github.com/pchchv/audiocore/internal/hashutil"
	"github.com/pchchv/audiocore/internal/hashutil/crc16"
)

const (
	// MaxFrameSize is the largest a single FLAC frame may be, per spec.
	MaxFrameSize = 16 << 20
	// MaxFrameHeaderSize bounds the byte length of a frame header: 2 sync
	// bytes, 1 block-size/sample-rate byte, 1 channel/sample-size byte, up
	// to 7 bytes of UTF-8 coded frame/sample number, up to 2 bytes of
	// block-size suffix, up to 2 bytes of sample-rate suffix, 1 CRC-8 byte.
	MaxFrameHeaderSize = 16

	fragmentQueueDepth = 4

	// minFragmentLen is a conservative lower bound on how far a frame's
	// footer can be from its first byte: shorter than any realistic FLAC
	// frame (header plus at least a few subframe bytes), so the footer
	// backtrack search in tryReadFragment never mistakes a position
	// inside the header itself for a footer.
	minFragmentLen = 8
)

// Stream is the minimal surface the parser needs from a buffered byte
// stream: sequential reads plus a backward-seekable window, matching
// bufseekio.Stream.
type Stream interface {
	io.Reader
	Pos() int64
	SeekBufferedRel(delta int64) int64
	SeekBuffered(pos uint64) int64
}

// SyncInfo carries the timestamp and duration of a parsed packet.
type SyncInfo struct {
	Ts  uint64
	Dur uint64
}

// Packet is one reconstructed FLAC frame, ready for frame.Parse.
type Packet struct {
	Data []byte
	Sync SyncInfo
}

type movingAverage struct {
	samples [4]int
	count   int
}

func (m *movingAverage) push(v int) {
	m.samples[m.count%len(m.samples)] = v
	m.count++
}

func (m *movingAverage) reset() { m.count = 0 }

func (m *movingAverage) average() int {
	if m.count == 0 {
		return 0
	}
	n := len(m.samples)
	if m.count < n {
		n = m.count
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += m.samples[i]
	}
	return sum / n
}

type fragmentFooter struct{ crc uint16 }

// fragmentState is a fragment's running CRC-16 and accumulated length,
// assuming the packet it belongs to began at this fragment's first byte.
// Both fields are threaded forward by update as later fragments arrive,
// without ever copying their byte data until a match is confirmed.
type fragmentState struct {
	crc16    hashutil.Hash16
	totalLen int
}

type fragment struct {
	data     []byte
	footer   fragmentFooter
	crcMatch bool
	state    fragmentState
}

func newFragment(data []byte) *fragment {
	n := len(data)
	top, bottom := data[:n-2], data[n-2:]

	footer := fragmentFooter{crc: uint16(bottom[0])<<8 | uint16(bottom[1])}

	h := crc16.NewANSI()
	_, _ = h.Write(top)
	crcMatch := footer.crc == h.Sum16()
	_, _ = h.Write(bottom)

	return &fragment{
		data:     data,
		footer:   footer,
		crcMatch: crcMatch,
		state:    fragmentState{crc16: h, totalLen: n},
	}
}

// update extends f's running CRC-16 with next's bytes, as if a packet
// beginning at f had continued uninterrupted into next, and reports
// whether the extended checksum matches next's own footer.
func (f *fragment) update(next *fragment) bool {
	n := len(next.data)
	top, bottom := next.data[:n-2], next.data[n-2:]

	_, _ = f.state.crc16.Write(top)
	match := next.footer.crc == f.state.crc16.Sum16()
	_, _ = f.state.crc16.Write(bottom)
	f.state.totalLen += n

	return match
}

// parseHeader parses the frame header at the start of this fragment.
func (f *fragment) parseHeader() (*frame.Header, error) {
	return frame.DecodeHeader(bytes.NewReader(f.data))
}

// crcMatchesSpan reports whether buf is a complete, self-describing
// fragment: its own footer (the last two bytes) equals the CRC-16 of
// everything before it.
func crcMatchesSpan(buf []byte) bool {
	if len(buf) < 2 {
		return false
	}
	top, bottom := buf[:len(buf)-2], buf[len(buf)-2:]
	h := crc16.NewANSI()
	_, _ = h.Write(top)
	return uint16(bottom[0])<<8|uint16(bottom[1]) == h.Sum16()
}

// findFooterCRC scans buf for the earliest position p >= minLen such
// that buf[:p] is itself CRC-16-valid against the two bytes at
// buf[p:p+2], and reports the resulting fragment length p+2.
//
// It is used when the span up to a freshly validated next-frame header
// does not itself CRC-match (crcMatchesSpan(buf) is false): that
// mismatch means the true end of the current frame lies somewhere
// before the point where scanning re-acquired sync, with corrupt or
// foreign bytes — not a frame at all — filling the gap between them.
// Rather than let that gap's bytes get appended to the current frame
// (producing a fragment whose CRC never matches and whose data is
// wrong) or dropped along with the frame that precedes it, this
// recovers the frame's real, shorter length directly, the way step 4 of
// the resync procedure retries earlier candidate boundaries instead of
// committing to the first one found.
func findFooterCRC(buf []byte, minLen int) (int, bool) {
	if len(buf) < minLen+2 {
		return 0, false
	}
	h := crc16.NewANSI()
	_, _ = h.Write(buf[:minLen])
	for p := minLen; p+2 <= len(buf); p++ {
		footer := uint16(buf[p])<<8 | uint16(buf[p+1])
		if footer == h.Sum16() {
			return p + 2, true
		}
		_, _ = h.Write(buf[p : p+1])
	}
	return 0, false
}

type packetBuilder struct {
	frags      []*fragment
	maxSize    int
	haveMax    bool
	avgSize    int
	haveAvg    bool
	lastHeader *frame.Header
}

func (b *packetBuilder) setMaxFrameSize(max int, ok bool) { b.maxSize, b.haveMax = max, ok }
func (b *packetBuilder) setAvgFrameSize(avg int, ok bool)  { b.avgSize, b.haveAvg = avg, ok }

func (b *packetBuilder) maxFrameSize() int {
	if b.haveMax {
		return b.maxSize
	}
	return MaxFrameSize
}

func (b *packetBuilder) maxAvgFrameSize() int {
	if b.haveAvg {
		return 4 * b.avgSize
	}
	return MaxFrameSize
}

// pushFragment appends frag to the queue, pruning the oldest entry first if
// the queue would otherwise grow past the size or depth bounds.
func (b *packetBuilder) pushFragment(frag *fragment) {
	if len(b.frags) > 0 {
		first := b.frags[0]
		prune := false
		switch {
		case first.state.totalLen > b.maxFrameSize():
			prune = true
		case first.state.totalLen > b.maxAvgFrameSize():
			prune = true
		case len(b.frags) >= fragmentQueueDepth:
			prune = true
		}
		if prune {
			b.frags = b.frags[1:]
		}
	}
	b.frags = append(b.frags, frag)
}

// tryBuild attempts to complete a packet using frag as the newest fragment.
// On success it returns the packet and clears the fragment queue.
func (b *packetBuilder) tryBuild(info *meta.StreamInfo, frag *fragment) (*Packet, error) {
	var header *frame.Header
	var data []byte

	if frag.crcMatch {
		h, err := frag.parseHeader()
		if err != nil {
			return nil, err
		}
		header, data = h, frag.data
	} else {
		idx := -1
		for i, f := range b.frags {
			if f.update(frag) {
				idx = i
				break
			}
		}
		if idx < 0 {
			b.pushFragment(frag)
			return nil, nil
		}

		total := b.frags[idx].state.totalLen
		merged := make([]byte, 0, total)
		for _, f := range b.frags[idx:] {
			merged = append(merged, f.data...)
		}
		merged = append(merged, frag.data...)

		h, err := b.frags[idx].parseHeader()
		if err != nil {
			return nil, err
		}
		header, data = h, merged
	}

	b.frags = b.frags[:0]
	sync := calcSyncInfo(info, header)
	b.lastHeader = header
	return &Packet{Data: data, Sync: sync}, nil
}

func (b *packetBuilder) reset() {
	b.frags = b.frags[:0]
	b.lastHeader = nil
}

// PacketParser reconstructs FLAC frame packets from a Stream, recovering
// frame boundaries by CRC-16 agreement rather than any external framing.
type PacketParser struct {
	info    meta.StreamInfo
	fsma    movingAverage
	builder packetBuilder
}

// Reset configures the parser for a new stream, using the stream's
// StreamInfo block to bound fragment growth and validate frame headers.
func (p *PacketParser) Reset(info meta.StreamInfo) {
	p.info = info
	p.builder.setMaxFrameSize(int(info.FrameSizeMax), info.FrameSizeMax > 0)
	p.softReset()
}

func (p *PacketParser) softReset() {
	p.builder.reset()
	p.fsma.reset()
}

// Parse returns the next reconstructed packet from s, resynchronizing as
// many times as necessary.
func (p *PacketParser) Parse(s Stream) (*Packet, error) {
	avg := p.fsma.average()
	p.builder.setAvgFrameSize(avg, avg > 0)

	for {
		frag, err := p.readFragment(s, avg)
		if err != nil {
			return nil, err
		}
		pkt, err := p.builder.tryBuild(&p.info, frag)
		if err != nil {
			return nil, err
		}
		if pkt != nil {
			p.fsma.push(len(pkt.Data))
			return pkt, nil
		}
	}
}

func (p *PacketParser) readFragment(s Stream, avgFrameSize int) (*fragment, error) {
	for {
		frag, err := p.tryReadFragment(s, avgFrameSize)
		if err != nil {
			return nil, err
		}
		if frag != nil {
			return frag, nil
		}
		if _, err := p.Resync(s); err != nil {
			return nil, err
		}
	}
}

// tryReadFragment reads up to the maximum FLAC frame size searching for the
// next valid frame header; returns (nil, nil) if synchronization was lost
// within that budget, signalling the caller to resynchronize.
func (p *PacketParser) tryReadFragment(s Stream, avgFrameSize int) (*fragment, error) {
	initSize := clamp(avgFrameSize, 1024, 32768) + MaxFrameHeaderSize
	buf := make([]byte, initSize)

	end, err := io.ReadFull(s, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if end == 0 {
		return nil, io.EOF
	}
	buf = buf[:cap(buf)]

	pos := 1
	for {
		for {
			offset, _, ok := scanForSyncPreamble(buf[pos:end])
			if !ok {
				break
			}
			size := pos + offset
			frameBuf := buf[size:end]

			if isLikelyFrameHeader(frameBuf) {
				if header, err := frame.DecodeHeader(bytes.NewReader(frameBuf)); err == nil {
					if strictFrameHeaderCheck(&p.info, header, p.builder.lastHeader) {
						trueSize := size
						if !crcMatchesSpan(buf[:size]) {
							// The next header is valid, but the bytes
							// leading up to it are not a CRC-valid frame
							// on their own: retry earlier candidate
							// boundaries for the real footer instead of
							// emitting a frame contaminated by whatever
							// lies in the gap.
							if found, ok := findFooterCRC(buf[:size], minFragmentLen); ok {
								trueSize = found
							}
						}
						s.SeekBufferedRel(-int64(end - trueSize))
						out := make([]byte, trueSize)
						copy(out, buf[:trueSize])
						return newFragment(out), nil
					}
				}
			}

			pos += offset + 1
		}

		if end >= MaxFrameSize+MaxFrameHeaderSize {
			return nil, nil
		}

		nextEnd := end + 1024
		if nextEnd > len(buf) {
			grown := make([]byte, nextEnd)
			copy(grown, buf[:end])
			buf = grown
		}
		pos = end - MaxFrameHeaderSize
		if pos < 0 {
			pos = 0
		}

		n, err := s.Read(buf[end:nextEnd])
		end += n
		if err != nil || n == 0 {
			out := make([]byte, end)
			copy(out, buf[:end])
			return newFragment(out), nil
		}
	}
}

// Resync scans forward byte-by-byte for a validated frame header with no
// prior header context, then rewinds the stream to the start of that frame.
func (p *PacketParser) Resync(s Stream) (SyncInfo, error) {
	initPos := s.Pos()

	var header *frame.Header
	var framePos int64
	for {
		sync, err := syncFrame(s)
		if err != nil {
			return SyncInfo{}, err
		}
		framePos = s.Pos() - 2

		h, err := frame.DecodeHeader(&preReadReader{first: sync, s: s})
		if err == nil && strictFrameHeaderCheck(&p.info, h, nil) {
			header = h
			break
		}

		s.SeekBuffered(uint64(framePos + 1))
	}

	info := calcSyncInfo(&p.info, header)
	s.SeekBuffered(uint64(framePos))
	if initPos != s.Pos() {
		p.softReset()
	}
	return info, nil
}

// preReadReader lets DecodeHeader consume a sync word already read as two
// bytes, followed by the remainder of the header from s.
type preReadReader struct {
	first uint16
	done  bool
	s     Stream
}

func (r *preReadReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		n := copy(p, []byte{byte(r.first >> 8), byte(r.first)})
		return n, nil
	}
	return r.s.Read(p)
}

// syncFrame scans s byte-by-byte for the 14-bit sync preamble and returns
// the matched 16-bit value (sync bits plus the reserved/blocking-strategy
// bits that follow them).
func syncFrame(s Stream) (uint16, error) {
	var window uint16
	var have int
	var buf [1]byte
	for {
		if _, err := s.Read(buf[:]); err != nil {
			return 0, err
		}
		window = window<<8 | uint16(buf[0])
		have++
		if have < 2 {
			continue
		}
		if window&0xFFFC == 0xFFF8 {
			return window, nil
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isLikelyFrameHeader(buf []byte) bool {
	return len(buf) >= 2
}

// scanForSyncPreamble scans buf for the frame synchronization preamble,
// returning the byte offset of its first byte and the matched 16-bit sync
// value.
func scanForSyncPreamble(buf []byte) (int, uint16, bool) {
	for i := 0; i+1 < len(buf); i++ {
		sync := uint16(buf[i])<<8 | uint16(buf[i+1])
		if sync&0xFFFC == 0xFFF8 {
			return i, sync, true
		}
	}
	return 0, 0, false
}

func calcSyncInfo(info *meta.StreamInfo, header *frame.Header) SyncInfo {
	isFixed := info.BlockSizeMax == info.BlockSizeMin
	dur := uint64(header.BlockSize)

	var ts uint64
	if header.Num.IsSample {
		ts = header.Num.Num
	} else if isFixed {
		ts = header.Num.Num * uint64(info.BlockSizeMin)
	} else {
		ts = header.Num.Num * dur
	}

	return SyncInfo{Ts: ts, Dur: dur}
}

func strictFrameHeaderCheck(info *meta.StreamInfo, header *frame.Header, lastHeader *frame.Header) bool {
	if header.SampleRate != 0 && header.SampleRate != info.SampleRate {
		return false
	}
	if header.BitsPerSample != 0 && header.BitsPerSample != info.BitsPerSample {
		return false
	}
	if uint32(header.BlockSize) > uint32(info.BlockSizeMax) {
		return false
	}

	isFixed := info.BlockSizeMin == info.BlockSizeMax

	var lastSeq uint64
	if lastHeader != nil {
		lastSeq = lastHeader.Num.Num
	}

	var monotonic bool
	if header.Num.IsSample {
		monotonic = !isFixed && (header.Num.Num > lastSeq || header.Num.Num == 0)
	} else {
		monotonic = isFixed && (header.Num.Num > lastSeq || header.Num.Num == 0)
	}
	if !monotonic {
		return false
	}

	numFrameChannels := header.Channels.Count()
	if numFrameChannels != int(info.NChannels) {
		return false
	}

	return true
}
