// Package bufseekio provides a ring-buffered byte stream with exponential
// read-ahead and a backward-seekable window, used to give every container
// parser in this module a uniform, buffered view over a media source.
package bufseekio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"math/bits"
)

const (
	minBlockLen     = 1 << 10 // 1 KiB, initial read-ahead size
	maxBlockLen     = 32 << 10
	defaultRingSize = 64 << 10 // must be a power of two, > maxBlockLen
)

// Source is the minimal surface a media source must expose. It mirrors the
// subset of io.Reader/io.Seeker this package needs, plus the two query
// methods a container parser uses to decide whether seeking is possible at
// all.
type Source interface {
	io.Reader
	IsSeekable() bool
	ByteLen() (int64, bool)
}

// seekableSource adapts an io.ReadSeeker to Source.
type seekableSource struct {
	io.ReadSeeker
	size int64
	has  bool
}

func (s *seekableSource) IsSeekable() bool { return true }
func (s *seekableSource) ByteLen() (int64, bool) {
	return s.size, s.has
}

// NewSource wraps r as a Source. If r also implements io.Seeker, seeking and
// byte-length reporting are enabled; the length is probed once via
// Seek(0, io.SeekEnd) and the position restored.
func NewSource(r io.Reader) Source {
	if src, ok := r.(Source); ok {
		return src
	}
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nonSeekableSource{r}
	}
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nonSeekableSource{r}
	}
	end, err := rs.Seek(0, io.SeekEnd)
	has := err == nil
	if has {
		if _, err := rs.Seek(cur, io.SeekStart); err != nil {
			has = false
		}
	}
	return &seekableSource{ReadSeeker: rs, size: end, has: has}
}

type nonSeekableSource struct{ io.Reader }

func (nonSeekableSource) IsSeekable() bool       { return false }
func (nonSeekableSource) ByteLen() (int64, bool) { return 0, false }

// ErrUnexpectedEOF is returned by typed reads that cannot be fully satisfied.
var ErrUnexpectedEOF = io.ErrUnexpectedEOF

// Stream is a power-of-two ring buffer over a Source. It implements the
// exponentially growing read-ahead (1 KiB doubling to 32 KiB) and the
// backward-seekable window described in the byte-stream component: the read
// cursor may trail the write cursor by up to the ring length, allowing
// seek_buffered to move within that window without touching the source.
type Stream struct {
	src  Source
	ring []byte
	mask int

	readPos  int
	writePos int

	readBlockLen int

	absPos uint64 // inner source's position
	relPos uint64 // bytes read since the last real seek/reset
}

// NewStream constructs a Stream with the default ring size (64 KiB).
func NewStream(src Source) *Stream {
	return NewStreamSize(src, defaultRingSize)
}

// NewStreamSize constructs a Stream with a caller-chosen ring size, rounded
// up to the next power of two and clamped above maxBlockLen.
func NewStreamSize(src Source, size int) *Stream {
	if size <= maxBlockLen {
		size = maxBlockLen * 2
	}
	size = 1 << bits.Len(uint(size-1))
	return &Stream{
		src:          src,
		ring:         make([]byte, size),
		mask:         size - 1,
		readBlockLen: minBlockLen,
	}
}

func (s *Stream) isExhausted() bool { return s.readPos == s.writePos }

// fetch replenishes the ring buffer from the source when it has been fully
// drained, growing the read-ahead block length exponentially.
func (s *Stream) fetch() error {
	if !s.isExhausted() {
		return nil
	}

	// The region available to write into starts at writePos and wraps
	// around; read in whichever contiguous slice is available, up to
	// readBlockLen bytes.
	end := s.writePos + s.readBlockLen
	var n int
	var err error
	if end <= len(s.ring) {
		n, err = s.src.Read(s.ring[s.writePos:end])
	} else {
		// Wraps: fill to the end of the ring first; a single fetch never
		// spans the wrap to keep the accounting simple, matching a
		// conservative read-ahead policy.
		n, err = s.src.Read(s.ring[s.writePos:])
	}
	if n > 0 {
		s.writePos = (s.writePos + n) & s.mask
		s.absPos += uint64(n)
		s.relPos += uint64(n)
		if s.readBlockLen < maxBlockLen {
			s.readBlockLen <<= 1
			if s.readBlockLen > maxBlockLen {
				s.readBlockLen = maxBlockLen
			}
		}
	}
	if n == 0 && err == nil {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return err
	}
	if n == 0 {
		return err
	}
	return nil
}

func (s *Stream) fetchOrEOF() error {
	if err := s.fetch(); err != nil {
		return err
	}
	if s.isExhausted() {
		return io.EOF
	}
	return nil
}

func (s *Stream) consume(n int) { s.readPos = (s.readPos + n) & s.mask }

// contiguous returns the largest contiguous readable slice starting at the
// read cursor.
func (s *Stream) contiguous() []byte {
	if s.writePos >= s.readPos {
		return s.ring[s.readPos:s.writePos]
	}
	return s.ring[s.readPos:]
}

func (s *Stream) reset(pos uint64) {
	s.readPos, s.writePos = 0, 0
	s.readBlockLen = minBlockLen
	s.absPos = pos
	s.relPos = 0
}

// Read implements io.Reader over the ring buffer.
func (s *Stream) Read(p []byte) (int, error) {
	read := 0
	for len(p) > 0 {
		if err := s.fetch(); err != nil && s.isExhausted() {
			if err == io.EOF {
				break
			}
			return read, err
		}
		n := copy(p, s.contiguous())
		if n == 0 {
			break
		}
		s.consume(n)
		p = p[n:]
		read += n
	}
	return read, nil
}

// ReadByte reads a single byte.
func (s *Stream) ReadByte() (byte, error) {
	if err := s.fetchOrEOF(); err != nil {
		return 0, err
	}
	b := s.ring[s.readPos]
	s.consume(1)
	return b, nil
}

// ReadFull reads exactly len(p) bytes, returning ErrUnexpectedEOF on a short
// source.
func (s *Stream) ReadFull(p []byte) error {
	n, err := s.Read(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ErrUnexpectedEOF
	}
	return nil
}

func (s *Stream) readTyped(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadU8/ReadU16BE/... read fixed-width big/little-endian integers.
func (s *Stream) ReadU8() (uint8, error) { return s.ReadByte() }

func (s *Stream) ReadU16BE() (uint16, error) {
	b, err := s.readTyped(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (s *Stream) ReadU16LE() (uint16, error) {
	b, err := s.readTyped(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *Stream) ReadU24BE() (uint32, error) {
	b, err := s.readTyped(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (s *Stream) ReadU24LE() (uint32, error) {
	b, err := s.readTyped(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

func (s *Stream) ReadU32BE() (uint32, error) {
	b, err := s.readTyped(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (s *Stream) ReadU32LE() (uint32, error) {
	b, err := s.readTyped(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *Stream) ReadU64BE() (uint64, error) {
	b, err := s.readTyped(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (s *Stream) ReadU64LE() (uint64, error) {
	b, err := s.readTyped(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (s *Stream) ReadF32BE() (float32, error) {
	u, err := s.ReadU32BE()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (s *Stream) ReadF64BE() (float64, error) {
	u, err := s.ReadU64BE()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// IgnoreBytes skips n bytes. On a seekable source, when n is at least twice
// the ring size, it dispatches a real seek instead of discarding through the
// ring one fetch at a time.
func (s *Stream) IgnoreBytes(n uint64) error {
	ringLen := uint64(len(s.ring))
	for n >= 2*ringLen && s.src.IsSeekable() {
		delta := n - ringLen
		if _, err := s.SeekReal(int64(delta), io.SeekCurrent); err != nil {
			return err
		}
		n -= delta
	}
	for n > 0 {
		if err := s.fetchOrEOF(); err != nil {
			return err
		}
		d := uint64(s.UnreadBufferLen())
		if d > n {
			d = n
		}
		s.consume(int(d))
		n -= d
	}
	return nil
}

// ScanForBytes scans forward for the given byte pattern within the next
// maxLen bytes of the stream, consuming every byte it scans, the match
// included; returns the absolute offset at which the match begins, or false.
func (s *Stream) ScanForBytes(pattern []byte, maxLen int) (int64, bool, error) {
	matched := 0
	scanned := 0
	for scanned < maxLen {
		b, err := s.ReadByte()
		if err != nil {
			return 0, false, err
		}
		scanned++
		if b == pattern[matched] {
			matched++
			if matched == len(pattern) {
				return s.Pos() - int64(len(pattern)), true, nil
			}
		} else {
			matched = 0
			if b == pattern[0] {
				matched = 1
			}
		}
	}
	return 0, false, nil
}

// Pos returns the absolute logical position of the stream: the underlying
// source's position minus the number of bytes still buffered but unread.
func (s *Stream) Pos() int64 {
	return int64(s.absPos) - int64(s.UnreadBufferLen())
}

// UnreadBufferLen returns the number of buffered, unread bytes.
func (s *Stream) UnreadBufferLen() int {
	if s.writePos >= s.readPos {
		return s.writePos - s.readPos
	}
	return s.writePos + (len(s.ring) - s.readPos)
}

// ReadBufferLen returns how many bytes behind the read cursor remain
// available for a backward buffered seek.
func (s *Stream) ReadBufferLen() int {
	unread := s.UnreadBufferLen()
	buffered := len(s.ring)
	if int(s.relPos) < buffered {
		buffered = int(s.relPos)
	}
	return buffered - unread
}

// EnsureSeekbackBuffer grows the ring, if necessary, so that at least len
// bytes of backward buffered seek are always available.
func (s *Stream) EnsureSeekbackBuffer(length int) {
	ringLen := len(s.ring)
	want := maxBlockLen + length
	newLen := 1 << bits.Len(uint(want-1))
	if ringLen >= newLen {
		return
	}

	newRing := make([]byte, newLen)
	var total int
	if s.writePos >= s.readPos {
		total = copy(newRing, s.ring[s.readPos:s.writePos])
	} else {
		n0 := copy(newRing, s.ring[s.readPos:])
		total = n0 + copy(newRing[n0:], s.ring[:s.writePos])
	}
	s.ring = newRing
	s.mask = newLen - 1
	s.readPos = 0
	s.writePos = total
}

// SeekBufferedRel moves the read cursor by delta bytes (positive: forward,
// negative: backward), which must land within the currently buffered window.
// The new absolute position is returned.
func (s *Stream) SeekBufferedRel(delta int64) int64 {
	s.readPos = (s.readPos + int(delta)) & s.mask
	return s.Pos()
}

// SeekBuffered moves the read cursor to the absolute position pos without
// touching the underlying source. pos must be within the buffered window.
func (s *Stream) SeekBuffered(pos uint64) int64 {
	delta := int64(pos) - s.Pos()
	return s.SeekBufferedRel(delta)
}

// SeekReal performs a real seek on the underlying source (when it implements
// io.Seeker) and resets the ring buffer and position accounting.
func (s *Stream) SeekReal(offset int64, whence int) (int64, error) {
	seeker, ok := s.src.(io.Seeker)
	if !ok {
		return 0, errors.New("bufseekio: source is not seekable")
	}

	if whence == io.SeekCurrent {
		offset -= int64(s.UnreadBufferLen())
	}

	pos, err := seeker.Seek(offset, whence)
	if err != nil {
		return 0, err
	}

	s.reset(uint64(pos))
	return pos, nil
}

// IsSeekable reports whether the underlying source supports SeekReal.
func (s *Stream) IsSeekable() bool { return s.src.IsSeekable() }

// ByteLen reports the total byte length of the source, if known.
func (s *Stream) ByteLen() (int64, bool) { return s.src.ByteLen() }
