// Package flac provides access to FLAC (Free Lossless Audio Codec) streams.
package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pchchv/audiocore/flac/frame"
	"github.com/pchchv/audiocore/flac/internal/flacframe"
	"github.com/pchchv/audiocore/flac/meta"
	"github.com/pchchv/audiocore/internal/bufseekio"
)

var (
	flacSignature  = []byte("fLaC")                                                 // marks the beginning of a FLAC stream
	id3Signature   = []byte("ID3")                                                  // marks the beginning of an ID3 stream, used to skip over ID3 data
	ErrNoSeektable = errors.New("stream.searchFromStart: no seektable exists")      // seektable has not been created (search in the thread is impossible)
	ErrNoSeeker    = errors.New("stream.Seek: reader does not implement io.Seeker") // flac.NewSeek was called using io.Reader, which does not implement io.Seeker
)

// Stream contains the metadata blocks and
// provides access to the audio frames of a FLAC stream.
type Stream struct {
	// The StreamInfo metadata block describes
	// the basic properties of the FLAC audio stream.
	Info *meta.StreamInfo
	// Zero or more metadata blocks.
	Blocks []*meta.Block
	// seekTable contains one or
	// more pre-calculated audio frame seek points of the stream;
	// nil if uninitialized. Built lazily on the first call to Seek by
	// scanning every frame, unless a SeekTable metadata block was already
	// parsed into Blocks.
	seekTable *meta.SeekTable
	// dataStart is the offset of the
	// first frame header since SeekPoint.Offset
	// is relative to this position.
	dataStart int64
	// r is the buffered, backward-seekable view over the underlying source
	// that every read in this package goes through.
	r *bufseekio.Stream
	// closer is the underlying source, if it implements io.Closer.
	closer io.Closer
	// parser recombines audio frame packets from r once Info is known.
	parser flacframe.PacketParser
}

// New creates a new Stream for accessing the audio samples of r.
// It reads and parses the FLAC signature and the StreamInfo metadata block,
// but skips all other metadata blocks.
//
// Call Stream.Next to parse the frame header of the next audio frame,
// and call Stream.ParseNext to parse the entire next frame including audio samples.
func New(r io.Reader) (stream *Stream, err error) {
	stream = newStream(r)
	block, err := stream.parseStreamInfo()
	if err != nil {
		return nil, err
	}

	// skip the remaining metadata blocks.
	for !block.IsLast {
		block, err = meta.New(stream.r)
		if err != nil && err != meta.ErrReservedType {
			return stream, err
		}

		if err = block.Skip(); err != nil {
			return stream, err
		}
	}

	stream.dataStart = stream.r.Pos()
	return stream, nil
}

// NewSeek creates a new Stream for accessing the audio samples of r, for a
// seekable underlying source. It behaves like New, except that it returns
// ErrNoSeeker when r does not implement io.Seeker.
func NewSeek(r io.Reader) (stream *Stream, err error) {
	if _, ok := r.(io.Seeker); !ok {
		return nil, ErrNoSeeker
	}
	return New(r)
}

func newStream(r io.Reader) *Stream {
	closer, _ := r.(io.Closer)
	return &Stream{
		r:      bufseekio.NewStream(bufseekio.NewSource(r)),
		closer: closer,
	}
}

// Close closes the stream gracefully if the
// underlying io.Reader also implements the io.Closer interface.
func (stream *Stream) Close() error {
	if stream.closer != nil {
		return stream.closer.Close()
	}
	return nil
}

// Next parses the frame header of the next audio frame.
// It returns io.EOF to signal a graceful end of FLAC stream.
//
// Call Frame.Parse to parse the audio samples of its subframes.
func (stream *Stream) Next() (f *frame.Frame, err error) {
	pkt, err := stream.parser.Parse(stream.r)
	if err != nil {
		return nil, err
	}
	return frame.New(bytes.NewReader(pkt.Data))
}

// ParseNext parses the entire next frame including audio samples.
// Returns io.EOF to signal a graceful end of FLAC stream.
func (stream *Stream) ParseNext() (f *frame.Frame, err error) {
	pkt, err := stream.parser.Parse(stream.r)
	if err != nil {
		return nil, err
	}
	return frame.Parse(bytes.NewReader(pkt.Data))
}

// Seek seeks to the frame containing the given absolute sample number.
// The return value specifies the
// first sample number of the frame containing sampleNum.
func (stream *Stream) Seek(sampleNum uint64) (uint64, error) {
	if !stream.r.IsSeekable() {
		return 0, ErrNoSeeker
	}

	if stream.seekTable == nil {
		for _, block := range stream.Blocks {
			if st, ok := block.Body.(*meta.SeekTable); ok {
				stream.seekTable = st
				break
			}
		}
	}

	if stream.seekTable == nil {
		if err := stream.makeSeekTable(); err != nil {
			return 0, err
		}
	}

	isBiggerThanStream := stream.Info.NSamples != 0 && sampleNum >= stream.Info.NSamples
	if isBiggerThanStream {
		return 0, fmt.Errorf("unable to seek to sample number %d", sampleNum)
	}

	point, err := stream.searchFromStart(sampleNum)
	if err != nil {
		return 0, err
	}

	if _, err := stream.r.SeekReal(stream.dataStart+int64(point.Offset), io.SeekStart); err != nil {
		return 0, err
	}
	stream.parser.Reset(*stream.Info)

	for {
		// record seek offset to start of frame
		offset := stream.r.Pos()

		fr, err := stream.ParseNext()
		if err != nil {
			return 0, err
		}

		if fr.SampleNumber()+uint64(fr.BlockSize) > sampleNum {
			// restore seek offset to the start of the frame containing the specified sample number
			_, err := stream.r.SeekReal(offset, io.SeekStart)
			stream.parser.Reset(*stream.Info)
			return fr.SampleNumber(), err
		}
	}
}

// skipID3v2 skips ID3v2 data prepended to flac files.
func (stream *Stream) skipID3v2() error {
	r := stream.r
	// discard unnecessary data from the ID3v2 header.
	if err := r.IgnoreBytes(2); err != nil {
		return err
	}

	// read the size from the ID3v2 header.
	var sizeBuf [4]byte
	if err := r.ReadFull(sizeBuf[:]); err != nil {
		return err
	}

	// size is encoded as a synchsafe integer.
	size := int(sizeBuf[0])<<21 | int(sizeBuf[1])<<14 | int(sizeBuf[2])<<7 | int(sizeBuf[3])
	return r.IgnoreBytes(uint64(size))
}

// parseStreamInfo verifies the signature which marks the beginning of a FLAC stream,
// and parses the StreamInfo metadata block.
// It returns the parsed block, whose IsLast field specifies if the
// StreamInfo block was the last metadata block of the FLAC stream.
func (stream *Stream) parseStreamInfo() (block *meta.Block, err error) {
	// verify FLAC signature.
	r := stream.r
	var buf [4]byte
	if err = r.ReadFull(buf[:]); err != nil {
		return block, err
	}

	// skip prepended ID3v2 data.
	if bytes.Equal(buf[:3], id3Signature) {
		if err := stream.skipID3v2(); err != nil {
			return block, err
		}

		// second attempt at verifying signature.
		if err = r.ReadFull(buf[:]); err != nil {
			return block, err
		}
	}

	if !bytes.Equal(buf[:], flacSignature) {
		return block, fmt.Errorf("flac.parseStreamInfo: invalid FLAC signature; expected %q, got %q", flacSignature, buf)
	}

	// parse StreamInfo metadata block.
	block, err = meta.Parse(r)
	if err != nil {
		return block, err
	}

	si, ok := block.Body.(*meta.StreamInfo)
	if !ok {
		return block, fmt.Errorf("flac.parseStreamInfo: incorrect type of first metadata block; expected *meta.StreamInfo, got %T", block.Body)
	}

	stream.Info = si
	stream.parser.Reset(*si)
	return block, nil
}

// searchFromStart searches the seek table for the last seek point whose
// sample number does not exceed sampleNum; the frame it points at is
// guaranteed to contain sampleNum unless sampleNum lies beyond the last
// seek point's frame.
func (stream *Stream) searchFromStart(sampleNum uint64) (meta.SeekPoint, error) {
	points := stream.seekTable.Points
	if len(points) == 0 {
		return meta.SeekPoint{}, ErrNoSeektable
	}

	best := points[0]
	for _, p := range points {
		if p.SampleNum > sampleNum {
			break
		}
		best = p
	}

	return best, nil
}

// makeSeekTable creates a seek table with seek points to
// each frame of the FLAC stream.
func (stream *Stream) makeSeekTable() (err error) {
	if !stream.r.IsSeekable() {
		return ErrNoSeeker
	}

	pos := stream.r.Pos()

	if _, err := stream.r.SeekReal(stream.dataStart, io.SeekStart); err != nil {
		return err
	}
	stream.parser.Reset(*stream.Info)

	var sampleNum uint64
	var points []meta.SeekPoint
	for {
		// record seek offset to start of frame
		off := stream.r.Pos()

		f, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		points = append(points, meta.SeekPoint{
			SampleNum: sampleNum,
			Offset:    uint64(off - stream.dataStart),
			NSamples:  f.BlockSize,
		})
		sampleNum += uint64(f.BlockSize)
	}

	stream.seekTable = &meta.SeekTable{Points: points}
	_, err = stream.r.SeekReal(pos, io.SeekStart)
	stream.parser.Reset(*stream.Info)
	return err
}

// Parse creates a new Stream for accessing the metadata blocks and audio samples of r.
// It reads and parses the FLAC signature and all metadata blocks.
//
// Call Stream.Next to parse the frame header of the next audio frame,
// and call Stream.ParseNext to parse the entire next frame including audio samples.
func Parse(r io.Reader) (stream *Stream, err error) {
	stream = newStream(r)
	block, err := stream.parseStreamInfo()
	if err != nil {
		return nil, err
	}

	// parse the remaining metadata blocks.
	for !block.IsLast {
		block, err = meta.Parse(stream.r)
		if err != nil {
			if err != meta.ErrReservedType {
				return stream, err
			}
			// skip the body of unknown (reserved) metadata blocks,
			// as stated by the specification.
			if err = block.Skip(); err != nil {
				return stream, err
			}
		}
		stream.Blocks = append(stream.Blocks, block)
	}

	stream.dataStart = stream.r.Pos()
	return stream, nil
}

// ParseFile creates a new Stream for accessing the
// metadata blocks and audio samples of path.
// It reads and parses the FLAC signature and all metadata blocks.
//
// Call Stream.Next to parse the frame header of the next audio frame,
// and call Stream.ParseNext to parse the
// entire next frame including audio samples.
//
// Note: Close method of the stream must be called when finished using it.
func ParseFile(path string) (stream *Stream, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stream, err = Parse(f)
	if err != nil {
		return nil, err
	}

	return
}

// Open creates a new Stream for accessing the audio samples of path.
// It reads and parses the FLAC signature and the StreamInfo metadata block,
// but skips all other metadata blocks.
//
// Call Stream.Next to parse the frame header of the next audio frame,
// and call Stream.ParseNext to parse the entire next frame including audio samples.
//
// Note: The Close method of the stream must be called when finished using it.
func Open(path string) (stream *Stream, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stream, err = NewSeek(f)
	if err != nil {
		return nil, err
	}

	return
}
