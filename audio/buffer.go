package audio

import "fmt"

// Buffer owns one contiguous sample vector ("plane") per channel, all of
// equal capacity. The first NumFrames() samples of every plane are valid;
// the remainder is allocated but considered uninitialized until rendered.
// Capacity never changes except by an explicit call to GrowCapacity.
type Buffer[S Sample] struct {
	spec      Spec
	planes    [][]S
	numFrames int
	capacity  int
}

// New allocates a Buffer for spec with room for capacity frames on every
// plane. Every plane is allocated at full capacity, but NumFrames is 0
// until frames are rendered into the buffer.
func New[S Sample](spec Spec, capacity int) *Buffer[S] {
	n := spec.Channels.Count()
	planes := make([][]S, n)
	for i := range planes {
		planes[i] = make([]S, capacity)
	}
	return &Buffer[S]{spec: spec, planes: planes, capacity: capacity}
}

// Spec returns the buffer's sample-rate/channel-layout descriptor.
func (b *Buffer[S]) Spec() Spec { return b.spec }

// Capacity returns the number of frames every plane can hold.
func (b *Buffer[S]) Capacity() int { return b.capacity }

// NumFrames returns the number of valid frames currently in the buffer.
func (b *Buffer[S]) NumFrames() int { return b.numFrames }

// NumPlanes returns the number of channel planes in the buffer.
func (b *Buffer[S]) NumPlanes() int { return len(b.planes) }

// Clear resets NumFrames to 0 without releasing the underlying planes.
func (b *Buffer[S]) Clear() { b.numFrames = 0 }

// GrowCapacity reallocates every plane to hold at least newCapacity frames,
// preserving the valid prefix of each. It is a no-op if newCapacity does not
// exceed the current capacity.
func (b *Buffer[S]) GrowCapacity(newCapacity int) {
	if newCapacity <= b.capacity {
		return
	}
	for i, plane := range b.planes {
		grown := make([]S, newCapacity)
		copy(grown, plane[:b.numFrames])
		b.planes[i] = grown
	}
	b.capacity = newCapacity
}

// Plane returns the full-capacity backing slice for the plane at idx.
// Callers must respect NumFrames when reading; only the first NumFrames
// elements are valid.
func (b *Buffer[S]) Plane(idx int) []S { return b.planes[idx] }

// PlaneByPosition returns the plane corresponding to a named speaker
// position, for a Positioned Channels layout.
func (b *Buffer[S]) PlaneByPosition(pos Position) ([]S, bool) {
	idx, ok := b.spec.Channels.PlaneIndex(pos)
	if !ok {
		return nil, false
	}
	return b.planes[idx], true
}

// PlanePair returns the two planes at positions a and b, in that order, for
// a Positioned Channels layout.
func (b *Buffer[S]) PlanePair(a, bPos Position) ([]S, []S, bool) {
	pa, ok := b.PlaneByPosition(a)
	if !ok {
		return nil, nil, false
	}
	pb, ok := b.PlaneByPosition(bPos)
	if !ok {
		return nil, nil, false
	}
	return pa, pb, true
}

// Planes returns every plane's full backing slice, in canonical order.
func (b *Buffer[S]) Planes() [][]S { return b.planes }

// RenderSilence appends num frames of silence to the buffer. It panics if
// doing so would exceed Capacity, matching the precondition-violation
// semantics of a capacity overrun.
func (b *Buffer[S]) RenderSilence(num int) {
	b.checkRoom(num)
	silence := Silence[S]()
	for _, plane := range b.planes {
		for i := b.numFrames; i < b.numFrames+num; i++ {
			plane[i] = silence
		}
	}
	b.numFrames += num
}

// RenderWith appends num frames to the buffer by invoking f once per frame
// with the frame's per-plane slots; a frame is committed to NumFrames only
// after f returns nil for it. If f returns an error, rendering stops and
// every frame produced up to that point is committed; the error is
// returned to the caller.
func (b *Buffer[S]) RenderWith(num int, f func(frameIndex int, frame [][]S) error) error {
	b.checkRoom(num)
	frame := make([][]S, len(b.planes))
	committed := 0
	for i := 0; i < num; i++ {
		idx := b.numFrames + i
		for p, plane := range b.planes {
			frame[p] = plane[idx : idx+1 : idx+1]
		}
		if err := f(i, frame); err != nil {
			b.numFrames += committed
			return err
		}
		committed++
	}
	b.numFrames += committed
	return nil
}

// Render appends one frame, whose per-plane sample values are given in
// frame (indexed in canonical plane order).
func (b *Buffer[S]) Render(frame []S) {
	b.checkRoom(1)
	for p, plane := range b.planes {
		plane[b.numFrames] = frame[p]
	}
	b.numFrames++
}

// Truncate shrinks NumFrames to n, discarding any frames beyond it. It is a
// no-op if n >= NumFrames.
func (b *Buffer[S]) Truncate(n int) {
	if n < b.numFrames {
		b.numFrames = n
	}
}

// Trim removes start frames from the front and end frames from the back of
// the valid prefix, shifting the remainder down to index 0.
func (b *Buffer[S]) Trim(start, end int) {
	if start == 0 && end == 0 {
		return
	}
	keep := b.numFrames - start - end
	if keep < 0 {
		keep = 0
	}
	for i, plane := range b.planes {
		copy(plane, plane[start:start+keep])
		b.planes[i] = plane
	}
	b.numFrames = keep
}

// Shift discards the first n frames, shifting the remainder down to index
// 0; equivalent to Trim(n, 0).
func (b *Buffer[S]) Shift(n int) { b.Trim(n, 0) }

// CopyToSliceInterleaved writes the valid prefix of the buffer into dst as
// interleaved frames (dst must have room for NumFrames*NumPlanes samples).
func (b *Buffer[S]) CopyToSliceInterleaved(dst []S) int {
	n := b.numFrames * len(b.planes)
	if len(dst) < n {
		n = len(dst)
	}
	i := 0
	for f := 0; f < b.numFrames && i < n; f++ {
		for _, plane := range b.planes {
			if i >= n {
				break
			}
			dst[i] = plane[f]
			i++
		}
	}
	return i
}

// CopyFromSliceInterleaved reads interleaved frames from src and renders
// them into the buffer, growing NumFrames accordingly.
func (b *Buffer[S]) CopyFromSliceInterleaved(src []S) int {
	nPlanes := len(b.planes)
	num := len(src) / nPlanes
	b.checkRoom(num)
	for f := 0; f < num; f++ {
		for p, plane := range b.planes {
			plane[b.numFrames+f] = src[f*nPlanes+p]
		}
	}
	b.numFrames += num
	return num
}

// CopyToSlicePlanar writes the valid prefix of every plane into the
// corresponding slice of dst (one destination slice per plane).
func (b *Buffer[S]) CopyToSlicePlanar(dst [][]S) {
	for p, plane := range b.planes {
		if p >= len(dst) {
			return
		}
		copy(dst[p], plane[:b.numFrames])
	}
}

func (b *Buffer[S]) checkRoom(num int) {
	if b.numFrames+num > b.capacity {
		panic(fmt.Sprintf("audio: buffer overrun: %d frames requested, %d available", num, b.capacity-b.numFrames))
	}
}
