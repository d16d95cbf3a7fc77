package host

import (
	"encoding/binary"
	"math"
	"sync"
)

// MonoSource renders mono samples.
type MonoSource interface {
	Render(dst []float32)
}

// StereoReader serves a mono source as interleaved little-endian float32
// stereo, the layout audio players consume.
type StereoReader struct {
	mu  sync.Mutex
	src MonoSource
	buf []float32
}

// NewStereoReader returns a reader pulling from src.
func NewStereoReader(src MonoSource) *StereoReader {
	return &StereoReader{src: src}
}

// Read fills whole stereo frames and never ends.
func (r *StereoReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([]float32, frames)
	}
	r.buf = r.buf[:frames]
	r.src.Render(r.buf)
	for i, v := range r.buf {
		u := math.Float32bits(v)
		binary.LittleEndian.PutUint32(p[i*8:], u)
		binary.LittleEndian.PutUint32(p[i*8+4:], u)
	}
	return frames * 8, nil
}
