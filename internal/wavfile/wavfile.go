// Package wavfile writes IEEE float WAV files for offline renders.
package wavfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const headerSize = 44

// EncodeFloat32 returns a 32-bit float WAV image of interleaved samples.
func EncodeFloat32(samples []float32, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav sample rate must be > 0: %d", sampleRate)
	}
	if channels <= 0 || channels > math.MaxUint16 {
		return nil, fmt.Errorf("wav channels out of range: %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("wav sample count %d is not a multiple of %d channels", len(samples), channels)
	}
	dataSize := len(samples) * 4
	if uint64(dataSize)+headerSize-8 > math.MaxUint32 {
		return nil, fmt.Errorf("wav data too large: %d bytes", dataSize)
	}

	out := make([]byte, headerSize+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(headerSize-8+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3) // WAVE_FORMAT_IEEE_FLOAT
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*channels*4))
	binary.LittleEndian.PutUint16(out[32:], uint16(channels*4))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[headerSize+i*4:], math.Float32bits(s))
	}
	return out, nil
}

// Write encodes samples to w.
func Write(w io.Writer, samples []float32, sampleRate, channels int) error {
	data, err := EncodeFloat32(samples, sampleRate, channels)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// WriteFile encodes samples to path.
func WriteFile(path string, samples []float32, sampleRate, channels int) error {
	data, err := EncodeFloat32(samples, sampleRate, channels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}
