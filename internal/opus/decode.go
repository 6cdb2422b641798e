package opus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single packet. FFmpeg emits 20ms packets at 64kbps,
// far below this.
const MaxFrameSize = 4000

var ErrFrameTooLarge = errors.New("opus frame exceeds maximum size")

// FrameReader reads the length-prefixed frames written by EncodeFile.
type FrameReader struct {
	r      io.Reader
	frames int
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadFrame returns the next frame, or io.EOF once the stream ends on a frame
// boundary. A stream cut inside a frame yields io.ErrUnexpectedEOF.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	var header [2]byte
	if _, err := io.ReadFull(f.r, header[:]); err != nil {
		return nil, err
	}

	size := binary.LittleEndian.Uint16(header[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	frame := make([]byte, size)
	if _, err := io.ReadFull(f.r, frame); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	f.frames++
	return frame, nil
}

// Frames is the number of complete frames read so far.
func (f *FrameReader) Frames() int {
	return f.frames
}
