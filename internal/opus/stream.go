package opus

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrVoiceConnClosed = errors.New("voice connection send timeout")

const sendTimeout = time.Minute

// StreamToVoice reads Opus frames from source and sends them to a voice
// connection's Opus channel. It blocks until all frames are sent, ctx is done,
// or an error occurs. Returns nil on clean EOF.
func StreamToVoice(ctx context.Context, source *FrameReader, send chan<- []byte) error {
	for {
		frame, err := source.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}

		timer := time.NewTimer(sendTimeout)
		select {
		case send <- frame:
			timer.Stop()
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			return ErrVoiceConnClosed
		}
	}
}
