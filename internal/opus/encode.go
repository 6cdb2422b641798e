package opus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/jonas747/ogg"
)

// encodeArgs builds the FFmpeg arguments that transcode path to Ogg/Opus with
// a gain of volume/100 applied.
func encodeArgs(path string, volume int) []string {
	gain := strconv.FormatFloat(float64(volume)/100, 'f', 2, 64)
	return []string{
		"-i", path,
		"-vn",
		"-map", "0:a",
		"-filter:a", "volume=" + gain,
		"-acodec", "libopus",
		"-f", "ogg",
		"-vbr", "on",
		"-compression_level", "10",
		"-ar", "48000",
		"-ac", "2",
		"-b:a", "64000",
		"-application", "audio",
		"-frame_duration", "20",
		"-packet_loss", "1",
		"-threads", "0",
		"pipe:1",
	}
}

// EncodeFile runs FFmpeg on the audio file at path and returns an io.Reader
// that produces length-prefixed Opus frames at the given volume percentage.
// The caller should read until EOF. The returned io.ReadCloser must be closed
// to clean up the FFmpeg process.
func EncodeFile(ctx context.Context, ffmpegPath, path string, volume int) (io.ReadCloser, error) {
	ffmpeg := exec.CommandContext(ctx, ffmpegPath, encodeArgs(path, volume)...)

	stdout, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("unable to pipe output of ffmpeg: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, fmt.Errorf("unable to start ffmpeg process: %w", err)
	}

	pr, pw := io.Pipe()

	go func() {
		defer pw.Close()
		defer ffmpeg.Wait()

		decoder := ogg.NewPacketDecoder(ogg.NewDecoder(stdout))

		// Skip the first 2 OGG metadata packets.
		skip := 2
		for {
			packet, _, err := decoder.Decode()
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
					pw.CloseWithError(err)
				}
				return
			}
			if skip > 0 {
				skip--
				continue
			}

			if err := writeFrame(pw, packet); err != nil {
				return
			}
		}
	}()

	return &encodeCloser{ReadCloser: pr, cmd: ffmpeg}, nil
}

func writeFrame(w io.Writer, frame []byte) error {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(frame)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

// encodeCloser wraps the pipe reader and ensures the FFmpeg process is cleaned up.
type encodeCloser struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (e *encodeCloser) Close() error {
	err := e.ReadCloser.Close()
	// Kill FFmpeg if still running (e.g. pipe closed early).
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()
	return err
}
