package opus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFramesRoundTrip(t *testing.T) {
	frames := [][]byte{{0x01, 0x02}, {}, bytes.Repeat([]byte{0xff}, 300)}

	var buf bytes.Buffer
	for _, f := range frames {
		if err := writeFrame(&buf, f); err != nil {
			t.Fatalf("writeFrame returned error: %v", err)
		}
	}

	send := make(chan []byte, len(frames))
	if err := StreamToVoice(context.Background(), NewFrameReader(&buf), send); err != nil {
		t.Fatalf("StreamToVoice returned error: %v", err)
	}
	close(send)

	var got [][]byte
	for f := range send {
		got = append(got, f)
	}
	if diff := cmp.Diff(frames, got); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamToVoiceStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	_ = writeFrame(&buf, []byte{0x01})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := StreamToVoice(ctx, NewFrameReader(&buf), make(chan []byte))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("StreamToVoice error = %v, want context.Canceled", err)
	}
}

func TestEncodeArgsVolume(t *testing.T) {
	tests := []struct {
		volume int
		want   string
	}{
		{volume: 100, want: "volume=1.00"},
		{volume: 60, want: "volume=0.60"},
		{volume: 0, want: "volume=0.00"},
	}

	for _, tt := range tests {
		args := encodeArgs("/audio/hai.mp3", tt.volume)
		found := false
		for i, arg := range args {
			if arg == "-filter:a" && i+1 < len(args) && args[i+1] == tt.want {
				found = true
			}
		}
		if !found {
			t.Errorf("encodeArgs(%d) missing filter %q in %v", tt.volume, tt.want, args)
		}
		if args[1] != "/audio/hai.mp3" {
			t.Errorf("encodeArgs input = %q, want the audio path", args[1])
		}
	}
}

func TestFrameReader(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		wantFrames [][]byte
		wantErr    error
	}{
		{
			name:       "clean end",
			input:      []byte{0x02, 0x00, 0xaa, 0xbb},
			wantFrames: [][]byte{{0xaa, 0xbb}},
			wantErr:    io.EOF,
		},
		{
			name:       "truncated frame",
			input:      []byte{0x01, 0x00, 0xaa, 0x03, 0x00, 0xbb},
			wantFrames: [][]byte{{0xaa}},
			wantErr:    io.ErrUnexpectedEOF,
		},
		{
			name:    "oversized frame",
			input:   []byte{0xff, 0xff},
			wantErr: ErrFrameTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFrameReader(bytes.NewReader(tt.input))
			var got [][]byte
			var err error
			for {
				var frame []byte
				frame, err = r.ReadFrame()
				if err != nil {
					break
				}
				got = append(got, frame)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadFrame error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.wantFrames, got); diff != "" {
				t.Errorf("frames mismatch (-want +got):\n%s", diff)
			}
			if r.Frames() != len(tt.wantFrames) {
				t.Errorf("Frames() = %d, want %d", r.Frames(), len(tt.wantFrames))
			}
		})
	}
}
