// Package voice owns the bot's single voice connection in the guild and the
// idle/playing state of its player.
//
// A Session moves Disconnected → Idle → Playing → Idle → … → Disconnected.
// Only one clip plays at a time; a play request while another is in flight is
// rejected, never queued. Each play pushes the idle deadline forward, and
// CheckIdle tears the connection down once the deadline has passed.
package voice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/glizzus/goonbot/internal/apperr"
)

const DefaultIdleTimeout = time.Hour

// Conn is an established voice connection.
type Conn interface {
	ChannelID() string
	Speaking(bool) error
	OpusSend() chan<- []byte
	Disconnect() error
}

// Joiner joins (or moves) the bot to a voice channel in a guild.
type Joiner interface {
	Join(guildID, channelID string) (Conn, error)
}

// Streamer plays the audio file at path into conn at volume percent and
// returns when playback is over.
type Streamer func(ctx context.Context, conn Conn, path string, volume int) error

type Session struct {
	guildID     string
	joiner      Joiner
	stream      Streamer
	idleTimeout time.Duration
	now         func() time.Time
	onStart     func(path string)
	onDone      func(path string, err error)

	mu           sync.Mutex
	conn         Conn
	channelID    string
	ready        bool
	closed       bool
	idleDeadline time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Session)

func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.idleTimeout = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithPlaybackStart registers a callback that runs when a clip is accepted for
// playback. It runs under the session lock, ordered with WithPlaybackDone, and
// must not call back into the session.
func WithPlaybackStart(fn func(path string)) Option {
	return func(s *Session) {
		s.onStart = fn
	}
}

// WithPlaybackDone registers a callback that runs after a clip finishes or
// fails, once the session is idle again. It runs under the session lock and
// must not call back into the session.
func WithPlaybackDone(fn func(path string, err error)) Option {
	return func(s *Session) {
		s.onDone = fn
	}
}

func NewSession(guildID string, joiner Joiner, stream Streamer, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		guildID:     guildID,
		joiner:      joiner,
		stream:      stream,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		ready:       true,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect joins channelID, replacing the current connection if it is
// elsewhere. Connecting to the channel the session is already in is a no-op.
func (s *Session) Connect(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}
	_, err := s.connectLocked(channelID)
	return err
}

func (s *Session) connectLocked(channelID string) (Conn, error) {
	if s.conn != nil && s.conn.ChannelID() == channelID {
		s.channelID = channelID
		return s.conn, nil
	}

	conn, err := s.joiner.Join(s.guildID, channelID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConnection {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindConnection, err, "unable to join the voice channel %s", channelID)
	}
	s.conn = conn
	s.channelID = channelID
	return conn, nil
}

// Play connects to channelID and starts playing path in the background.
// It returns a Busy error if a clip is already playing.
func (s *Session) Play(channelID, path string, volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}
	if !s.ready {
		return apperr.Busy("the audio player isn't ready yet, it may be playing a command already")
	}

	conn, err := s.connectLocked(channelID)
	if err != nil {
		return err
	}

	s.ready = false
	s.idleDeadline = s.now().Add(s.idleTimeout)

	if s.onStart != nil {
		s.onStart(path)
	}

	slog.Debug("Starting playback", "path", path, "channelID", channelID, "volume", volume)
	go s.run(conn, path, volume)
	return nil
}

func (s *Session) run(conn Conn, path string, volume int) {
	err := s.stream(s.ctx, conn, path, volume)
	if err != nil {
		slog.Error("Playback failed", "path", path, "error", err)
	} else {
		slog.Info("Playback finished, the audio player is now idle", "path", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	if s.onDone != nil {
		s.onDone(path, err)
	}
}

// CheckIdle disconnects the voice connection if the idle deadline has passed.
// It reports whether a disconnect happened.
func (s *Session) CheckIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.now().After(s.idleDeadline) {
		return false
	}

	slog.Info("Disconnecting idle voice connection", "channelID", s.channelID)
	if err := s.conn.Disconnect(); err != nil {
		slog.Error("failed to disconnect", "error", err)
	}
	s.conn = nil
	s.channelID = ""
	return true
}

// TrackChannel records the channel the bot's own account is in, as reported by
// Discord. An empty channelID means the bot left voice, so the connection is
// forgotten and the next play joins again.
func (s *Session) TrackChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelID = channelID
	if channelID == "" {
		s.conn = nil
	}
}

// ChannelID is the channel the bot is currently in, or "".
func (s *Session) ChannelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID
}

// Ready reports whether the session is idle and can accept a play request.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready && !s.closed
}

func (s *Session) IdleDeadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idleDeadline
}

// Close stops any playback, disconnects, and rejects all later requests.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Disconnect()
	s.conn = nil
	s.channelID = ""
	return err
}

func errClosed() error {
	return apperr.New(apperr.KindConnection, "the voice session has been closed")
}
