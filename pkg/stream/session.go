// Package stream turns a log file into an ordered sequence of frames for one
// connected client.
package stream

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
	"github.com/DeBrosOfficial/logstream/pkg/logsource"
)

// State is the lifecycle position of a Session.
type State int32

const (
	StateReplay State = iota
	StateLive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReplay:
		return "replay"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Emitter delivers one frame to the client. A non-nil error means the client
// can no longer be written to and ends the session.
type Emitter func(Frame) error

// Options tune the live loop. Zero values fall back to the defaults.
type Options struct {
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	Clock             clock.Clock
	Logger            *logging.ColoredLogger
}

const (
	DefaultPollInterval      = 500 * time.Millisecond
	DefaultHeartbeatInterval = 10 * time.Second
)

// Session streams one log source to one client.
type Session struct {
	id     string
	source *logsource.Source
	clock  clock.Clock
	logger *logging.ColoredLogger

	poll           time.Duration
	heartbeatTicks int

	state atomic.Int32
}

// NewSession creates a session in the replay state. Run starts it.
func NewSession(source *logsource.Source, opts Options) *Session {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	ticks := int(opts.HeartbeatInterval / opts.PollInterval)
	if ticks < 1 {
		ticks = 1
	}

	id := uuid.New().String()
	return &Session{
		id:             id,
		source:         source,
		clock:          opts.Clock,
		logger:         opts.Logger.With(zap.String("session_id", id)),
		poll:           opts.PollInterval,
		heartbeatTicks: ticks,
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Run replays the backlog and then follows the file until ctx is cancelled,
// emit fails, or reading fails. Cancellation and emit failures are a normal
// end and return nil. Open and read failures send one Error frame and are
// returned.
func (s *Session) Run(ctx context.Context, emit Emitter) error {
	defer s.setState(StateClosed)
	s.setState(StateReplay)

	// Not fatal: Open reports the real problem if the file is still missing.
	_ = s.source.EnsureExists()

	tailer, err := s.source.Open()
	if err != nil {
		return s.fail(emit, err)
	}
	defer tailer.Close()

	lines, err := tailer.Backlog()
	if err != nil {
		return s.fail(emit, err)
	}
	s.logger.ComponentDebug(logging.ComponentStream, "Replaying backlog", zap.Int("lines", len(lines)))

	for _, line := range lines {
		if ctx.Err() != nil {
			return s.disconnected(ctx.Err())
		}
		if err := emit(Frame{Kind: BacklogLine, Data: line}); err != nil {
			return s.disconnected(err)
		}
	}
	if err := emit(Frame{Kind: BacklogEnd}); err != nil {
		return s.disconnected(err)
	}

	s.setState(StateLive)
	return s.follow(ctx, tailer, emit)
}

func (s *Session) follow(ctx context.Context, tailer *logsource.Tailer, emit Emitter) error {
	idle := 0
	for {
		if ctx.Err() != nil {
			return s.disconnected(ctx.Err())
		}

		line, ok, err := tailer.Next()
		if err != nil {
			return s.fail(emit, err)
		}
		if ok {
			if err := emit(Frame{Kind: Line, Data: line}); err != nil {
				return s.disconnected(err)
			}
			idle = 0
			continue
		}

		select {
		case <-ctx.Done():
			return s.disconnected(ctx.Err())
		case <-s.clock.After(s.poll):
		}
		idle++

		if _, err := tailer.CheckRotation(); err != nil {
			return s.fail(emit, err)
		}

		if idle >= s.heartbeatTicks {
			if err := emit(Frame{Kind: Heartbeat}); err != nil {
				return s.disconnected(err)
			}
			idle = 0
		}
	}
}

func (s *Session) disconnected(cause error) error {
	s.logger.ComponentInfo(logging.ComponentStream, "Client disconnected from stream",
		zap.String("reason", cause.Error()))
	return nil
}

// fail sends the single Error frame. The emit error is ignored: the session
// is ending either way.
func (s *Session) fail(emit Emitter, err error) error {
	code := lserrors.GetErrorCode(err)
	s.logger.ComponentError(logging.ComponentStream, "Stream error",
		zap.String("code", code),
		zap.String("category", string(lserrors.GetCategory(code))),
		zap.Bool("retryable", lserrors.IsRetryable(code)),
		zap.Error(err),
		zap.NamedError("cause", lserrors.Cause(err)))
	_ = emit(Frame{Kind: Error, Data: err.Error()})
	return err
}
