package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-enhance/internal/enhance"
	"github.com/ironsheep/image-enhance/internal/raster"
)

var (
	// ErrNotLoaded is returned by operations that need an image when none
	// has been loaded yet.
	ErrNotLoaded = errors.New("no image loaded")

	// ErrBusy is returned when a mutating call is made while another one is
	// still running.
	ErrBusy = errors.New("session is busy")
)

// State is the lifecycle state of a Session.
type State int

const (
	Empty State = iota
	Loaded
	Modified
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	case Modified:
		return "modified"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state by name in JSON and TOML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty":
		*s = Empty
	case "loaded":
		*s = Loaded
	case "modified":
		*s = Modified
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

// Session holds the original and current buffers of one image.
type Session struct {
	busy atomic.Bool

	mu       sync.RWMutex
	original *raster.Buffer
	current  *raster.Buffer
	dirty    bool
	history  []enhance.Op
	defaults enhance.Params
}

// New returns an empty session whose operations use defaults when called
// without explicit parameters.
func New(defaults enhance.Params) *Session {
	return &Session{defaults: defaults.Clone()}
}

// acquire marks the session busy for the duration of a mutating call.
func (s *Session) acquire(call string) error {
	if !s.busy.CompareAndSwap(false, true) {
		log.WithField("call", call).Debug("session busy, rejecting call")
		return ErrBusy
	}
	return nil
}

func (s *Session) release() {
	s.busy.Store(false)
}

// Load replaces both the original and the current buffer with buf and
// clears the modified flag. Buffers are immutable, so buf is shared rather
// than copied.
func (s *Session) Load(buf *raster.Buffer) error {
	if buf == nil {
		return &raster.ShapeError{Op: "load", Detail: "nil buffer"}
	}
	if err := s.acquire("load"); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	prev := s.stateLocked()
	s.original = buf
	s.current = buf
	s.dirty = false
	s.history = nil
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"from": prev,
		"size": fmt.Sprintf("%dx%dx%d", buf.Width(), buf.Height(), buf.Channels()),
	}).Debug("image loaded")
	return nil
}

// Apply runs op on the current buffer and makes the result current.
// A nil params uses the session defaults.
//
// The operation runs without holding the state lock so accessors stay
// responsive; the result is committed only if it succeeds.
//
// # Errors
//
//   - ErrNotLoaded in the Empty state
//   - ErrBusy if another mutating call is running
//   - any error of enhance.Apply; the state is unchanged
func (s *Session) Apply(op enhance.Op, params *enhance.Params) (*raster.Buffer, error) {
	if err := s.acquire("apply"); err != nil {
		return nil, err
	}
	defer s.release()

	s.mu.RLock()
	cur := s.current
	p := s.defaults
	s.mu.RUnlock()

	if cur == nil {
		return nil, ErrNotLoaded
	}
	if params != nil {
		p = *params
	}

	out, err := enhance.Apply(op, cur, p)
	if err != nil {
		log.WithError(err).WithField("op", op).Debug("operation failed")
		return nil, fmt.Errorf("apply %s: %w", op, err)
	}

	s.mu.Lock()
	s.current = out
	s.dirty = true
	s.history = append(s.history, op)
	s.mu.Unlock()

	log.WithFields(log.Fields{"op": op, "channels": out.Channels()}).Debug("operation applied")
	return out, nil
}

// Restore resets the current buffer to the original and clears the
// modified flag. It does nothing in the Empty and Loaded states.
func (s *Session) Restore() error {
	if err := s.acquire("restore"); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	s.current = s.original
	s.dirty = false
	s.history = nil
	log.Debug("image restored")
	return nil
}

// Export returns the current buffer for saving or display.
func (s *Session) Export() (*raster.Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// State reports the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.original == nil:
		return Empty
	case s.dirty:
		return Modified
	}
	return Loaded
}

// Dirty reports whether operations were applied since the last Load or
// Restore.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Busy reports whether a mutating call is running.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Original returns the buffer captured by the last Load, or nil.
func (s *Session) Original() *raster.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original
}

// Current returns the current buffer, or nil.
func (s *Session) Current() *raster.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// History lists the operations applied since the last Load or Restore.
func (s *Session) History() []enhance.Op {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]enhance.Op(nil), s.history...)
}

// Defaults returns a copy of the parameters used when Apply gets nil.
func (s *Session) Defaults() enhance.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults.Clone()
}

// Snapshot is a consistent view of a session for reporting.
type Snapshot struct {
	State    State        `json:"state"`
	Dirty    bool         `json:"dirty"`
	Busy     bool         `json:"busy"`
	Width    int          `json:"width,omitempty"`
	Height   int          `json:"height,omitempty"`
	Channels int          `json:"channels,omitempty"`
	History  []enhance.Op `json:"history"`
}

// Snapshot returns the state, flags and current dimensions in one read.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		State:   s.stateLocked(),
		Dirty:   s.dirty,
		Busy:    s.busy.Load(),
		History: append([]enhance.Op{}, s.history...),
	}
	if s.current != nil {
		snap.Width = s.current.Width()
		snap.Height = s.current.Height()
		snap.Channels = s.current.Channels()
	}
	return snap
}
