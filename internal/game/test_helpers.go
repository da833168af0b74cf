package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// TestSessionOption configures test session creation
type TestSessionOption func(*testSessionBuilder)

type testSessionBuilder struct {
	config Config
	opts   []Option
}

// Test session options
func WithSeed(seed int64) TestSessionOption {
	return func(b *testSessionBuilder) {
		b.config.Seed = seed
		b.config.Shuffle = true
	}
}

func WithPlayers(players int) TestSessionOption {
	return func(b *testSessionBuilder) { b.config.Players = players }
}

func WithOwnSeat(seat int) TestSessionOption {
	return func(b *testSessionBuilder) { b.config.OwnSeat = seat }
}

func WithCopies(copies int) TestSessionOption {
	return func(b *testSessionBuilder) { b.config.Copies = copies }
}

func WithNames(names ...string) TestSessionOption {
	return func(b *testSessionBuilder) { b.config.Names = names }
}

func WithSessionOptions(opts ...Option) TestSessionOption {
	return func(b *testSessionBuilder) { b.opts = append(b.opts, opts...) }
}

// NewTestSession creates a session for testing with sensible defaults: two
// players, one catalog copy, dealt unshuffled in catalog order.
func NewTestSession(opts ...TestSessionOption) *Session {
	builder := &testSessionBuilder{
		config: Config{
			Players: 2,
			Copies:  1,
		},
		opts: []Option{WithLogger(log.New(io.Discard))},
	}

	for _, opt := range opts {
		opt(builder)
	}

	s, err := NewSession(builder.config, builder.opts...)
	if err != nil {
		panic(fmt.Sprintf("creating test session: %v", err))
	}
	return s
}

// EventRecorder is a subscriber that keeps every event it receives
type EventRecorder struct {
	Events []GameEvent
}

// OnEvent records the event
func (r *EventRecorder) OnEvent(event GameEvent) {
	r.Events = append(r.Events, event)
}

// StateChanges returns the recorded state transitions in order
func (r *EventRecorder) StateChanges() []StateChangedEvent {
	var out []StateChangedEvent
	for _, e := range r.Events {
		if sc, ok := e.(StateChangedEvent); ok {
			out = append(out, sc)
		}
	}
	return out
}

// Reset forgets every recorded event
func (r *EventRecorder) Reset() {
	r.Events = nil
}

// PlayRound has every player select hand index choice and then lets each
// picker in priority order take the first row card. It returns the first
// error encountered.
func PlayRound(s *Session, choice int) error {
	for _, p := range s.Players() {
		if p.HasSelection() {
			continue
		}
		if err := s.Submit(Decision{State: Play, Player: p.Seat, Choice: choice}); err != nil {
			return err
		}
	}
	for s.State() == Pick {
		picker := s.NextPicker()
		if picker < 0 {
			return fmt.Errorf("pick stalled in round %d", s.Round())
		}
		if err := s.Submit(Decision{State: Pick, Player: picker, Choice: 0}); err != nil {
			return err
		}
	}
	return nil
}
