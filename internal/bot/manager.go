package bot

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/faraway/internal/game"
)

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithMaxRounds stops the bots from acting once the session has moved past
// the given round. Zero means no limit.
func WithMaxRounds(rounds int) ManagerOption {
	return func(m *Manager) { m.maxRounds = rounds }
}

// WithContext stops the bots from acting once ctx is done
func WithContext(ctx context.Context) ManagerOption {
	return func(m *Manager) { m.ctx = ctx }
}

// WithLogger sets the manager's logger
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// Manager drives the bot seats of a session. It listens for session events
// and answers each one with at most one decision; the event that decision
// produces triggers the next one, so a table of bots plays itself out from
// a single Start call.
type Manager struct {
	session   *game.Session
	bots      map[int]Strategy
	seats     []int
	maxRounds int
	ctx       context.Context
	logger    *log.Logger

	decisions int
	rejected  int
	started   bool
}

// NewManager creates a manager for session
func NewManager(session *game.Session, opts ...ManagerOption) *Manager {
	m := &Manager{
		session: session,
		bots:    make(map[int]Strategy),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.logger = m.logger.WithPrefix("bots")
	return m
}

// Add hands seat over to strategy
func (m *Manager) Add(seat int, strategy Strategy) error {
	if _, ok := m.session.Player(seat); !ok {
		return fmt.Errorf("%w: seat %d", game.ErrUnknownPlayer, seat)
	}
	if _, exists := m.bots[seat]; !exists {
		m.seats = append(m.seats, seat)
		sort.Ints(m.seats)
	}
	m.bots[seat] = strategy
	return nil
}

// Seats returns the seats controlled by bots in ascending order
func (m *Manager) Seats() []int {
	return append([]int(nil), m.seats...)
}

// Controls reports whether seat is played by a bot
func (m *Manager) Controls(seat int) bool {
	_, ok := m.bots[seat]
	return ok
}

// Start subscribes to the session and makes the first decision. With only
// bots at the table it returns once the game is over or stalled.
func (m *Manager) Start() {
	if !m.started {
		m.started = true
		m.session.Subscribe(m)
	}
	m.act()
}

// Stop unsubscribes from the session
func (m *Manager) Stop() {
	if m.started {
		m.session.EventBus().Unsubscribe(m)
		m.started = false
	}
}

// Done reports whether the round limit has been passed or the manager's
// context is done
func (m *Manager) Done() bool {
	if m.ctx.Err() != nil {
		return true
	}
	return m.maxRounds > 0 && m.session.Round() > m.maxRounds
}

// Decisions returns how many bot decisions the session accepted
func (m *Manager) Decisions() int { return m.decisions }

// Rejected returns how many bot decisions the session refused
func (m *Manager) Rejected() int { return m.rejected }

// OnEvent implements game.EventSubscriber
func (m *Manager) OnEvent(event game.GameEvent) {
	switch event.(type) {
	case game.StateChangedEvent, game.DecisionAppliedEvent:
		m.act()
	}
}

// act submits the next pending bot decision, if any. Events are delivered
// after the fact, so the live session is consulted rather than the
// snapshot carried by the event.
func (m *Manager) act() {
	if m.Done() {
		return
	}
	seat, ok := m.pending()
	if !ok {
		return
	}

	snap := m.session.Snapshot()
	d := Decide(m.bots[seat], snap, seat)
	if err := m.session.Submit(d); err != nil {
		m.rejected++
		m.logger.Warn("Bot decision rejected",
			"seat", seat,
			"strategy", m.bots[seat].Name(),
			"decision", d,
			"round", snap.Round,
			"error", err)
		return
	}
	m.decisions++
}

// pending returns the bot seat that owes the session a decision
func (m *Manager) pending() (int, bool) {
	switch m.session.State() {
	case game.Play:
		for _, seat := range m.seats {
			if p, _ := m.session.Player(seat); !p.HasSelection() {
				return seat, true
			}
		}
	case game.Pick:
		if seat := m.session.NextPicker(); seat >= 0 && m.Controls(seat) {
			return seat, true
		}
	}
	return 0, false
}
