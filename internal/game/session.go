package game

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/faraway/internal/card"
	"github.com/lox/faraway/internal/deck"
	"github.com/lox/faraway/internal/gameid"
	"github.com/lox/faraway/internal/randutil"
)

// Config describes how a session is dealt
type Config struct {
	Players int      // number of seats, at least 2
	OwnSeat int      // seat of the local player
	Copies  int      // times the catalog is replicated into the deck, 0 means 1
	Shuffle bool     // shuffle the deck before dealing
	Seed    int64    // shuffle seed
	Names   []string // optional player names by seat
}

// Option configures optional session collaborators
type Option func(*Session)

// WithLogger sets the logger used by the session
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithEventBus sets the bus notifications are published on
func WithEventBus(bus EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithCatalog replaces the card definitions the deck is built from
func WithCatalog(defs []card.Card) Option {
	return func(s *Session) { s.catalog = defs }
}

// Session is the single authority over a game in progress. It is not safe
// for concurrent use: every mutation happens inside Submit on the caller's
// goroutine.
type Session struct {
	id      string
	logger  *log.Logger
	bus     EventBus
	clock   quartz.Clock
	catalog []card.Card

	deck    *deck.Deck
	row     []*card.Card
	discard []*card.Card
	players []*Player

	state     State
	round     int
	exhausted bool

	outbox      []GameEvent
	dispatching bool
}

// NewSession builds the deck, shuffles it when asked to and deals the draft
// row and every starting hand.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if cfg.Players < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", cfg.Players)
	}
	if cfg.OwnSeat < 0 || cfg.OwnSeat >= cfg.Players {
		return nil, fmt.Errorf("own seat %d out of range for %d players", cfg.OwnSeat, cfg.Players)
	}
	if cfg.Copies == 0 {
		cfg.Copies = 1
	}
	if cfg.Copies < 0 {
		return nil, fmt.Errorf("invalid catalog copies %d", cfg.Copies)
	}

	s := &Session{
		catalog: card.Catalog(),
		state:   Play,
		round:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("session")
	if s.bus == nil {
		s.bus = NewEventBus()
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}

	rng := randutil.New(cfg.Seed)
	s.deck = deck.New(card.Replicate(s.catalog, cfg.Copies), rng)
	if cfg.Shuffle {
		s.deck.Shuffle()
	}
	s.id = gameid.New(s.clock.Now(), rng)

	row, err := s.deck.Deal(cfg.Players + 1)
	if err != nil {
		return nil, fmt.Errorf("dealing draft row: %w", err)
	}
	for _, c := range row {
		c.FaceDown = false
	}
	s.row = row

	s.players = make([]*Player, cfg.Players)
	for seat := 0; seat < cfg.Players; seat++ {
		hand, err := s.deck.Deal(HandSize)
		if err != nil {
			return nil, fmt.Errorf("dealing hand for seat %d: %w", seat, err)
		}
		p := NewPlayer(seat, cfg.Players, playerName(cfg, seat), hand)
		p.Own = seat == cfg.OwnSeat
		for _, c := range hand {
			c.FaceDown = !p.Own
		}
		s.players[seat] = p
	}

	s.logger.Debug("Session dealt",
		"id", s.id,
		"players", cfg.Players,
		"ownSeat", cfg.OwnSeat,
		"deck", s.deck.Remaining(),
		"shuffled", cfg.Shuffle,
		"seed", cfg.Seed)

	return s, nil
}

func playerName(cfg Config, seat int) string {
	if seat < len(cfg.Names) && cfg.Names[seat] != "" {
		return cfg.Names[seat]
	}
	if seat == cfg.OwnSeat {
		return "You"
	}
	return fmt.Sprintf("Player %d", seat+1)
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// State returns the current round state
func (s *Session) State() State { return s.state }

// Round returns the round counter, starting at 1
func (s *Session) Round() int { return s.round }

// Players returns the players in seat order. The slice is a copy; selections
// are made with Submit.
func (s *Session) Players() []*Player { return append([]*Player(nil), s.players...) }

// Player returns the player at seat
func (s *Session) Player(seat int) (*Player, bool) {
	if seat < 0 || seat >= len(s.players) {
		return nil, false
	}
	return s.players[seat], true
}

// Row returns copies of the cards in the draft row
func (s *Session) Row() []card.Card { return values(s.row) }

// DeckSize returns the number of undealt cards
func (s *Session) DeckSize() int { return s.deck.Remaining() }

// Exhausted reports whether the deck ran out while refilling the row
func (s *Session) Exhausted() bool { return s.exhausted }

// EventBus returns the bus notifications are published on
func (s *Session) EventBus() EventBus { return s.bus }

// Subscribe is shorthand for EventBus().Subscribe
func (s *Session) Subscribe(subscriber EventSubscriber) { s.bus.Subscribe(subscriber) }

// Submit validates a decision and applies it. A rejected decision returns
// ErrInvalidChoice, ErrWrongPhase, ErrNotYourTurn or ErrUnknownPlayer,
// changes nothing and publishes nothing.
func (s *Session) Submit(d Decision) error {
	err := s.apply(d)
	if err != nil {
		s.logger.Debug("Decision rejected", "decision", d, "state", s.state, "error", err)
	}
	s.flush()
	return err
}

func (s *Session) apply(d Decision) error {
	p, ok := s.Player(d.Player)
	if !ok {
		return fmt.Errorf("%w: seat %d", ErrUnknownPlayer, d.Player)
	}
	if d.State != s.state {
		return fmt.Errorf("%w: %s decision during %s", ErrWrongPhase, d.State, s.state)
	}

	switch s.state {
	case Play:
		if !p.selectHandCard(d.Choice) {
			return fmt.Errorf("%w: hand index %d, hand holds %d", ErrInvalidChoice, d.Choice, p.HandSize())
		}
	case Pick:
		if next := s.NextPicker(); next != d.Player {
			return fmt.Errorf("%w: seat %d has priority", ErrNotYourTurn, next)
		}
		if d.Choice < 0 || d.Choice >= len(s.row) {
			return fmt.Errorf("%w: row index %d, row holds %d", ErrInvalidChoice, d.Choice, len(s.row))
		}
		c := s.row[d.Choice]
		s.row = append(s.row[:d.Choice], s.row[d.Choice+1:]...)
		p.receive(c)
	case Sanctuary:
		// No sanctuary claims are resolved; the phase passes straight through.
	}

	s.logger.Debug("Decision applied", "decision", d, "round", s.round)
	s.emit(NewDecisionAppliedEvent(d, s.Snapshot(), s.clock.Now()))
	s.update()
	return nil
}

// update runs the completion check on entry and on exit of an update pass.
// A single decision can complete Play, and Sanctuary then completes
// immediately, so one pass is not enough to converge.
func (s *Session) update() {
	s.settle()
	s.settle()
}

// settle advances the state machine by at most one transition when the
// completion predicate of the current state holds.
func (s *Session) settle() {
	switch s.state {
	case Play:
		for _, p := range s.players {
			if !p.HasSelection() {
				return
			}
		}
		for _, p := range s.players {
			c := p.playSelected()
			s.logger.Debug("Card played", "seat", p.Seat, "card", c, "round", s.round)
		}
		s.advance()

	case Sanctuary:
		if s.round == FinalRound {
			s.logger.Info("Final round reached", "round", s.round)
		}
		s.advance()

	case Pick:
		for _, p := range s.players {
			if p.HandSize() != HandSize {
				return
			}
		}
		s.refillRow()
		s.round++
		s.advance()
	}
}

// refillRow discards what is left of the row and deals a fresh one. When the
// deck cannot cover a full row nothing is dealt and the session is marked
// exhausted; the following Pick phase then waits forever.
func (s *Session) refillRow() {
	for _, c := range s.row {
		c.FaceDown = false
		s.discard = append(s.discard, c)
	}
	s.row = nil

	row, err := s.deck.Deal(len(s.players) + 1)
	if err != nil {
		if errors.Is(err, deck.ErrDeckUnderflow) {
			s.exhausted = true
			s.logger.Warn("Deck exhausted, draft row left empty", "round", s.round, "remaining", s.deck.Remaining())
			return
		}
		s.logger.Error("Failed to refill draft row", "error", err)
		return
	}
	for _, c := range row {
		c.FaceDown = false
	}
	s.row = row
}

func (s *Session) advance() {
	from := s.state
	s.state = s.state.Next()
	s.logger.Debug("State changed", "from", from, "to", s.state, "round", s.round)
	s.emit(NewStateChangedEvent(from, s.state, s.Snapshot(), s.clock.Now()))
}

func (s *Session) emit(event GameEvent) {
	s.outbox = append(s.outbox, event)
}

// flush delivers queued events in order. Subscribers that submit decisions
// from OnEvent append to the outbox and their events are delivered by the
// outermost flush, after the event being handled.
func (s *Session) flush() {
	if s.dispatching {
		return
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()

	for len(s.outbox) > 0 {
		event := s.outbox[0]
		s.outbox = s.outbox[1:]
		s.bus.Publish(event)
	}
}

// NextPicker returns the seat with draft priority, or -1 when nobody may
// pick. Among players holding HandSize-1 cards with at least one played
// card, the lowest last-played index wins; equal indexes go to the lower seat.
func (s *Session) NextPicker() int {
	if s.state != Pick {
		return -1
	}
	eligible := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		if p.eligibleToPick() {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return -1
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].LastPlayedCard().Index < eligible[j].LastPlayedCard().Index
	})
	return eligible[0].Seat
}

// Snapshot returns a deep copy of the session
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		State:      s.state,
		Round:      s.round,
		Players:    make([]PlayerView, len(s.players)),
		Row:        viewsOf(s.row, InRow, -1),
		Deck:       viewsOf(s.deck.Cards(), InDeck, -1),
		Discard:    viewsOf(s.discard, InDiscard, -1),
		NextPicker: s.NextPicker(),
		Exhausted:  s.exhausted,
		FinalRound: s.round >= FinalRound,
	}
	for i, p := range s.players {
		snap.Players[i] = PlayerView{
			Seat:              p.Seat,
			Name:              p.Name,
			Own:               p.Own,
			Orientation:       p.Orientation,
			Hand:              viewsOf(p.hand, InHand, p.Seat),
			Played:            viewsOf(p.played, InPlayed, p.Seat),
			Sanctuaries:       viewsOf(p.sanctuaries, InSanctuaries, p.Seat),
			SelectedCardIndex: p.selected,
		}
	}
	return snap
}
