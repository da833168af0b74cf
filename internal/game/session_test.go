package game

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/faraway/internal/card"
	"github.com/lox/faraway/internal/deck"
)

func indexes(cards []card.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Index
	}
	return out
}

func plainCatalog(idx ...int) []card.Card {
	defs := make([]card.Card, len(idx))
	for i, n := range idx {
		defs[i] = card.New(n, card.Blue, nil, nil, card.NoPoints(), false)
	}
	return defs
}

func TestNewSessionDealsInCatalogOrder(t *testing.T) {
	s := NewTestSession(WithPlayers(4), WithCopies(2))

	assert.Equal(t, Play, s.State())
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, []int{44, 49, 14, 45, 3}, indexes(s.Row()))
	assert.Equal(t, 15*2-17, s.DeckSize())
	assert.NotEmpty(t, s.ID())

	expected := [][]int{
		{7, 11, 19},
		{23, 31, 38},
		{52, 60, 67},
		{75, 44, 49},
	}
	for seat, p := range s.Players() {
		assert.Equal(t, expected[seat], indexes(p.Hand()), "seat %d", seat)
		assert.Equal(t, NoSelection, p.SelectedCardIndex())
		assert.Zero(t, p.PlayedCount())
	}
}

func TestNewSessionFaceDown(t *testing.T) {
	s := NewTestSession(WithPlayers(3), WithCopies(2), WithOwnSeat(1))

	for _, c := range s.Row() {
		assert.False(t, c.FaceDown, "row card %s", c)
	}
	for _, p := range s.Players() {
		for _, c := range p.Hand() {
			assert.Equal(t, !p.Own, c.FaceDown, "seat %d card %s", p.Seat, c)
		}
	}
	assert.True(t, s.Players()[1].Own)
	assert.Equal(t, "You", s.Players()[1].Name)
}

func TestNewSessionValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"single player", Config{Players: 1}},
		{"own seat out of range", Config{Players: 2, OwnSeat: 2}},
		{"negative own seat", Config{Players: 2, OwnSeat: -1}},
		{"negative copies", Config{Players: 2, Copies: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewSessionDeckTooSmall(t *testing.T) {
	// 4 players need 5 row cards and 12 hand cards, one catalog copy has 15
	_, err := NewSession(Config{Players: 4, Copies: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, deck.ErrDeckUnderflow)
}

func TestNewSessionZeroCopiesMeansOne(t *testing.T) {
	s, err := NewSession(Config{Players: 2})
	require.NoError(t, err)
	assert.Equal(t, 15-9, s.DeckSize())
}

func TestNewSessionSeededShuffleIsReproducible(t *testing.T) {
	a := NewTestSession(WithPlayers(4), WithCopies(4), WithSeed(99))
	b := NewTestSession(WithPlayers(4), WithCopies(4), WithSeed(99))

	assert.Equal(t, indexes(a.Row()), indexes(b.Row()))
	for seat := range a.Players() {
		assert.Equal(t, indexes(a.Players()[seat].Hand()), indexes(b.Players()[seat].Hand()))
	}
}

func TestFullPlayCycle(t *testing.T) {
	recorder := &EventRecorder{}
	s := NewTestSession()
	s.Subscribe(recorder)

	// seat 0 holds 45 3 7, seat 1 holds 11 19 23, the row is 44 49 14
	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	assert.Equal(t, Play, s.State())
	require.Len(t, recorder.Events, 1)
	assert.Equal(t, EventTypeDecisionApplied, recorder.Events[0].EventType())

	recorder.Reset()
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))
	assert.Equal(t, Pick, s.State())

	changes := recorder.StateChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, Play, changes[0].From)
	assert.Equal(t, Sanctuary, changes[0].To)
	assert.Equal(t, Sanctuary, changes[1].From)
	assert.Equal(t, Pick, changes[1].To)

	for _, p := range s.Players() {
		assert.Equal(t, HandSize-1, p.HandSize())
		assert.Equal(t, 1, p.PlayedCount())
		assert.False(t, p.LastPlayedCard().FaceDown)
		assert.False(t, p.HasSelection())
	}

	// 11 beats 45 for draft priority
	assert.Equal(t, 1, s.NextPicker())
	require.NoError(t, s.Submit(Decision{State: Pick, Player: 1, Choice: 0}))
	assert.Equal(t, []int{49, 14}, indexes(s.Row()))
	assert.Equal(t, []int{19, 23, 44}, indexes(s.Players()[1].Hand()))
	assert.Equal(t, 0, s.NextPicker())

	recorder.Reset()
	require.NoError(t, s.Submit(Decision{State: Pick, Player: 0, Choice: 0}))
	assert.Equal(t, Play, s.State())
	assert.Equal(t, 2, s.Round())
	assert.Equal(t, []int{3, 7, 49}, indexes(s.Players()[0].Hand()))

	require.Len(t, recorder.Events, 2)
	assert.Equal(t, EventTypeDecisionApplied, recorder.Events[0].EventType())
	sc, ok := recorder.Events[1].(StateChangedEvent)
	require.True(t, ok)
	assert.Equal(t, Pick, sc.From)
	assert.Equal(t, Play, sc.To)
	assert.Equal(t, 2, sc.Snapshot.Round)

	// the leftover row card is discarded and a fresh row dealt
	assert.Equal(t, []int{31, 38, 52}, indexes(s.Row()))
	assert.Equal(t, 3, s.DeckSize())
	snap := s.Snapshot()
	require.Len(t, snap.Discard, 1)
	assert.Equal(t, 14, snap.Discard[0].Index)
}

func TestPickedCardFaceDownForOthers(t *testing.T) {
	s := NewTestSession()
	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Pick, Player: 1, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Pick, Player: 0, Choice: 0}))

	own := s.Players()[0].Hand()
	other := s.Players()[1].Hand()
	assert.False(t, own[len(own)-1].FaceDown)
	assert.True(t, other[len(other)-1].FaceDown)
}

func TestDraftPriority(t *testing.T) {
	// row 1 2 3, seat 0 leads with 30, seat 1 leads with 10
	defs := plainCatalog(1, 2, 3, 30, 4, 5, 10, 6, 7, 8, 9, 12)
	s := NewTestSession(WithSessionOptions(WithCatalog(defs)))

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	assert.Equal(t, -1, s.NextPicker())
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))

	assert.Equal(t, 1, s.NextPicker())
	err := s.Submit(Decision{State: Pick, Player: 0, Choice: 0})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	require.NoError(t, s.Submit(Decision{State: Pick, Player: 1, Choice: 2}))
	assert.Equal(t, 0, s.NextPicker())
	assert.Equal(t, []int{6, 7, 3}, indexes(s.Players()[1].Hand()))
}

func TestDraftPriorityTieGoesToLowerSeat(t *testing.T) {
	defs := plainCatalog(1, 2, 3, 30, 4, 5, 30, 6, 7)
	s := NewTestSession(WithSessionOptions(WithCatalog(defs)))

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))
	assert.Equal(t, 0, s.NextPicker())
}

func TestSelectionToggle(t *testing.T) {
	recorder := &EventRecorder{}
	s := NewTestSession(WithPlayers(3), WithCopies(2))
	s.Subscribe(recorder)

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 1}))
	assert.Equal(t, 1, s.Players()[0].SelectedCardIndex())

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 1}))
	assert.Equal(t, NoSelection, s.Players()[0].SelectedCardIndex())

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 1}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 2}))
	assert.Equal(t, 2, s.Players()[0].SelectedCardIndex())

	assert.Len(t, recorder.Events, 4)
	assert.Empty(t, recorder.StateChanges())
}

func TestPlayCompletionGating(t *testing.T) {
	s := NewTestSession(WithPlayers(3), WithCopies(2))

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 2, Choice: 0}))

	assert.Equal(t, Play, s.State())
	for _, p := range s.Players() {
		assert.Equal(t, HandSize, p.HandSize())
		assert.Zero(t, p.PlayedCount())
	}

	// a cleared selection holds the phase back again
	require.NoError(t, s.Submit(Decision{State: Play, Player: 2, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))
	assert.Equal(t, Play, s.State())
}

func TestRejectedDecisions(t *testing.T) {
	tests := []struct {
		name     string
		decision Decision
		err      error
	}{
		{"hand index too large", Decision{State: Play, Player: 0, Choice: 3}, ErrInvalidChoice},
		{"negative hand index", Decision{State: Play, Player: 0, Choice: -1}, ErrInvalidChoice},
		{"pick during play", Decision{State: Pick, Player: 0, Choice: 0}, ErrWrongPhase},
		{"sanctuary during play", Decision{State: Sanctuary, Player: 0, Choice: 0}, ErrWrongPhase},
		{"unknown seat", Decision{State: Play, Player: 5, Choice: 0}, ErrUnknownPlayer},
		{"negative seat", Decision{State: Play, Player: -1, Choice: 0}, ErrUnknownPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &EventRecorder{}
			s := NewTestSession()
			s.Subscribe(recorder)
			before := s.Snapshot()

			err := s.Submit(tt.decision)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, recorder.Events)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestInvalidPickPublishesNothing(t *testing.T) {
	s := NewTestSession()
	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))

	recorder := &EventRecorder{}
	s.Subscribe(recorder)
	before := s.Snapshot()

	err := s.Submit(Decision{State: Pick, Player: 1, Choice: 3})
	assert.ErrorIs(t, err, ErrInvalidChoice)
	err = s.Submit(Decision{State: Play, Player: 1, Choice: 0})
	assert.ErrorIs(t, err, ErrWrongPhase)

	assert.Empty(t, recorder.Events)
	assert.Equal(t, before, s.Snapshot())
}

func TestDeckExhaustion(t *testing.T) {
	recorder := &EventRecorder{}
	s := NewTestSession()
	s.Subscribe(recorder)

	// 6 cards remain after the deal: two refills succeed, the third cannot
	for round := 1; round <= 3; round++ {
		require.NoError(t, PlayRound(s, 0), "round %d", round)
	}

	assert.Equal(t, 4, s.Round())
	assert.Equal(t, Play, s.State())
	assert.True(t, s.Exhausted())
	assert.Empty(t, s.Row())
	assert.Zero(t, s.DeckSize())

	last := recorder.StateChanges()
	require.NotEmpty(t, last)
	assert.True(t, last[len(last)-1].Snapshot.Exhausted)

	// play still completes, pick then waits forever
	err := PlayRound(s, 0)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Equal(t, Pick, s.State())
	assert.Equal(t, 4, s.Round())
}

func TestInvariantsUnderRandomPlay(t *testing.T) {
	s := NewTestSession(WithPlayers(4), WithCopies(4), WithSeed(7))
	rng := rand.New(rand.NewPCG(1, 2))
	total := 15 * 4

	checkSnapshot := func(snap Snapshot) {
		seen := make(map[int]bool, total)
		for _, v := range snap.AllCards() {
			require.False(t, seen[v.ID], "card %d in two containers", v.ID)
			seen[v.ID] = true
		}
		require.Len(t, seen, total)
		for _, p := range snap.Players {
			switch snap.State {
			case Play:
				require.Len(t, p.Hand, HandSize)
			case Sanctuary:
				require.Len(t, p.Hand, HandSize-1)
			}
		}
	}

	round := s.Round()
	for steps := 0; steps < 10000 && !s.Exhausted(); steps++ {
		var d Decision
		switch s.State() {
		case Play:
			seat := rng.IntN(len(s.Players()))
			d = Decision{State: Play, Player: seat, Choice: rng.IntN(HandSize)}
		case Pick:
			d = Decision{State: Pick, Player: s.NextPicker(), Choice: rng.IntN(len(s.Row()))}
		}
		require.NoError(t, s.Submit(d))
		require.GreaterOrEqual(t, s.Round(), round)
		round = s.Round()
		checkSnapshot(s.Snapshot())
	}

	assert.True(t, s.Exhausted())
	// 60 cards: 17 dealt, then 5 per refill until fewer than 5 remain
	assert.Equal(t, 10, s.Round())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewTestSession()
	snap := s.Snapshot()

	snap.Row[0].Index = 999
	snap.Players[0].Hand[0].Color = card.Red
	snap.Players[0].Hand[1].Resources[card.Bull] = 42

	assert.Equal(t, 44, s.Row()[0].Index)
	assert.Equal(t, card.Green, s.Players()[0].Hand()[0].Color)
	assert.Equal(t, 1, s.Players()[0].Hand()[1].Resources.Count(card.Bull))
}

func TestSnapshotLocate(t *testing.T) {
	s := NewTestSession()
	snap := s.Snapshot()

	loc, ok := snap.Locate(1)
	require.True(t, ok)
	assert.Equal(t, InRow, loc)

	loc, ok = snap.Locate(4)
	require.True(t, ok)
	assert.Equal(t, InHand, loc)

	loc, ok = snap.Locate(15)
	require.True(t, ok)
	assert.Equal(t, InDeck, loc)

	_, ok = snap.Locate(99)
	assert.False(t, ok)
}

// pickingSubscriber drafts the first row card for whoever holds priority
type pickingSubscriber struct {
	session *Session
	seen    []EventType
	errs    []error
}

func (p *pickingSubscriber) OnEvent(event GameEvent) {
	p.seen = append(p.seen, event.EventType())
	s := p.session
	if s.State() != Pick || len(s.Row()) == 0 {
		return
	}
	if seat := s.NextPicker(); seat >= 0 {
		if err := s.Submit(Decision{State: Pick, Player: seat, Choice: 0}); err != nil {
			p.errs = append(p.errs, err)
		}
	}
}

func TestReentrantSubmitFromSubscriber(t *testing.T) {
	s := NewTestSession()
	sub := &pickingSubscriber{session: s}
	s.Subscribe(sub)

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))

	assert.Empty(t, sub.errs)
	assert.Equal(t, Play, s.State())
	assert.Equal(t, 2, s.Round())
	assert.Equal(t, []EventType{
		EventTypeDecisionApplied, // seat 0 selects
		EventTypeDecisionApplied, // seat 1 selects
		EventTypeStateChanged,    // Play -> Sanctuary
		EventTypeStateChanged,    // Sanctuary -> Pick
		EventTypeDecisionApplied, // seat 1 picks
		EventTypeDecisionApplied, // seat 0 picks
		EventTypeStateChanged,    // Pick -> Play
	}, sub.seen)
}

func TestEventTimestampsUseClock(t *testing.T) {
	clock := quartz.NewMock(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock.Set(start)

	recorder := &EventRecorder{}
	s := NewTestSession(WithSessionOptions(WithClock(clock)))
	s.Subscribe(recorder)

	require.NoError(t, s.Submit(Decision{State: Play, Player: 0, Choice: 0}))
	clock.Advance(time.Second).MustWait(t.Context())
	require.NoError(t, s.Submit(Decision{State: Play, Player: 1, Choice: 0}))

	require.Len(t, recorder.Events, 4)
	assert.Equal(t, start, recorder.Events[0].Timestamp())
	for _, e := range recorder.Events[1:] {
		assert.Equal(t, start.Add(time.Second), e.Timestamp())
	}
}

func TestSessionLogsWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := NewTestSession(WithSessionOptions(WithLogger(logger)))

	_ = s.Submit(Decision{State: Pick, Player: 0, Choice: 0})
	assert.Contains(t, buf.String(), "session")
	assert.Contains(t, buf.String(), "Decision rejected")
}

func TestInjectedEventBus(t *testing.T) {
	bus := NewEventBus()
	recorder := &EventRecorder{}
	bus.Subscribe(recorder)

	s := NewTestSession(WithSessionOptions(WithEventBus(bus)))
	assert.Same(t, bus, s.EventBus())

	require.NoError(t, PlayRound(s, 0))
	changes := recorder.StateChanges()
	require.Len(t, changes, 3)
	assert.Equal(t, Play, changes[2].To)
	assert.Equal(t, 2, changes[2].Snapshot.Round)
}

func TestAccessorsReturnDeepCopies(t *testing.T) {
	s := NewTestSession()

	row := s.Row()
	row[0].Conditions[card.Bull] = 42
	row[0].Scoring.Colors[0] = card.Green

	hand := s.Players()[0].Hand()
	hand[0].Conditions[card.Ananas] = 7
	hand[1].Resources[card.Bull] = 9

	snap := s.Snapshot()
	assert.Zero(t, snap.Row[0].Conditions.Count(card.Bull))
	assert.Equal(t, card.Yellow, snap.Row[0].Scoring.Colors[0])
	assert.Zero(t, snap.Players[0].Hand[0].Conditions.Count(card.Ananas))
	assert.Equal(t, 1, snap.Players[0].Hand[1].Resources.Count(card.Bull))
}

func TestPlayersReturnsACopy(t *testing.T) {
	s := NewTestSession()

	players := s.Players()
	players[0] = nil

	p, ok := s.Player(0)
	require.True(t, ok)
	assert.NotNil(t, p)
	assert.NotNil(t, s.Players()[0])
}
