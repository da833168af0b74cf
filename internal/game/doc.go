// Package game implements the rules engine for the card-drafting game.
//
// The main type is Session, which owns the deck, the draft row, the discard
// pile and every Player, and advances the round state machine
//
//	Play -> Sanctuary -> Pick -> Play ...
//
// # Basic Usage
//
// Create a session and feed it decisions:
//
//	s, err := game.NewSession(game.Config{Players: 4, OwnSeat: 0, Copies: 4, Shuffle: true, Seed: 42})
//	// every player selects a hand card...
//	err = s.Submit(game.Decision{State: game.Play, Player: 0, Choice: 1})
//	// ...then the players draft from the row in priority order
//	err = s.Submit(game.Decision{State: game.Pick, Player: s.NextPicker(), Choice: 0})
//
// Decisions that are out of range, out of turn or for another state are
// rejected with an error and leave the session untouched.
//
// # Notifications
//
// Every state transition publishes a StateChangedEvent carrying a Snapshot
// on the session's EventBus, and every accepted decision publishes a
// DecisionAppliedEvent. Events are queued while a decision is being applied
// and delivered in order once it has completed, so a subscriber may call
// Submit from inside OnEvent.
//
// # Deterministic Testing
//
// Config.Seed fixes the shuffle; Config.Shuffle=false deals the deck in
// catalog order. NewTestSession wires sensible defaults for tests.
package game
