package game

import (
	"time"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeStateChanged    EventType = "state_changed"
	EventTypeDecisionApplied EventType = "decision_applied"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event published by a Session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// StateChangedEvent is published exactly once per round state transition
type StateChangedEvent struct {
	From      State
	To        State
	Snapshot  Snapshot
	timestamp time.Time
}

func (e StateChangedEvent) EventType() EventType { return EventTypeStateChanged }
func (e StateChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewStateChangedEvent creates a new state changed event
func NewStateChangedEvent(from, to State, snapshot Snapshot, at time.Time) StateChangedEvent {
	return StateChangedEvent{
		From:      from,
		To:        to,
		Snapshot:  snapshot,
		timestamp: at,
	}
}

// DecisionAppliedEvent is published when a decision was accepted. Rejected
// decisions publish nothing.
type DecisionAppliedEvent struct {
	Decision  Decision
	Snapshot  Snapshot
	timestamp time.Time
}

func (e DecisionAppliedEvent) EventType() EventType { return EventTypeDecisionApplied }
func (e DecisionAppliedEvent) Timestamp() time.Time { return e.timestamp }

// NewDecisionAppliedEvent creates a new decision applied event
func NewDecisionAppliedEvent(decision Decision, snapshot Snapshot, at time.Time) DecisionAppliedEvent {
	return DecisionAppliedEvent{
		Decision:  decision,
		Snapshot:  snapshot,
		timestamp: at,
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory observer list
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to every subscriber in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	subscribers := make([]EventSubscriber, len(bus.subscribers))
	copy(subscribers, bus.subscribers)
	for _, subscriber := range subscribers {
		subscriber.OnEvent(event)
	}
}
