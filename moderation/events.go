package moderation

import (
	"sync"
	"time"

	"modbot/model"
)

type EventType string

const (
	EventInfractionCreated EventType = "infraction_created"
	EventInfractionEdited  EventType = "infraction_edited"
	EventInfractionDeleted EventType = "infraction_deleted"
	EventMuteReversed      EventType = "mute_reversed"
	EventMuteReapplied     EventType = "mute_reapplied"
)

// Reversal triggers, used as Event.Trigger for EventMuteReversed.
const (
	TriggerExpired           = "expired"
	TriggerManual            = "manual"
	TriggerInfractionDeleted = "infraction_deleted"
)

// Event is a structured audit notification emitted by the ledger and the
// reversal engine.
type Event struct {
	Type       EventType
	At         time.Time
	GuildID    string
	UserID     string
	ActorID    string
	Infraction *model.Infraction
	Mute       *model.Mute
	Trigger    string
	Err        error
}

// EventSink receives audit events. Publish must not block for long.
type EventSink interface {
	Publish(Event)
}

// Events fans out to any number of sinks. The zero value has no subscribers
// and a nil *Events drops everything.
type Events struct {
	mu    sync.RWMutex
	sinks []EventSink
}

func (e *Events) Subscribe(sink EventSink) {
	if e == nil || sink == nil {
		return
	}
	e.mu.Lock()
	e.sinks = append(e.sinks, sink)
	e.mu.Unlock()
}

func (e *Events) Publish(ev Event) {
	if e == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	e.mu.RLock()
	sinks := e.sinks
	e.mu.RUnlock()
	for _, s := range sinks {
		s.Publish(ev)
	}
}
