package moderation

import "time"

// Service wires the moderation components around one store, one platform
// adapter and one unmute scheduler.
type Service struct {
	Events    *Events
	Reverser  *Reverser
	Scheduler *UnmuteScheduler
	Ledger    *Ledger
	Muter     *Muter
	Actions   *Actions
}

// Platform is everything the moderation core needs from the chat platform.
type Platform interface {
	RoleManager
	MemberActions
}

func NewService(store Store, platform Platform, retryBackoff time.Duration) *Service {
	events := &Events{}
	reverser := NewReverser(store, platform, events)
	scheduler := NewUnmuteScheduler(store, reverser, retryBackoff)
	ledger := NewLedger(store, reverser, scheduler, events)
	return &Service{
		Events:    events,
		Reverser:  reverser,
		Scheduler: scheduler,
		Ledger:    ledger,
		Muter:     NewMuter(store, platform, reverser, scheduler, events),
		Actions:   NewActions(ledger, platform),
	}
}
