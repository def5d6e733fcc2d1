package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultRetryBackoff = 30 * time.Second

// UnmuteScheduler sleeps until the soonest active mute across all guilds
// expires and reverses it. Notify interrupts the sleep so the target is
// recomputed after every mute mutation.
type UnmuteScheduler struct {
	store        Store
	reverser     *Reverser
	wake         chan struct{}
	retryBackoff time.Duration
	now          func() time.Time
	log          *logrus.Entry

	mu      sync.Mutex
	target  time.Time
	hasNext bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewUnmuteScheduler creates a scheduler. A zero retryBackoff uses 30s.
func NewUnmuteScheduler(store Store, reverser *Reverser, retryBackoff time.Duration) *UnmuteScheduler {
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}
	return &UnmuteScheduler{
		store:        store,
		reverser:     reverser,
		wake:         make(chan struct{}, 1),
		retryBackoff: retryBackoff,
		now:          time.Now,
		log:          logrus.WithField("module", "unmute_scheduler"),
	}
}

// Notify asks the scheduler to recompute its sleep target. It never blocks;
// signals sent while one is already pending are coalesced.
func (s *UnmuteScheduler) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// NextWake returns the expiry the scheduler is currently sleeping towards.
// The second result is false while it waits for a signal only.
func (s *UnmuteScheduler) NextWake() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target, s.hasNext
}

func (s *UnmuteScheduler) setTarget(t time.Time, ok bool) {
	s.mu.Lock()
	s.target, s.hasNext = t, ok
	s.mu.Unlock()
}

// Start runs the scheduler in its own goroutine until Stop is called or ctx
// is cancelled. Calling Start on a running scheduler does nothing.
func (s *UnmuteScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		s.Run(ctx)
	}(s.done)
}

// Stop cancels the scheduler and waits for an in-flight batch of reversals
// to finish.
func (s *UnmuteScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	s.log.Info("Stopping unmute scheduler...")
	cancel()
	<-done
	s.log.Info("Unmute scheduler stopped.")
}

// Run blocks until ctx is cancelled.
func (s *UnmuteScheduler) Run(ctx context.Context) {
	s.log.Info("Unmute scheduler started")
	for {
		next, ok, err := s.store.NextMuteExpiry(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.WithError(err).Errorf("Failed to fetch next mute expiry, retrying in %s", s.retryBackoff)
			s.setTarget(time.Time{}, false)
			if !s.sleep(ctx, s.retryBackoff) {
				return
			}
			continue
		}
		s.setTarget(next, ok)

		var timer *time.Timer
		var fire <-chan time.Time
		if ok {
			wait := next.Sub(s.now())
			if wait < 0 {
				wait = 0
			}
			s.log.WithField("expiry", next).Debugf("Sleeping %s until next unmute", wait)
			timer = time.NewTimer(wait)
			fire = timer.C
		} else {
			s.log.Debug("No active mutes, waiting for a signal")
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return
		case <-s.wake:
			stopTimer(timer)
		case <-fire:
			// Reversals that already started finish even if shutdown begins.
			err := s.reverseDue(context.WithoutCancel(ctx))
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				s.log.WithError(err).Errorf("Unmute batch hit a store error, retrying in %s", s.retryBackoff)
				if !s.sleep(ctx, s.retryBackoff) {
					return
				}
			}
		}
	}
}

// sleep waits for d, a wake signal or cancellation. It returns false on
// cancellation.
func (s *UnmuteScheduler) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-s.wake:
	case <-t.C:
	}
	return true
}

// reverseDue reverses every active mute whose expiry has passed. Platform
// failures are only logged. A store failure is returned after the rest of the
// batch has been attempted, so the caller can back off instead of spinning on
// a record that cannot be updated.
func (s *UnmuteScheduler) reverseDue(ctx context.Context) error {
	due, err := s.store.DueMutes(ctx, s.now())
	if err != nil {
		return err
	}
	var storeErr error
	for i := range due {
		mute := due[i]
		err := s.reverser.Reverse(ctx, &mute, TriggerExpired)
		if err == nil {
			continue
		}
		var collabErr *CollaboratorError
		if !errors.As(err, &collabErr) {
			storeErr = err
		}
		s.log.WithError(err).WithFields(logrus.Fields{
			"mute_id":  mute.ID,
			"guild_id": mute.GuildID,
			"user_id":  mute.UserID,
		}).Warn("Failed to reverse expired mute")
	}
	return storeErr
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
