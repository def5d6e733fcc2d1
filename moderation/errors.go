package moderation

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an infraction, mute or mute role does not
	// exist within the requested guild.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a mute is requested for a user that already
	// has an active mute in the guild.
	ErrConflict = errors.New("an active mute already exists for this user")
	// ErrAlreadyHasRole is returned when the member already holds the mute
	// role without an active mute record, e.g. because it was added by hand.
	ErrAlreadyHasRole = errors.New("member already has the mute role")
	// ErrNoMuteRole is returned when a guild has no mute role configured.
	ErrNoMuteRole = errors.New("no mute role configured")
	// ErrMuteRoleMissing is returned when the configured mute role no longer
	// exists on the guild.
	ErrMuteRoleMissing = errors.New("configured mute role no longer exists")
	// ErrMemberNotFound is returned by a RoleManager when the user is not a
	// member of the guild.
	ErrMemberNotFound = errors.New("member not found")
	// ErrStoreUnavailable wraps failures of the durable store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// CollaboratorError reports a failed call to the chat platform. It never
// blocks a durable state transition.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func collaboratorErr(op string, err error) error {
	return &CollaboratorError{Op: op, Err: err}
}
