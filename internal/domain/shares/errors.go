package shares

import (
	"errors"
	"fmt"
)

var (
	ErrEmailRequired  = errors.New("invitee email is required")
	ErrShareNotFound  = errors.New("share not found")
	ErrInviteNotFound = errors.New("invite not found or no longer pending")
	ErrSelfInvite     = errors.New("cannot invite yourself")
	ErrSelfAccept     = errors.New("cannot accept your own invite")
	ErrInvitePending  = errors.New("an invite for this email is already pending")
	ErrAlreadyShared  = errors.New("this user already has access to your account")
	ErrNotParticipant = errors.New("not a participant of this share")
	ErrNoGrant        = errors.New("no accepted share grants access to this account")
)

// InviteeMismatchError carries the email the invite was addressed to, so the
// user can be told which account to log in with.
type InviteeMismatchError struct {
	InviteeEmail string
}

func (e *InviteeMismatchError) Error() string {
	return fmt.Sprintf("this invite was sent to %s; log in with that email to respond", e.InviteeEmail)
}
