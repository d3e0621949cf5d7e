package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("access forbidden")

	// ErrNoActiveSession is returned by mutations that require an
	// authenticated session, such as a profile update while logged out.
	ErrNoActiveSession = errors.New("no active session")

	ErrUnknownOrganisation = errors.New("unknown organisation")
	ErrProfileIncomplete   = errors.New("profile not completed")

	ErrShareNotFound  = errors.New("shared profile not found")
	ErrDuplicateShare = errors.New("profile already shared")

	ErrLoanNotFound      = errors.New("loan request not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
)
