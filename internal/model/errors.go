package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrIdentityNotFound = errors.New("device identity not found")

	// Referral errors
	ErrNoPendingReferral    = errors.New("no pending referral")
	ErrNoEnteredCode        = errors.New("no entered referral code")
	ErrNotificationNotFound = errors.New("notification not found")

	// Founder assignment errors
	ErrNoAssignment     = errors.New("no founder assignment")
	ErrNoSpotsRemaining = errors.New("no founder spots remaining")
	ErrAssignmentFailed = errors.New("founder assignment failed")
)
