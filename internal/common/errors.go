// Package common defines shared constants and sentinel errors used across
// client layers of QuoteHub. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Input errors, resolved locally before anything is sent.
	ErrValidation = errors.New("validation failed")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Voting rules.
	ErrAlreadyVotedElsewhere = errors.New("already voted for another quote")
	ErrOwnQuote              = errors.New("cannot vote on your own quote")
	ErrVotePending           = errors.New("vote already in progress")

	// Quote ownership.
	ErrNotOwner = errors.New("only the creator can modify this quote")
)
