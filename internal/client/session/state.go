package session

import "github.com/dmitrijs2005/quotehub/internal/client/models"

// State is where the gate stands on the stored token.
type State int

const (
	// Unknown means a token is present and its profile fetch has not
	// finished yet. Consumers wait instead of guessing.
	Unknown State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the gate.
type Session struct {
	State State
	User  *models.Profile
	// Err is the failure of the last completed profile fetch. The session is
	// Anonymous while it is set; the token is kept.
	Err error
}

// IsAuthenticated requires a token, a loaded profile and no pending error.
func (s Session) IsAuthenticated() bool {
	return s.State == Authenticated && s.User != nil && s.Err == nil
}
