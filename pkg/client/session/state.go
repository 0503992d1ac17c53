// Package session holds the client-side authentication state and keeps it
// in step with a durable Store.
package session

import "time"

// Profile is the signed-in user snapshot kept by the client.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// State is the client view of authentication.
type State struct {
	User    *Profile
	Loading bool
	Error   string
}

// Phase names the state a State value represents.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseError          Phase = "error"
)

// Phase derives the machine state from the fields.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseAuthenticating
	case s.Error != "":
		return PhaseError
	case s.User != nil:
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

// ActionType identifies a transition.
type ActionType string

const (
	LoginStart      ActionType = "LOGIN_START"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	LoginFailure    ActionType = "LOGIN_FAILURE"
	Logout          ActionType = "LOGOUT"
)

// Action is a transition request. Payload is used by the success actions,
// Message by LoginFailure.
type Action struct {
	Type    ActionType
	Payload *Profile
	Message string
}

// Reduce returns the state that follows s under a. It does not modify s.
// Unknown actions leave the state unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case LoginStart:
		return State{Loading: true}
	case LoginSuccess, RegisterSuccess:
		if a.Payload == nil {
			return State{}
		}
		p := *a.Payload
		return State{User: &p}
	case LoginFailure:
		msg := a.Message
		if msg == "" {
			msg = "login failed"
		}
		return State{Error: msg}
	case Logout:
		return State{}
	default:
		return s
	}
}
