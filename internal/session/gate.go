package session

import (
	"context"
	"errors"
	"slices"
)

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRoleSelect
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenRoleSelect:
		return "role_select"
	case ScreenDashboard:
		return "dashboard"
	default:
		return "login"
	}
}

// Whoami confirms the stored token against the server and reports the roles
// it carries.
type Whoami interface {
	SessionRoles(ctx context.Context) ([]string, error)
}

// Gate decides which screen an invocation lands on.
type Gate struct {
	state  *State
	whoami Whoami
}

func NewGate(state *State, whoami Whoami) *Gate {
	return &Gate{state: state, whoami: whoami}
}

// Resolve checks the session with the server. Any failure clears the token
// and sends the user back to login; a single cached role is auto-selected.
func (g *Gate) Resolve(ctx context.Context) (Screen, error) {
	if g.state.Token() == "" {
		return ScreenLogin, nil
	}

	serverRoles, err := g.whoami.SessionRoles(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ScreenLogin, err
		}
		g.state.ClearToken()
		return ScreenLogin, g.state.Save()
	}

	roles := g.state.Roles()
	if len(roles) == 0 && len(serverRoles) > 0 {
		g.state.Begin(g.state.Token(), serverRoles)
		roles = g.state.Roles()
	}

	active := g.state.ActiveRole()
	switch {
	case active != "" && slices.Contains(roles, active):
		return ScreenDashboard, nil
	case len(roles) == 1:
		if err := g.state.SelectRole(roles[0]); err != nil {
			return ScreenLogin, err
		}
		return ScreenDashboard, g.state.Save()
	case len(roles) > 1:
		return ScreenRoleSelect, nil
	default:
		return ScreenDashboard, nil
	}
}
