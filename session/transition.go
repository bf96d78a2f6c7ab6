package session

type transitionKind uint8

const (
	transitionLogin transitionKind = iota
	transitionLogout
	transitionSetUser
	transitionHydrate
)

type transition struct {
	kind  transitionKind
	token string
	user  *UserProfile
}

// apply is the only place State changes. IsAuthenticated is derived from
// the token, never assigned from input.
func apply(prev State, t transition) State {
	next := prev

	switch t.kind {
	case transitionLogin:
		next.Token = t.token
		next.User = copyUser(t.user)
	case transitionLogout:
		next.Token = ""
		next.User = nil
	case transitionSetUser:
		if prev.Token == "" {
			return prev
		}
		next.User = copyUser(t.user)
	case transitionHydrate:
		next.IsHydrated = true
		if prev.Token == "" {
			next.Token = t.token
			next.User = copyUser(t.user)
		}
	}

	next.IsAuthenticated = next.Token != "" && next.User != nil
	if !next.IsAuthenticated {
		next.Token = ""
		next.User = nil
	}
	return next
}

func copyUser(u *UserProfile) *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
