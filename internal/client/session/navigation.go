package session

import "time"

// Destination names a screen the client can move to.
type Destination int

const (
	NavigateNone Destination = iota
	NavigateHome
	NavigateLogin
	NavigateSignup
	NavigateVerifyOTP
	NavigateDashboard
	NavigateExternal
)

func (d Destination) String() string {
	switch d {
	case NavigateHome:
		return "home"
	case NavigateLogin:
		return "login"
	case NavigateSignup:
		return "signup"
	case NavigateVerifyOTP:
		return "verify-otp"
	case NavigateDashboard:
		return "dashboard"
	case NavigateExternal:
		return "external"
	default:
		return "none"
	}
}

// NavigationIntent is the result of a state transition: where the caller
// should go next. Email is set for NavigateVerifyOTP and URL for
// NavigateExternal. A non-zero Delay asks for the move to happen after a
// pause, giving the user time to read a message.
type NavigationIntent struct {
	To    Destination
	Email string
	URL   string
	Delay time.Duration
}

// Go returns an intent for a destination that needs no arguments.
func Go(to Destination) NavigationIntent {
	return NavigationIntent{To: to}
}

func GoVerifyOTP(email string) NavigationIntent {
	return NavigationIntent{To: NavigateVerifyOTP, Email: email}
}

func GoExternal(url string) NavigationIntent {
	return NavigationIntent{To: NavigateExternal, URL: url}
}

// After returns a copy of n delayed by d.
func (n NavigationIntent) After(d time.Duration) NavigationIntent {
	n.Delay = d
	return n
}

func (n NavigationIntent) IsNone() bool {
	return n.To == NavigateNone
}

func (n NavigationIntent) String() string {
	s := n.To.String()
	switch n.To {
	case NavigateVerifyOTP:
		s += "(" + n.Email + ")"
	case NavigateExternal:
		s += "(" + n.URL + ")"
	}
	if n.Delay > 0 {
		s += " after " + n.Delay.String()
	}
	return s
}
