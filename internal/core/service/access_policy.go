package service

import (
	"github.com/jobox/jobox-api/internal/core/domain"
)

// AccessPolicy decides whether a session may render a route. Evaluate is a
// total pure function: no I/O, no hidden state, equal inputs always yield
// equal decisions.
type AccessPolicy struct {
	loginRoute string
	homeRoute  string
}

// NewAccessPolicy builds a policy redirecting to the named login and home
// routes. Empty names are a wiring bug.
func NewAccessPolicy(loginRoute, homeRoute string) *AccessPolicy {
	if loginRoute == "" || homeRoute == "" {
		panic("service: AccessPolicy requires login and home route names")
	}
	return &AccessPolicy{loginRoute: loginRoute, homeRoute: homeRoute}
}

// Evaluate applies the access rules in order:
//
//  1. A loading session is always allowed — redirecting before the identity
//     has resolved causes redirect flicker.
//  2. Auth-required route + anonymous session → redirect to login.
//  3. Redirect-away route (login/signup) + authenticated session → home.
//  4. Role-restricted route + authenticated session with the wrong role →
//     redirect to home.
//  5. Otherwise allow.
func (p *AccessPolicy) Evaluate(route domain.RouteDescriptor, session domain.Session) domain.Decision {
	if session.State == domain.StateLoading {
		return domain.Allow()
	}
	if route.RequiresAuth && !session.Authenticated() {
		return domain.Redirect(p.loginRoute)
	}
	if route.RedirectAway && session.Authenticated() {
		return domain.Redirect(p.homeRoute)
	}
	if route.RequiresAuth && session.Authenticated() && !route.AllowsRole(session.Role()) {
		return domain.Redirect(p.homeRoute)
	}
	return domain.Allow()
}
