// Package routes holds the static route registry of the Jobox application.
// Every navigable path carries an explicit protection level; nothing is
// inferred at runtime.
package routes

import (
	"fmt"
	"strings"

	"github.com/jobox/jobox-api/internal/core/domain"
)

// Route names used by the policy and the navigation menus.
const (
	Home              = "home"
	Login             = "login"
	Signup            = "signup"
	Onboarding        = "onboarding"
	SeekerDashboard   = "seeker_dashboard"
	EmployerDashboard = "employer_dashboard"
	Search            = "search"
	Profile           = "profile"
	Messages          = "messages"
	Billing           = "billing"
	Admin             = "admin"
	Ads               = "ads"
	Settings          = "settings"
	Support           = "support"
	TermsSeekers      = "terms_seekers"
	TermsEmployers    = "terms_employers"
	Privacy           = "privacy"
	NotFound          = "not_found"
)

// table is the full route registry. Login and signup push authenticated
// users away; dashboards and candidate search are role-locked; legal and
// support pages are public.
var table = []domain.RouteDescriptor{
	{Name: Home, Path: "/"},
	{Name: Login, Path: "/login", RedirectAway: true},
	{Name: Signup, Path: "/signup", RedirectAway: true},
	{Name: Onboarding, Path: "/onboarding", RequiresAuth: true},
	{Name: SeekerDashboard, Path: "/seeker/dashboard", RequiresAuth: true, AllowedRoles: []domain.Role{domain.RoleSeeker}},
	{Name: EmployerDashboard, Path: "/employer/dashboard", RequiresAuth: true, AllowedRoles: []domain.Role{domain.RoleEmployer}},
	{Name: Search, Path: "/search", RequiresAuth: true, AllowedRoles: []domain.Role{domain.RoleEmployer}},
	{Name: Profile, Path: "/profile/:id", RequiresAuth: true},
	{Name: Messages, Path: "/messages", RequiresAuth: true},
	{Name: Billing, Path: "/billing", RequiresAuth: true},
	{Name: Admin, Path: "/admin", RequiresAuth: true, AllowedRoles: []domain.Role{domain.RoleEmployer}},
	{Name: Ads, Path: "/ads", RequiresAuth: true, AllowedRoles: []domain.Role{domain.RoleEmployer}},
	{Name: Settings, Path: "/settings", RequiresAuth: true},
	{Name: Support, Path: "/support"},
	{Name: TermsSeekers, Path: "/terms-seekers"},
	{Name: TermsEmployers, Path: "/terms-employers"},
	{Name: Privacy, Path: "/privacy"},
	{Name: NotFound, Path: "/404"},
}

// Registry resolves route descriptors by name or by concrete path.
type Registry struct {
	byName map[string]domain.RouteDescriptor
	routes []domain.RouteDescriptor
}

// NewRegistry builds and validates the registry. Validation failures are
// configuration bugs and abort startup.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		byName: make(map[string]domain.RouteDescriptor, len(table)),
		routes: append([]domain.RouteDescriptor(nil), table...),
	}

	seenPaths := make(map[string]string, len(table))
	for _, route := range r.routes {
		if err := route.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[route.Name]; dup {
			return nil, fmt.Errorf("routes: duplicate route name %q", route.Name)
		}
		if owner, dup := seenPaths[route.Path]; dup {
			return nil, fmt.Errorf("routes: path %q claimed by both %q and %q", route.Path, owner, route.Name)
		}
		r.byName[route.Name] = route
		seenPaths[route.Path] = route.Name
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for wiring sites where a bad registry
// should halt the process.
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// ByName returns the descriptor for a logical route name.
func (r *Registry) ByName(name string) (domain.RouteDescriptor, bool) {
	route, ok := r.byName[name]
	return route, ok
}

// Match resolves a concrete request path against the registry, honoring
// `:param` segments in templated paths. Unknown paths resolve to the 404
// route, which is itself registered and public.
func (r *Registry) Match(path string) (domain.RouteDescriptor, bool) {
	for _, route := range r.routes {
		if matchPath(route.Path, path) {
			return route, true
		}
	}
	return r.byName[NotFound], false
}

// All returns a copy of every registered descriptor.
func (r *Registry) All() []domain.RouteDescriptor {
	return append([]domain.RouteDescriptor(nil), r.routes...)
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	pSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(pSegs) != len(segs) {
		return false
	}
	for i, p := range pSegs {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}
