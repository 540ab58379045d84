package domain

import "fmt"

// RouteDescriptor is the static access metadata for one navigable path.
// RequiresAuth and RedirectAway are mutually exclusive: a route either
// demands a session or pushes authenticated users away (login/signup),
// never both.
type RouteDescriptor struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requires_auth"`
	AllowedRoles []Role `json:"allowed_roles,omitempty"`
	RedirectAway bool   `json:"redirect_away,omitempty"`
}

// Validate reports configuration errors in the descriptor. Called once at
// wiring time; a failing descriptor is a startup bug, not a runtime error.
func (r RouteDescriptor) Validate() error {
	if r.Name == "" || r.Path == "" {
		return fmt.Errorf("route %q: name and path are required", r.Name)
	}
	if r.RequiresAuth && r.RedirectAway {
		return fmt.Errorf("route %q: requires_auth and redirect_away are mutually exclusive", r.Name)
	}
	if len(r.AllowedRoles) > 0 && !r.RequiresAuth {
		return fmt.Errorf("route %q: role restriction implies requires_auth", r.Name)
	}
	for _, role := range r.AllowedRoles {
		if !role.Valid() {
			return fmt.Errorf("route %q: unknown role %q", r.Name, role)
		}
	}
	return nil
}

// AllowsRole reports whether the route admits the given role. Routes with
// no role restriction admit every authenticated role.
func (r RouteDescriptor) AllowsRole(role Role) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// DecisionKind is the outcome category of an access evaluation.
type DecisionKind string

const (
	DecisionAllow    DecisionKind = "allow"
	DecisionRedirect DecisionKind = "redirect"
)

// Decision is the output of the access policy: either allow, or redirect
// with the name of the target route.
type Decision struct {
	Kind   DecisionKind `json:"kind"`
	Target string       `json:"target,omitempty"`
}

// Allow is the decision permitting the route to render.
func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

// Redirect is the decision sending the client to the named route.
func Redirect(target string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target}
}
