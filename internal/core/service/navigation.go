package service

import (
	"github.com/jobox/jobox-api/internal/core/domain"
)

// NavigationEntry is one item of the shell's navigation menu.
type NavigationEntry struct {
	Route string `json:"route"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// seekerMenu and employerMenu are the fixed, ordered menu tables. They are
// never mutated; Compose hands out copies.
var seekerMenu = []NavigationEntry{
	{Route: "home", Label: "Home", Icon: "home"},
	{Route: "messages", Label: "Messages", Icon: "message-circle"},
	{Route: "seeker_dashboard", Label: "Profile", Icon: "user"},
	{Route: "settings", Label: "Settings", Icon: "settings"},
}

var employerMenu = []NavigationEntry{
	{Route: "home", Label: "Home", Icon: "home"},
	{Route: "search", Label: "Find Candidates", Icon: "users"},
	{Route: "messages", Label: "Messages", Icon: "message-circle"},
	{Route: "employer_dashboard", Label: "Dashboard", Icon: "building"},
	{Route: "settings", Label: "Settings", Icon: "settings"},
}

// NavigationComposer derives the visible menu from the session's role.
type NavigationComposer struct {
	menus map[domain.Role][]NavigationEntry
}

func NewNavigationComposer() *NavigationComposer {
	return &NavigationComposer{
		menus: map[domain.Role][]NavigationEntry{
			domain.RoleSeeker:   seekerMenu,
			domain.RoleEmployer: employerMenu,
		},
	}
}

// Compose returns the ordered menu for the session's role, or an empty list
// for anonymous and loading sessions. The returned slice is a copy; callers
// may not reach the static tables.
func (n *NavigationComposer) Compose(session domain.Session) []NavigationEntry {
	if !session.Authenticated() {
		return nil
	}
	menu, ok := n.menus[session.Role()]
	if !ok {
		return nil
	}
	return append([]NavigationEntry(nil), menu...)
}
