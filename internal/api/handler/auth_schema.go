package handler

import (
	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/service"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email  string `json:"email"  validate:"required,email"`
	Secret string `json:"secret" validate:"required"`
}

type signupRequest struct {
	Email  string `json:"email"  validate:"required,email"`
	Secret string `json:"secret" validate:"required,min=8"`
	Name   string `json:"name"   validate:"required"`
	Role   string `json:"role"   validate:"required,oneof=seeker employer"`

	Title      string   `json:"title,omitempty"`
	Location   string   `json:"location,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Skills     []string `json:"skills,omitempty"`

	CompanyName string `json:"company_name,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

type profileUpdateRequest struct {
	Title      *string   `json:"title,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Experience *string   `json:"experience,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`

	CompanyName *string `json:"company_name,omitempty"`
	CompanySize *string `json:"company_size,omitempty"`
	Industry    *string `json:"industry,omitempty"`
}

func (r profileUpdateRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Title:       r.Title,
		Location:    r.Location,
		Experience:  r.Experience,
		Skills:      r.Skills,
		CompanyName: r.CompanyName,
		CompanySize: r.CompanySize,
		Industry:    r.Industry,
	}
}

type authResponse struct {
	Token    string           `json:"token,omitempty"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

type sessionResponse struct {
	State    domain.SessionState `json:"state"`
	Identity *domain.Identity    `json:"identity,omitempty"`
}

type navigationResponse struct {
	Entries []service.NavigationEntry `json:"entries"`
}

type decisionResponse struct {
	Route    string          `json:"route"`
	Decision domain.Decision `json:"decision"`
}
