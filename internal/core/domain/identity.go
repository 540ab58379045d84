package domain

import (
	"errors"
	"time"
)

// Role is the fixed category of a user. It is set once at signup and never
// changes for the lifetime of the identity.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSeeker || r == RoleEmployer
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrCorruptedState = errors.New("corrupted persisted session state")
var ErrOperationInProgress = errors.New("operation already in progress")
var ErrIdentityExists = errors.New("identity already exists")
var ErrIdentityNotFound = errors.New("identity not found")
var ErrInvalidRegistration = errors.New("invalid registration data")

// SeekerProfile is the role-specific payload for job seekers.
type SeekerProfile struct {
	Title      string   `json:"title"`
	Location   string   `json:"location"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
}

// CompanyProfile is the role-specific payload for employers.
type CompanyProfile struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Industry string `json:"industry"`
}

// Identity is the durable profile record of an authenticated principal.
// Exactly one of Seeker or Company is non-nil, determined by Role at
// creation time.
type Identity struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Role       Role            `json:"role"`
	Seeker     *SeekerProfile  `json:"seeker,omitempty"`
	Company    *CompanyProfile `json:"company,omitempty"`
	SecretHash string          `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// WellFormed reports whether the identity satisfies the invariants required
// of an authenticated session: non-empty id, email and a known role, with
// the payload matching the role.
func (i *Identity) WellFormed() bool {
	if i == nil || i.ID == "" || i.Email == "" || !i.Role.Valid() {
		return false
	}
	switch i.Role {
	case RoleSeeker:
		return i.Company == nil
	case RoleEmployer:
		return i.Seeker == nil
	}
	return false
}

// Clone returns a deep copy. Consumers only ever receive clones; the
// session store keeps the sole mutable instance.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	clone := *i
	if i.Seeker != nil {
		sp := *i.Seeker
		sp.Skills = append([]string(nil), i.Seeker.Skills...)
		clone.Seeker = &sp
	}
	if i.Company != nil {
		cp := *i.Company
		clone.Company = &cp
	}
	return &clone
}

// ProfileUpdate carries a partial role-specific payload. Nil fields are
// left untouched by a merge; role is never part of an update.
type ProfileUpdate struct {
	Title      *string   `json:"title,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Experience *string   `json:"experience,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`

	CompanyName *string `json:"company_name,omitempty"`
	CompanySize *string `json:"company_size,omitempty"`
	Industry    *string `json:"industry,omitempty"`
}

// ApplyProfileUpdate shallow-merges the update into the identity's
// role-specific payload. Fields outside the identity's role are ignored so
// a seeker update can never grow a company payload and vice versa.
func (i *Identity) ApplyProfileUpdate(u ProfileUpdate) {
	switch i.Role {
	case RoleSeeker:
		if i.Seeker == nil {
			i.Seeker = &SeekerProfile{}
		}
		if u.Title != nil {
			i.Seeker.Title = *u.Title
		}
		if u.Location != nil {
			i.Seeker.Location = *u.Location
		}
		if u.Experience != nil {
			i.Seeker.Experience = *u.Experience
		}
		if u.Skills != nil {
			i.Seeker.Skills = append([]string(nil), (*u.Skills)...)
		}
	case RoleEmployer:
		if i.Company == nil {
			i.Company = &CompanyProfile{}
		}
		if u.CompanyName != nil {
			i.Company.Name = *u.CompanyName
		}
		if u.CompanySize != nil {
			i.Company.Size = *u.CompanySize
		}
		if u.Industry != nil {
			i.Company.Industry = *u.Industry
		}
	}
	i.UpdatedAt = time.Now().UTC()
}
