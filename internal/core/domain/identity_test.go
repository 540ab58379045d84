package domain

import (
	"testing"
)

func seekerIdentity() *Identity {
	return &Identity{
		ID:    "id_1",
		Email: "seeker@example.com",
		Name:  "Demo Seeker",
		Role:  RoleSeeker,
		Seeker: &SeekerProfile{
			Title:      "Senior Full Stack Developer",
			Location:   "Tel Aviv",
			Experience: "7+ years",
			Skills:     []string{"React", "Go"},
		},
	}
}

func TestIdentity_WellFormed(t *testing.T) {
	if !seekerIdentity().WellFormed() {
		t.Fatalf("expected seeker identity to be well-formed")
	}

	missingID := seekerIdentity()
	missingID.ID = ""
	if missingID.WellFormed() {
		t.Fatalf("identity without id must not be well-formed")
	}

	badRole := seekerIdentity()
	badRole.Role = "admin"
	if badRole.WellFormed() {
		t.Fatalf("unknown role must not be well-formed")
	}

	mixed := seekerIdentity()
	mixed.Company = &CompanyProfile{Name: "ACME"}
	if mixed.WellFormed() {
		t.Fatalf("seeker with company payload must not be well-formed")
	}

	var nilIdentity *Identity
	if nilIdentity.WellFormed() {
		t.Fatalf("nil identity must not be well-formed")
	}
}

func TestIdentity_Clone_Independent(t *testing.T) {
	original := seekerIdentity()
	clone := original.Clone()

	clone.Seeker.Location = "Haifa"
	clone.Seeker.Skills[0] = "Rust"

	if original.Seeker.Location != "Tel Aviv" {
		t.Fatalf("clone mutation leaked into original location")
	}
	if original.Seeker.Skills[0] != "React" {
		t.Fatalf("clone mutation leaked into original skills")
	}
}

func TestApplyProfileUpdate_MergesOnlyGivenFields(t *testing.T) {
	identity := seekerIdentity()
	location := "Haifa"
	identity.ApplyProfileUpdate(ProfileUpdate{Location: &location})

	if identity.Seeker.Location != "Haifa" {
		t.Fatalf("location not merged: %q", identity.Seeker.Location)
	}
	if identity.Seeker.Title != "Senior Full Stack Developer" {
		t.Fatalf("title should be untouched, got %q", identity.Seeker.Title)
	}
	if identity.Seeker.Experience != "7+ years" {
		t.Fatalf("experience should be untouched, got %q", identity.Seeker.Experience)
	}
	if len(identity.Seeker.Skills) != 2 {
		t.Fatalf("skills should be untouched, got %v", identity.Seeker.Skills)
	}
}

func TestApplyProfileUpdate_IgnoresForeignRoleFields(t *testing.T) {
	identity := seekerIdentity()
	company := "ACME"
	identity.ApplyProfileUpdate(ProfileUpdate{CompanyName: &company})

	if identity.Company != nil {
		t.Fatalf("seeker identity must never grow a company payload")
	}
	if identity.Role != RoleSeeker {
		t.Fatalf("role must never change, got %q", identity.Role)
	}
}

func TestApplyProfileUpdate_Employer(t *testing.T) {
	identity := &Identity{
		ID:      "id_2",
		Email:   "employer@example.com",
		Name:    "Demo Employer",
		Role:    RoleEmployer,
		Company: &CompanyProfile{Name: "ACME", Size: "50-100 employees"},
	}
	industry := "Technology"
	title := "CTO"
	identity.ApplyProfileUpdate(ProfileUpdate{Industry: &industry, Title: &title})

	if identity.Company.Industry != "Technology" {
		t.Fatalf("industry not merged: %q", identity.Company.Industry)
	}
	if identity.Company.Size != "50-100 employees" {
		t.Fatalf("size should be untouched")
	}
	if identity.Seeker != nil {
		t.Fatalf("employer identity must never grow a seeker payload")
	}
}
