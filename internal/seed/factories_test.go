package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/pe-odake/Portifolio-Web/internal/models"
)

func TestBuildProject_TimestampsAndDefaults(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	author := &models.User{ID: "demo|author"}

	p := f.BuildProject(author, nil, nil)
	if p.Title == "" {
		t.Fatalf("expected generated title")
	}
	if p.AuthorID != author.ID {
		t.Fatalf("author mismatch: %s", p.AuthorID)
	}
	if !strings.HasPrefix(p.ImageURL, "https://picsum.photos/") {
		t.Fatalf("unexpected image url: %s", p.ImageURL)
	}
	if !models.ValidStatus(p.Status) {
		t.Fatalf("generated invalid status %q", p.Status)
	}

	// timestamp should be within MaxDays
	if time.Since(p.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", p.CreatedAt)
	}
}

func TestBuildProject_Overrides(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})
	author := &models.User{ID: "demo|author"}
	category := &models.Category{ID: 3, Name: "Design"}

	p := f.BuildProject(author, category, []models.Tag{{ID: 1, Name: "UI/UX"}}, func(p *models.Project) {
		p.Status = models.StatusDraft
		p.Featured = false
	})
	if p.Status != models.StatusDraft {
		t.Fatalf("override not applied: %s", p.Status)
	}
	if p.CategoryID == nil || *p.CategoryID != 3 {
		t.Fatalf("category not wired: %v", p.CategoryID)
	}
	if len(p.Tags) != 1 {
		t.Fatalf("tags not wired: %v", p.Tags)
	}
}

func TestCreateUser_DryRun(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})

	u, err := f.CreateUser()
	if err != nil {
		t.Fatalf("dry-run create user: %v", err)
	}
	if !strings.HasPrefix(u.ID, "demo|") {
		t.Fatalf("expected demo subject prefix, got %s", u.ID)
	}
	if u.Role != models.RoleMember {
		t.Fatalf("expected member role, got %s", u.Role)
	}
}
