package outreach

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	engine, err := NewEngine(EngineConfig{DBPath: dbPath})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestNewEngine(t *testing.T) {
	engine := newTestEngine(t)

	if engine.store == nil {
		t.Fatal("store is nil")
	}
	if engine.preview == nil {
		t.Fatal("previewer is nil")
	}
	if engine.analyzer != nil {
		t.Fatal("analyzer should be nil when AI analysis is disabled")
	}
}

func TestNewEngineDefaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	engine, err := NewEngine(EngineConfig{DBPath: dbPath})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer engine.Close()

	// Verify defaults were applied
	if engine.config.OllamaBaseURL != "http://localhost:11434" {
		t.Errorf("default base URL: got %s", engine.config.OllamaBaseURL)
	}
	if engine.config.Model != "llama3" {
		t.Errorf("default model: got %s", engine.config.Model)
	}
	if engine.config.RecentShareDays != 7 {
		t.Errorf("default recent share window: got %d", engine.config.RecentShareDays)
	}
}

func TestContactLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	c, err := engine.CreateContact(ctx, ContactInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.org",
	})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if c.Version != 1 {
		t.Errorf("version: got %d, want 1", c.Version)
	}

	org := "Analytical Society"
	updated, err := engine.UpdateContact(ctx, c.ID, ContactPatch{Organization: &org})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version after update: got %d, want 2", updated.Version)
	}

	detail, err := engine.GetContact(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if detail.Organization == nil || *detail.Organization != org {
		t.Errorf("organization: got %v", detail.Organization)
	}
	if len(detail.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(detail.Groups))
	}

	if err := engine.DeleteContact(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	if _, err := engine.GetContact(ctx, c.ID); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestGetContactIncludesMemberships(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	c, err := engine.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	g, err := engine.CreateGroup(ctx, GroupInput{Name: "Press"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := engine.AddContactToGroup(ctx, c.ID, MembershipInput{GroupID: g.ID}); err != nil {
		t.Fatalf("AddContactToGroup: %v", err)
	}

	detail, err := engine.GetContact(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if len(detail.Groups) != 1 {
		t.Fatalf("expected 1 membership, got %d", len(detail.Groups))
	}
	if detail.Groups[0].GroupName != "Press" {
		t.Errorf("group name: got %q", detail.Groups[0].GroupName)
	}
}

func TestListContactsPaging(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := engine.CreateContact(ctx, ContactInput{
			FullName: fmt.Sprintf("Contact %02d", i),
			Email:    fmt.Sprintf("c%02d@example.org", i),
		}); err != nil {
			t.Fatalf("CreateContact: %v", err)
		}
	}

	// Defaults: page 1, 20 per page
	page, err := engine.ListContacts(ctx, ContactQuery{})
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if page.Total != 25 {
		t.Errorf("total: got %d, want 25", page.Total)
	}
	if len(page.Items) != 20 {
		t.Errorf("items: got %d, want 20", len(page.Items))
	}
	if page.Page != 1 || page.PerPage != 20 {
		t.Errorf("page=%d per_page=%d, want 1/20", page.Page, page.PerPage)
	}
	if !page.HasNext || page.HasPrev {
		t.Errorf("has_next=%v has_prev=%v, want true/false", page.HasNext, page.HasPrev)
	}

	page2, err := engine.ListContacts(ctx, ContactQuery{Page: 2})
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(page2.Items) != 5 {
		t.Errorf("page 2 items: got %d, want 5", len(page2.Items))
	}
	if page2.HasNext || !page2.HasPrev {
		t.Errorf("has_next=%v has_prev=%v, want false/true", page2.HasNext, page2.HasPrev)
	}
}

func TestNormalizePaging(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{"defaults", 0, 0, 1, 20, false},
		{"explicit", 3, 50, 3, 50, false},
		{"per page max", 1, 100, 1, 100, false},
		{"page zero is default", 0, 10, 1, 10, false},
		{"negative page", -1, 10, 0, 0, true},
		{"per page too big", 1, 101, 0, 0, true},
		{"negative per page", 1, -5, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage, err := normalizePaging(tt.page, tt.perPage)
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizePaging: %v", err)
			}
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("got %d/%d, want %d/%d", page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestPreviewSocialProfileRequiresFeedPlatform(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	c, err := engine.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	p, err := engine.CreateSocialProfile(ctx, ProfileInput{
		ContactID: c.ID,
		Platform:  "LinkedIn",
		URL:       "https://linkedin.com/in/ada",
	})
	if err != nil {
		t.Fatalf("CreateSocialProfile: %v", err)
	}

	_, err = engine.PreviewSocialProfile(ctx, p.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "platform" {
		t.Errorf("field: got %q, want platform", ve.Field)
	}
}

func TestAnalyzeContactDisabled(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	c, err := engine.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	_, err = engine.AnalyzeContact(ctx, c.ID)
	if !errors.Is(err, ErrAnalysisDisabled) {
		t.Fatalf("expected ErrAnalysisDisabled, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.CreateContact(ctx, ContactInput{FullName: "Ada", Email: "ada@example.org"}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	health, err := engine.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status: got %q, want ok", health.Status)
	}
	if health.Contacts != 1 {
		t.Errorf("contacts: got %d, want 1", health.Contacts)
	}
}

func TestClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	engine, err := NewEngine(EngineConfig{DBPath: dbPath})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if err := engine.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
