package problems

import (
	"strings"
	"testing"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestLoad(t *testing.T) {
	c := mustLoad(t)

	if len(c.Statements) == 0 {
		t.Fatal("catalog has no statements")
	}
	if len(c.Categories) == 0 {
		t.Fatal("catalog has no categories")
	}

	for _, s := range c.Statements {
		if s.ID == "" || s.Title == "" {
			t.Errorf("statement missing id/title: %+v", s)
		}
		switch s.Complexity {
		case "Low", "Medium", "High":
		default:
			t.Errorf("statement %s has complexity %q", s.ID, s.Complexity)
		}
	}
}

func TestFilter_Category(t *testing.T) {
	c := mustLoad(t)

	got := c.Filter("Software", "", "")
	if len(got) == 0 {
		t.Fatal("no Software statements")
	}
	for _, s := range got {
		if s.Category != "Software" {
			t.Errorf("Filter(Software) returned category %q", s.Category)
		}
	}

	// "all" is the no-filter sentinel the frontend sends.
	if all := c.Filter("all", "all", ""); len(all) != len(c.Statements) {
		t.Errorf("Filter(all) = %d statements, want %d", len(all), len(c.Statements))
	}
}

func TestFilter_Complexity(t *testing.T) {
	c := mustLoad(t)

	for _, s := range c.Filter("", "High", "") {
		if s.Complexity != "High" {
			t.Errorf("Filter(High) returned complexity %q", s.Complexity)
		}
	}
}

func TestFilter_Search(t *testing.T) {
	c := mustLoad(t)

	// Search hits the tech stack, not just the title.
	got := c.Filter("", "", "lorawan")
	if len(got) == 0 {
		t.Fatal("search over tech stack found nothing")
	}
	for _, s := range got {
		found := false
		for _, tech := range s.TechStack {
			if strings.EqualFold(tech, "LoRaWAN") {
				found = true
			}
		}
		if !found {
			t.Errorf("statement %s matched %q without it in tech stack", s.ID, "lorawan")
		}
	}

	if got := c.Filter("", "", "no-such-term-anywhere"); len(got) != 0 {
		t.Errorf("bogus search returned %d statements", len(got))
	}
}

func TestResolve(t *testing.T) {
	c := mustLoad(t)
	known := c.Statements[0]

	tests := []struct {
		name         string
		id           string
		wantTitle    string
		wantCategory string
		wantCustom   bool
	}{
		{"empty means not selected", "", "Not Selected", "N/A", false},
		{"catalog id", known.ID, known.Title, known.Category, false},
		{"custom id", "CUSTOM_1712345678", "Custom Problem Statement", "Custom", true},
		{"unknown id", "SIH25-XX-999", "Unknown (SIH25-XX-999)", "N/A", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Resolve(tt.id)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Custom != tt.wantCustom {
				t.Errorf("Custom = %v, want %v", got.Custom, tt.wantCustom)
			}
		})
	}
}
