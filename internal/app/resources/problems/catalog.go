// Package problems holds the static problem-statement catalog.
//
// The catalog ships embedded in the binary and is parsed once during
// bootstrap.Startup; it never changes at runtime. Teams reference
// entries by id, or supply a free-text alternative whose id carries
// the CustomPrefix — Resolve is the single place that distinguishes
// the two.
package problems

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed problem_statements.json
var catalogFS embed.FS

// CustomPrefix marks team-authored problem statement ids.
const CustomPrefix = "CUSTOM_"

// PrizeTiers lists the prize money per rank for a statement.
type PrizeTiers struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
}

// Statement is one catalog problem statement. Immutable at runtime.
type Statement struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	Theme           string     `json:"theme"`
	Description     string     `json:"description"`
	Complexity      string     `json:"complexity"` // Low | Medium | High
	Domain          string     `json:"domain"`
	Organization    string     `json:"organization"`
	TechStack       []string   `json:"techStack"`
	ExpectedOutcome string     `json:"expectedOutcome"`
	Prizes          PrizeTiers `json:"prizes"`
}

// Resolved is the result of looking up a team's problem-statement
// reference: either a catalog entry, a synthetic custom entry, or a
// miss for ids the catalog no longer carries.
type Resolved struct {
	ID       string
	Title    string
	Category string

	Custom    bool
	Statement *Statement // nil for custom and unknown ids
}

// Catalog is the parsed, immutable problem-statement list.
type Catalog struct {
	Categories []string
	Statements []Statement

	byID map[string]*Statement
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Load parses the embedded catalog. Safe to call from multiple
// goroutines; parsing happens once.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		raw, err := catalogFS.ReadFile("problem_statements.json")
		if err != nil {
			loadErr = fmt.Errorf("read embedded catalog: %w", err)
			return
		}

		var doc struct {
			Categories        []string    `json:"categories"`
			ProblemStatements []Statement `json:"problemStatements"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			loadErr = fmt.Errorf("parse embedded catalog: %w", err)
			return
		}

		c := &Catalog{
			Categories: doc.Categories,
			Statements: doc.ProblemStatements,
			byID:       make(map[string]*Statement, len(doc.ProblemStatements)),
		}
		for i := range c.Statements {
			c.byID[c.Statements[i].ID] = &c.Statements[i]
		}
		loaded = c
	})
	return loaded, loadErr
}

// Get returns the catalog statement with the given id.
func (c *Catalog) Get(id string) (*Statement, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Filter narrows the catalog. Category and complexity match exactly
// ("" or "all" means no filter); search matches case-insensitively
// across title, description, theme, domain, and tech stack.
func (c *Catalog) Filter(category, complexity, search string) []Statement {
	out := make([]Statement, 0, len(c.Statements))
	q := strings.ToLower(strings.TrimSpace(search))

	for _, s := range c.Statements {
		if category != "" && category != "all" && s.Category != category {
			continue
		}
		if complexity != "" && complexity != "all" && s.Complexity != complexity {
			continue
		}
		if q != "" && !s.matches(q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (s *Statement) matches(q string) bool {
	if strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Description), q) ||
		strings.Contains(strings.ToLower(s.Theme), q) ||
		strings.Contains(strings.ToLower(s.Domain), q) {
		return true
	}
	for _, tech := range s.TechStack {
		if strings.Contains(strings.ToLower(tech), q) {
			return true
		}
	}
	return false
}

// Resolve maps a stored problem-statement id to display fields.
// Custom ids resolve to a synthetic entry instead of a catalog miss;
// an empty id means nothing is selected.
func (c *Catalog) Resolve(id string) Resolved {
	if id == "" {
		return Resolved{Title: "Not Selected", Category: "N/A"}
	}
	if strings.HasPrefix(id, CustomPrefix) {
		return Resolved{
			ID:       id,
			Title:    "Custom Problem Statement",
			Category: "Custom",
			Custom:   true,
		}
	}
	if s, ok := c.byID[id]; ok {
		return Resolved{ID: id, Title: s.Title, Category: s.Category, Statement: s}
	}
	return Resolved{ID: id, Title: fmt.Sprintf("Unknown (%s)", id), Category: "N/A"}
}
