package problems

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	catalog "github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/testutil"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewHandler(cat, zap.NewNop())
}

func TestServeList_ReturnsCatalog(t *testing.T) {
	h := newTestHandler(t)
	router := Routes(h)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.ParticipantUser("p@test.edu"))
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Categories        []string            `json:"categories"`
		ProblemStatements []catalog.Statement `json:"problemStatements"`
		Total             int                 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total == 0 || body.Total != len(body.ProblemStatements) {
		t.Errorf("total = %d, statements = %d", body.Total, len(body.ProblemStatements))
	}
	if len(body.Categories) == 0 {
		t.Error("expected at least one category")
	}
}

func TestServeList_FilterNarrows(t *testing.T) {
	h := newTestHandler(t)
	router := Routes(h)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/?category=Software", testutil.ParticipantUser("p@test.edu"))
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		ProblemStatements []catalog.Statement `json:"problemStatements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.ProblemStatements) == 0 {
		t.Fatal("expected Software statements")
	}
	for _, s := range body.ProblemStatements {
		if s.Category != "Software" {
			t.Errorf("statement %s has category %q", s.ID, s.Category)
		}
	}
}

func TestServeGet_KnownAndUnknown(t *testing.T) {
	h := newTestHandler(t)
	router := Routes(h)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/SIH25-SW-001", testutil.ParticipantUser("p@test.edu"))
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "SIH25-SW-001")

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/NOPE-404", testutil.ParticipantUser("p@test.edu"))
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestRoutes_RequireSignIn(t *testing.T) {
	h := newTestHandler(t)
	router := Routes(h)

	req := testutil.NewRequest(http.MethodGet, "/")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}
