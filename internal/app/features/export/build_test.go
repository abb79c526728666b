package export

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

func testCatalog(t *testing.T) *problems.Catalog {
	t.Helper()
	cat, err := problems.Load()
	if err != nil {
		t.Fatalf("Load catalog: %v", err)
	}
	return cat
}

func testNow() time.Time {
	return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
}

func testFixtures() ([]models.Participant, []models.Team) {
	now := testNow()
	participants := []models.Participant{
		{
			UserID: "a@x.com", Email: "a@x.com", Name: "Alice", Gender: "Female",
			Fields:    map[string]string{"department": "CSE", "year": "3"},
			CreatedAt: now.AddDate(0, 0, -2),
		},
		{
			UserID: "b@x.com", Email: "b@x.com", Name: "Bob", Gender: "Male",
			Fields:    map[string]string{"department": "ECE"},
			CreatedAt: now.AddDate(0, 0, -10),
		},
		{
			UserID: "c@x.com", Email: "c@x.com", Name: "Cara", Gender: "Female",
			CreatedAt: now.AddDate(0, 0, -1),
		},
	}
	teams := []models.Team{
		{
			ID:            primitive.NewObjectID(),
			Name:          "Alpha",
			InviteCode:    "AAAA1111",
			LeaderUserID:  "a@x.com",
			MemberUserIDs: []string{"b@x.com"},
			CreatedAt:     now.AddDate(0, 0, -2),
		},
	}
	return participants, teams
}

func findRow(t *Table, col, want string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == col {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	for _, row := range t.Rows {
		if idx < len(row) && row[idx] == want {
			return row
		}
	}
	return nil
}

func cell(t *Table, row []string, col string) string {
	for i, c := range t.Columns {
		if c == col && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func TestBuildExport_ParticipantsView(t *testing.T) {
	participants, teams := testFixtures()
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeAll)

	pt := wb.Participants
	if pt == nil {
		t.Fatal("participants view missing under scope all")
	}
	if len(pt.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(pt.Rows))
	}

	alice := findRow(pt, "Email", "a@x.com")
	if alice == nil {
		t.Fatal("no row for a@x.com")
	}
	if got := cell(pt, alice, "Team Role"); got != "Leader" {
		t.Errorf("Alice role = %q, want Leader", got)
	}
	if got := cell(pt, alice, "Team Size"); got != "2/6" {
		t.Errorf("Alice team size = %q, want 2/6", got)
	}
	if got := cell(pt, alice, "Problem Statement"); got != "Not Selected" {
		t.Errorf("Alice problem statement = %q, want Not Selected", got)
	}

	bob := findRow(pt, "Email", "b@x.com")
	if got := cell(pt, bob, "Team Role"); got != "Member" {
		t.Errorf("Bob role = %q, want Member", got)
	}

	cara := findRow(pt, "Email", "c@x.com")
	if got := cell(pt, cara, "Team Role"); got != "No Team" {
		t.Errorf("Cara role = %q, want No Team", got)
	}
	if got := cell(pt, cara, "Team"); got != "" {
		t.Errorf("Cara team = %q, want empty", got)
	}
}

func TestBuildExport_DynamicFieldColumns(t *testing.T) {
	participants, teams := testFixtures()
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeParticipants)

	pt := wb.Participants
	// Sorted union of every participant's field keys.
	var gotDynamic []string
	for _, c := range pt.Columns {
		if c == "department" || c == "year" {
			gotDynamic = append(gotDynamic, c)
		}
	}
	if strings.Join(gotDynamic, ",") != "department,year" {
		t.Fatalf("dynamic columns = %v, want [department year] in order", gotDynamic)
	}

	// Cara has no fields at all; both render empty, never panic.
	cara := findRow(pt, "Email", "c@x.com")
	if got := cell(pt, cara, "department"); got != "" {
		t.Errorf("missing field rendered %q, want empty", got)
	}
	// Bob has department but no year.
	bob := findRow(pt, "Email", "b@x.com")
	if got := cell(pt, bob, "year"); got != "" {
		t.Errorf("absent key rendered %q, want empty", got)
	}
}

func TestBuildExport_TeamsView(t *testing.T) {
	participants, teams := testFixtures()
	teams[0].ProblemStatement = "SIH25-SW-001"
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeTeams)

	tt := wb.Teams
	if tt == nil || len(tt.Rows) != 1 {
		t.Fatalf("teams view = %+v, want 1 row", tt)
	}
	row := tt.Rows[0]

	if got := cell(tt, row, "Leader Name"); got != "Alice" {
		t.Errorf("leader name = %q, want Alice", got)
	}
	if got := cell(tt, row, "Member Names"); got != "Bob" {
		t.Errorf("member names = %q, want Bob", got)
	}
	if got := cell(tt, row, "Size"); got != "2/6" {
		t.Errorf("size = %q, want 2/6", got)
	}
	if got := cell(tt, row, "Complete"); got != "No" {
		t.Errorf("complete = %q, want No", got)
	}
	if got := cell(tt, row, "Problem Statement"); got == "" || strings.HasPrefix(got, "Unknown") {
		t.Errorf("problem statement = %q, want the catalog title", got)
	}
}

func TestBuildExport_CustomProblemStatement(t *testing.T) {
	participants, teams := testFixtures()
	teams[0].ProblemStatement = "CUSTOM_1724750000"
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeTeams)

	row := wb.Teams.Rows[0]
	if got := cell(wb.Teams, row, "Problem Statement"); got != "Custom Problem Statement" {
		t.Errorf("custom statement = %q, want Custom Problem Statement", got)
	}
	if got := cell(wb.Teams, row, "Category"); got != "Custom" {
		t.Errorf("custom category = %q, want Custom", got)
	}
}

func TestBuildExport_UnregisteredMemberFallsBackToID(t *testing.T) {
	participants, teams := testFixtures()
	teams[0].MemberUserIDs = append(teams[0].MemberUserIDs, "ghost@x.com")
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeTeams)

	row := wb.Teams.Rows[0]
	if got := cell(wb.Teams, row, "Member Names"); !strings.Contains(got, "ghost@x.com") {
		t.Errorf("member names = %q, want the raw id for unregistered members", got)
	}
}

func TestBuildExport_Analytics(t *testing.T) {
	participants, teams := testFixtures()
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeAnalytics)

	an := wb.Analytics
	if an == nil {
		t.Fatal("analytics view missing")
	}

	female := findRow(an, "Metric", "Female")
	if female == nil {
		t.Fatal("no gender row for Female")
	}
	if got := cell(an, female, "Value"); got != "2" {
		t.Errorf("Female count = %q, want 2", got)
	}
	if got := cell(an, female, "Percentage"); got != "66.7%" {
		t.Errorf("Female percentage = %q, want 66.7%%", got)
	}

	inTeam := findRow(an, "Metric", "In a Team")
	if got := cell(an, inTeam, "Value"); got != "2" {
		t.Errorf("In a Team = %q, want 2", got)
	}

	// Bob registered 10 days ago, outside the 7-day window.
	recent := findRow(an, "Metric", "Last 7 Days")
	if got := cell(an, recent, "Value"); got != "2" {
		t.Errorf("Last 7 Days = %q, want 2", got)
	}
}

func TestBuildExport_Summary(t *testing.T) {
	participants, teams := testFixtures()
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeParticipants)

	sm := wb.Summary
	if sm == nil {
		t.Fatal("summary must always be present")
	}
	want := map[string]string{
		"Total Participants":           "3",
		"Total Teams":                  "1",
		"Participants in Teams":        "2",
		"Participants without Team":    "1",
		"Complete Teams":               "0",
		"Incomplete Teams":             "1",
		"Teams with Problem Statement": "0",
	}
	got := make(map[string]string)
	for _, row := range sm.Rows {
		got[row[0]] = row[1]
	}
	for metric, value := range want {
		if got[metric] != value {
			t.Errorf("%s = %q, want %q", metric, got[metric], value)
		}
	}
}

func TestBuildExport_ScopeSelectsViews(t *testing.T) {
	participants, teams := testFixtures()
	cat := testCatalog(t)

	tests := []struct {
		scope                         Scope
		participants, teams, analytics bool
	}{
		{ScopeAll, true, true, true},
		{ScopeParticipants, true, false, false},
		{ScopeTeams, false, true, false},
		{ScopeAnalytics, false, false, true},
	}
	for _, tt := range tests {
		wb := BuildExport(participants, teams, cat, testNow(), tt.scope)
		if (wb.Participants != nil) != tt.participants ||
			(wb.Teams != nil) != tt.teams ||
			(wb.Analytics != nil) != tt.analytics {
			t.Errorf("scope %s: views = (p=%v t=%v a=%v)", tt.scope,
				wb.Participants != nil, wb.Teams != nil, wb.Analytics != nil)
		}
		if wb.Summary == nil {
			t.Errorf("scope %s: summary missing", tt.scope)
		}
	}
}

func TestBuildExport_EmptyInputs(t *testing.T) {
	wb := BuildExport(nil, nil, testCatalog(t), testNow(), ScopeAll)

	if len(wb.Participants.Rows) != 0 || len(wb.Teams.Rows) != 0 {
		t.Error("empty inputs must produce empty tables")
	}
	if len(wb.Participants.Columns) == 0 {
		t.Error("empty participants table still carries its header")
	}
	// Percentages over zero totals must not divide by zero.
	for _, row := range wb.Analytics.Rows {
		if p := cell(wb.Analytics, row, "Percentage"); p != "0.0%" {
			t.Errorf("percentage over empty data = %q, want 0.0%%", p)
		}
	}
}

func TestBuildExport_LeaderListedAsMemberCountsOnce(t *testing.T) {
	participants, teams := testFixtures()
	teams[0].MemberUserIDs = []string{"a@x.com", "b@x.com"}
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeAll)

	row := wb.Teams.Rows[0]
	if got := cell(wb.Teams, row, "Size"); got != "2/6" {
		t.Errorf("size = %q, want 2/6 (leader never double-counted)", got)
	}
	alice := findRow(wb.Participants, "Email", "a@x.com")
	if got := cell(wb.Participants, alice, "Team Role"); got != "Leader" {
		t.Errorf("Alice role = %q, want Leader", got)
	}
}

func TestParseScope(t *testing.T) {
	for _, s := range []string{"", "all", "participants", "teams", "analytics", "Teams"} {
		if _, err := ParseScope(s); err != nil {
			t.Errorf("ParseScope(%q) error = %v", s, err)
		}
	}
	if _, err := ParseScope("everything"); err == nil {
		t.Error("ParseScope accepted an unknown scope")
	}
}
