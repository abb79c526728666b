// internal/app/features/export/build.go
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
	"github.com/ucek-sih/internals-portal/internal/domain/teamsize"
)

// Scope selects which views an export contains. The summary view is
// always included.
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeParticipants Scope = "participants"
	ScopeTeams        Scope = "teams"
	ScopeAnalytics    Scope = "analytics"
)

// ParseScope maps the sheets query parameter to a Scope. An empty
// value means everything.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeParticipants:
		return ScopeParticipants, nil
	case ScopeTeams:
		return ScopeTeams, nil
	case ScopeAnalytics:
		return ScopeAnalytics, nil
	}
	return "", fmt.Errorf("unknown sheets value %q", s)
}

// Table is one tabular view of the export: a header row and data rows,
// all stringly typed so every serializer renders identically.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Workbook is the assembled export. Views excluded by the scope are
// nil; Summary is always present.
type Workbook struct {
	GeneratedAt time.Time

	Participants *Table
	Teams        *Table
	Analytics    *Table
	Summary      *Table
}

// membership is a participant's resolved team affiliation.
type membership struct {
	team *models.Team
	role string // "Leader" or "Member"
}

// BuildExport is a pure transform from stored documents to the export
// workbook. It touches no I/O, which keeps it directly testable.
func BuildExport(participants []models.Participant, teams []models.Team, cat *problems.Catalog, now time.Time, scope Scope) *Workbook {
	byUser := make(map[string]membership)
	for i := range teams {
		t := &teams[i]
		byUser[t.LeaderUserID] = membership{team: t, role: "Leader"}
		for _, m := range t.MemberUserIDs {
			if m == t.LeaderUserID {
				continue
			}
			byUser[m] = membership{team: t, role: "Member"}
		}
	}

	wb := &Workbook{
		GeneratedAt: now,
		Summary:     buildSummary(participants, teams, byUser, now),
	}
	if scope == ScopeAll || scope == ScopeParticipants {
		wb.Participants = buildParticipants(participants, byUser, cat)
	}
	if scope == ScopeAll || scope == ScopeTeams {
		wb.Teams = buildTeams(teams, participants, cat)
	}
	if scope == ScopeAll || scope == ScopeAnalytics {
		wb.Analytics = buildAnalytics(participants, teams, byUser, cat, now)
	}
	return wb
}

// fieldKeys returns the sorted union of every dynamic registration
// field key across all participants.
func fieldKeys(participants []models.Participant) []string {
	seen := make(map[string]struct{})
	for _, p := range participants {
		for k := range p.Fields {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildParticipants(participants []models.Participant, byUser map[string]membership, cat *problems.Catalog) *Table {
	dynamic := fieldKeys(participants)

	columns := append([]string{"Name", "Email", "Gender"}, dynamic...)
	columns = append(columns,
		"Team", "Team Role", "Team Size", "Problem Statement", "Registered At")

	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		row := []string{p.Name, p.Email, p.Gender}
		for _, k := range dynamic {
			row = append(row, p.Fields[k]) // absent keys render ""
		}

		teamName, role, size, statement := "", "No Team", "", ""
		if m, ok := byUser[p.UserID]; ok {
			calc := teamsize.Calc(m.team.LeaderUserID, m.team.MemberUserIDs)
			teamName = m.team.Name
			role = m.role
			size = fmt.Sprintf("%d/%d", calc.Size, teamsize.MaxMembers)
			statement = cat.Resolve(m.team.ProblemStatement).Title
		}
		row = append(row, teamName, role, size, statement,
			p.CreatedAt.Format("2006-01-02 15:04"))
		rows = append(rows, row)
	}

	return &Table{Name: "Participants", Columns: columns, Rows: rows}
}

func buildTeams(teams []models.Team, participants []models.Participant, cat *problems.Catalog) *Table {
	names := make(map[string]models.Participant, len(participants))
	for _, p := range participants {
		names[p.UserID] = p
	}
	// Unregistered members fall back to their sign-in id.
	display := func(userID string) (name, email string) {
		if p, ok := names[userID]; ok {
			return p.Name, p.Email
		}
		return userID, userID
	}

	columns := []string{
		"Team Name", "Invite Code", "Leader Name", "Leader Email",
		"Member Names", "Member Emails", "Size", "Complete",
		"Problem Statement", "Category", "Complexity",
		"Skills Needed", "Description", "Created At",
	}

	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		calc := teamsize.Calc(t.LeaderUserID, t.MemberUserIDs)
		leaderName, leaderEmail := display(t.LeaderUserID)

		var memberNames, memberEmails []string
		for _, id := range calc.EffectiveMemberIDs {
			n, e := display(id)
			memberNames = append(memberNames, n)
			memberEmails = append(memberEmails, e)
		}

		resolved := cat.Resolve(t.ProblemStatement)
		complexity := ""
		if resolved.Statement != nil {
			complexity = resolved.Statement.Complexity
		}

		complete := "No"
		if calc.IsComplete {
			complete = "Yes"
		}

		rows = append(rows, []string{
			t.Name,
			t.InviteCode,
			leaderName,
			leaderEmail,
			strings.Join(memberNames, "; "),
			strings.Join(memberEmails, "; "),
			fmt.Sprintf("%d/%d", calc.Size, teamsize.MaxMembers),
			complete,
			resolved.Title,
			resolved.Category,
			complexity,
			strings.Join(t.SkillsNeeded, "; "),
			t.Description,
			t.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return &Table{Name: "Teams", Columns: columns, Rows: rows}
}

func buildAnalytics(participants []models.Participant, teams []models.Team, byUser map[string]membership, cat *problems.Catalog, now time.Time) *Table {
	t := &Table{
		Name:    "Analytics",
		Columns: []string{"Category", "Metric", "Value", "Percentage"},
	}
	total := len(participants)

	addDistribution := func(category string, value func(models.Participant) string) {
		counts := make(map[string]int)
		for _, p := range participants {
			v := strings.TrimSpace(value(p))
			if v == "" {
				v = "Not specified"
			}
			counts[v]++
		}
		for _, metric := range sortedKeys(counts) {
			t.Rows = append(t.Rows, []string{
				category, metric,
				fmt.Sprintf("%d", counts[metric]),
				pct(counts[metric], total),
			})
		}
	}

	addDistribution("Gender", func(p models.Participant) string { return p.Gender })
	if anyField(participants, "department") {
		addDistribution("Department", func(p models.Participant) string { return p.Fields["department"] })
	}
	if anyField(participants, "year") {
		addDistribution("Year", func(p models.Participant) string { return p.Fields["year"] })
	}

	inTeam := 0
	for _, p := range participants {
		if _, ok := byUser[p.UserID]; ok {
			inTeam++
		}
	}
	t.Rows = append(t.Rows,
		[]string{"Team Status", "In a Team", fmt.Sprintf("%d", inTeam), pct(inTeam, total)},
		[]string{"Team Status", "Not in a Team", fmt.Sprintf("%d", total-inTeam), pct(total-inTeam, total)},
	)

	complete, withStatement := 0, 0
	for _, tm := range teams {
		if teamsize.Calc(tm.LeaderUserID, tm.MemberUserIDs).IsComplete {
			complete++
		}
		if tm.ProblemStatement != "" {
			withStatement++
		}
	}
	nTeams := len(teams)
	t.Rows = append(t.Rows,
		[]string{"Team Completion", fmt.Sprintf("Complete (%d/%d)", teamsize.MaxMembers, teamsize.MaxMembers), fmt.Sprintf("%d", complete), pct(complete, nTeams)},
		[]string{"Team Completion", "Incomplete", fmt.Sprintf("%d", nTeams-complete), pct(nTeams-complete, nTeams)},
		[]string{"Problem Statement", "Selected", fmt.Sprintf("%d", withStatement), pct(withStatement, nTeams)},
		[]string{"Problem Statement", "Not Selected", fmt.Sprintf("%d", nTeams-withStatement), pct(nTeams-withStatement, nTeams)},
	)

	// Per-statement selection counts, catalog and custom alike.
	selections := make(map[string]int)
	for _, tm := range teams {
		if tm.ProblemStatement == "" {
			continue
		}
		selections[cat.Resolve(tm.ProblemStatement).Title]++
	}
	for _, title := range sortedKeys(selections) {
		t.Rows = append(t.Rows, []string{
			"Statement Selection", title,
			fmt.Sprintf("%d", selections[title]),
			pct(selections[title], withStatement),
		})
	}

	weekAgo := now.AddDate(0, 0, -7)
	recent := 0
	for _, p := range participants {
		if p.CreatedAt.After(weekAgo) {
			recent++
		}
	}
	t.Rows = append(t.Rows,
		[]string{"Registrations", "Last 7 Days", fmt.Sprintf("%d", recent), pct(recent, total)},
	)

	return t
}

func buildSummary(participants []models.Participant, teams []models.Team, byUser map[string]membership, now time.Time) *Table {
	inTeam := 0
	for _, p := range participants {
		if _, ok := byUser[p.UserID]; ok {
			inTeam++
		}
	}
	complete, withStatement := 0, 0
	for _, t := range teams {
		if teamsize.Calc(t.LeaderUserID, t.MemberUserIDs).IsComplete {
			complete++
		}
		if t.ProblemStatement != "" {
			withStatement++
		}
	}

	return &Table{
		Name:    "Summary",
		Columns: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Participants", fmt.Sprintf("%d", len(participants))},
			{"Total Teams", fmt.Sprintf("%d", len(teams))},
			{"Participants in Teams", fmt.Sprintf("%d", inTeam)},
			{"Participants without Team", fmt.Sprintf("%d", len(participants)-inTeam)},
			{"Complete Teams", fmt.Sprintf("%d", complete)},
			{"Incomplete Teams", fmt.Sprintf("%d", len(teams)-complete)},
			{"Teams with Problem Statement", fmt.Sprintf("%d", withStatement)},
			{"Teams without Problem Statement", fmt.Sprintf("%d", len(teams)-withStatement)},
			{"Exported At", now.Format("2006-01-02 15:04:05 MST")},
		},
	}
}

// pct formats part/total as a one-decimal percentage, "0.0%" when the
// total is zero.
func pct(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func anyField(participants []models.Participant, key string) bool {
	for _, p := range participants {
		if _, ok := p.Fields[key]; ok {
			return true
		}
	}
	return false
}
