// Package teamsize computes the effective size of a team.
//
// Teams store their leader separately from the member list, so the
// naive len(members)+1 over-counts whenever a leader was also written
// into member_user_ids (older documents did this). Everything that
// reports on capacity — join/accept checks, discovery, exports — goes
// through Calc so the de-duplication happens in exactly one place.
package teamsize

// MaxMembers is the hard team cap: one leader plus five members.
const MaxMembers = 6

// Result describes a team's effective occupancy.
type Result struct {
	// EffectiveMemberIDs is the member list with duplicates and the
	// leader removed, in original order.
	EffectiveMemberIDs []string

	Size           int
	IsComplete     bool
	IsEmpty        bool
	SpotsAvailable int
}

// Calc returns the effective size of a team with the given leader and
// member list. The leader counts once even when duplicated inside
// members; an empty leader id contributes nothing.
func Calc(leaderUserID string, memberUserIDs []string) Result {
	seen := make(map[string]struct{}, len(memberUserIDs))
	effective := make([]string, 0, len(memberUserIDs))
	for _, id := range memberUserIDs {
		if id == "" || id == leaderUserID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		effective = append(effective, id)
	}

	size := len(effective)
	if leaderUserID != "" {
		size++
	}

	spots := MaxMembers - size
	if spots < 0 {
		spots = 0
	}

	return Result{
		EffectiveMemberIDs: effective,
		Size:               size,
		IsComplete:         size == MaxMembers,
		IsEmpty:            size == 0,
		SpotsAvailable:     spots,
	}
}

// HasRoom reports whether one more participant fits on the team.
func HasRoom(leaderUserID string, memberUserIDs []string) bool {
	return Calc(leaderUserID, memberUserIDs).SpotsAvailable > 0
}
