package champselect

import "github.com/draftbetter/assistant/internal/lcu"

// IsPracticeMode decides whether the session is a practice/sandbox lobby
// rather than a competitive draft. Rules run in order, first match wins; the
// absence of any ban action is the strongest signal and must be checked
// before the team-size heuristics, which can false-positive in one-seat
// custom lobbies that still have bans.
func IsPracticeMode(s *lcu.ChampSelectSession, hasAnyBan bool) bool {
	if !hasAnyBan {
		return true
	}
	if s == nil {
		return false
	}

	if len(s.MyTeam) == 1 && len(s.TheirTeam) == 0 {
		return true
	}

	// Practice tool lobbies usually assign no position. This can misread a
	// ranked lobby whose role assignment has not propagated yet; preserved
	// as observed client behavior.
	if s.LocalPlayerCellID != nil && len(s.TheirTeam) == 0 {
		for _, m := range s.MyTeam {
			if m.CellID == *s.LocalPlayerCellID && m.AssignedPosition == "" {
				return true
			}
		}
	}

	return false
}
