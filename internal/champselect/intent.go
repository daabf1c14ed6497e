package champselect

import "github.com/draftbetter/assistant/internal/lcu"

// extractIntents classifies every ally seat's pick intent, separating the
// local player's from teammates'. Locked champions outrank declarations; a
// seat with nothing in its own record still gets an intent when the action
// matrix already carries a pick for it (weakest provenance, hover).
func extractIntents(s *lcu.ChampSelectSession, actionChampions map[int]int) (*PickIntent, []PickIntent) {
	var local *PickIntent
	team := []PickIntent{}

	if s == nil || len(s.MyTeam) == 0 {
		return nil, team
	}

	localCell := -1
	if s.LocalPlayerCellID != nil {
		localCell = *s.LocalPlayerCellID
	}

	for _, m := range s.MyTeam {
		locked := m.ChampionID
		declared := m.ChampionPickIntent

		champID := locked
		if champID == 0 {
			champID = declared
		}

		source := SourceHover
		switch {
		case locked > 0:
			source = SourceLocked
		case declared > 0:
			source = SourceDeclared
		}

		if champID == 0 {
			champID = actionChampions[m.CellID]
		}
		if champID == 0 {
			continue
		}

		intent := PickIntent{CellID: m.CellID, ChampionID: champID, Source: source}
		if m.CellID == localCell {
			local = &intent
		} else {
			team = append(team, intent)
		}
	}

	return local, team
}
