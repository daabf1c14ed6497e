package champselect

import "github.com/draftbetter/assistant/internal/lcu"

// Normalize turns one raw session snapshot into a consumer-ready view. It is
// total: any structurally valid snapshot, however sparse, produces a view.
// Opponent seats never receive intents even if the feed were to expose their
// hover state; that boundary is deliberate.
func Normalize(s *lcu.ChampSelectSession) View {
	hasBan := s != nil && hasAnyBanAction(s)
	practice := IsPracticeMode(s, hasBan)
	phase := ResolvePhase(s, practice)

	v := View{
		Phase:         phase,
		MyTeam:        []Seat{},
		TheirTeam:     []Seat{},
		LocalCellID:   -1,
		MyTeamBans:    []int{},
		TheirTeamBans: []int{},
		PracticeMode:  practice,
		TeamIntents:   []PickIntent{},
	}
	if s == nil {
		return v
	}

	if s.LocalPlayerCellID != nil {
		v.LocalCellID = *s.LocalPlayerCellID
	}

	actionChampions := championsFromActions(s)

	for _, m := range s.MyTeam {
		seat := normalizeSeat(m)
		if seat.ChampionID == 0 {
			if id := actionChampions[m.CellID]; id > 0 {
				seat.ChampionID = id
			}
		}
		if s.LocalPlayerCellID != nil && m.CellID == *s.LocalPlayerCellID {
			seat.IsLocalPlayer = true
			v.LocalRole = seat.Role
		}
		v.MyTeam = append(v.MyTeam, seat)
	}
	for _, m := range s.TheirTeam {
		v.TheirTeam = append(v.TheirTeam, normalizeSeat(m))
	}

	if s.Bans != nil {
		if s.Bans.MyTeamBans != nil {
			v.MyTeamBans = s.Bans.MyTeamBans
		}
		if s.Bans.TheirTeamBans != nil {
			v.TheirTeamBans = s.Bans.TheirTeamBans
		}
	}

	v.LocalIntent, v.TeamIntents = extractIntents(s, actionChampions)

	return v
}

// normalizeSeat maps one raw member record. The locked champion wins over the
// hovered one when both are set.
func normalizeSeat(m lcu.Member) Seat {
	champID := m.ChampionID
	if champID == 0 {
		champID = m.ChampionPickIntent
	}
	return Seat{
		CellID:     m.CellID,
		ChampionID: champID,
		Role:       ParseRole(m.AssignedPosition),
		SummonerID: m.SummonerID,
	}
}
