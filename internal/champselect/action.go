package champselect

import "github.com/draftbetter/assistant/internal/lcu"

// FindCurrentAction returns the id of the seat's current actionable pick or
// ban. The scan runs in round-then-within-round order and prefers actions the
// client has flagged in-progress; a second pass accepts any incomplete action
// of the right kind, because the feed sometimes marks an action selectable
// before flagging it in-progress.
func FindCurrentAction(s *lcu.ChampSelectSession, cellID int, kind lcu.ActionKind) (int, bool) {
	if s == nil {
		return 0, false
	}
	for _, round := range s.Actions {
		for _, a := range round {
			if a.ActorCellID == cellID && a.Type == kind && a.IsInProgress && !a.Completed {
				return a.ID, true
			}
		}
	}
	for _, round := range s.Actions {
		for _, a := range round {
			if a.ActorCellID == cellID && a.Type == kind && !a.Completed {
				return a.ID, true
			}
		}
	}
	return 0, false
}

// findActiveAction returns the seat's current action of either kind, with the
// same two-pass preference for in-progress actions.
func findActiveAction(s *lcu.ChampSelectSession, cellID int) (lcu.Action, bool) {
	for _, round := range s.Actions {
		for _, a := range round {
			if a.ActorCellID == cellID && a.IsInProgress && !a.Completed {
				return a, true
			}
		}
	}
	for _, round := range s.Actions {
		for _, a := range round {
			if a.ActorCellID == cellID && !a.Completed {
				return a, true
			}
		}
	}
	return lcu.Action{}, false
}

// hasAnyBanAction reports whether any action in the matrix is a ban.
func hasAnyBanAction(s *lcu.ChampSelectSession) bool {
	for _, round := range s.Actions {
		for _, a := range round {
			if a.Type == lcu.ActionBan {
				return true
			}
		}
	}
	return false
}

// seatHasBanAction reports whether the seat owns a ban action anywhere in the
// matrix, completed or not.
func seatHasBanAction(s *lcu.ChampSelectSession, cellID int) bool {
	for _, round := range s.Actions {
		for _, a := range round {
			if a.ActorCellID == cellID && a.Type == lcu.ActionBan {
				return true
			}
		}
	}
	return false
}

// pickLocked reports whether the seat's pick action has completed with a real
// champion chosen.
func pickLocked(s *lcu.ChampSelectSession, cellID int) bool {
	for _, round := range s.Actions {
		for _, a := range round {
			if a.ActorCellID == cellID && a.Type == lcu.ActionPick && a.Completed && a.ChampionID > 0 {
				return true
			}
		}
	}
	return false
}

// championsFromActions maps each seat to the champion chosen in its pick
// action. The matrix is sometimes populated before the seat record reflects
// the choice, so these values win over a zero seat champion.
func championsFromActions(s *lcu.ChampSelectSession) map[int]int {
	out := make(map[int]int)
	for _, round := range s.Actions {
		for _, a := range round {
			if a.Type == lcu.ActionPick && a.ChampionID > 0 {
				out[a.ActorCellID] = a.ChampionID
			}
		}
	}
	return out
}
