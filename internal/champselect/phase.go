package champselect

import (
	"strings"

	"github.com/draftbetter/assistant/internal/lcu"
)

// ResolvePhase derives the champ-select phase for one snapshot. The action
// matrix is ground truth and takes precedence over the timer label, which is
// a loosely-typed hint. Practice mode suppresses banning because sandbox
// lobbies often contain stray ban actions belonging to nobody meaningful.
func ResolvePhase(s *lcu.ChampSelectSession, practice bool) Phase {
	phase := PhasePlanning
	if s == nil {
		if practice {
			return PhasePicking
		}
		return phase
	}

	timerPhase := ""
	if s.Timer != nil {
		timerPhase = strings.ToLower(s.Timer.Phase)
	}

	localCell := -1
	if s.LocalPlayerCellID != nil {
		localCell = *s.LocalPlayerCellID
	}

	active, haveActive := findActiveAction(s, localCell)

	switch {
	case timerPhase == "finalization":
		phase = PhaseFinalization

	case pickLocked(s, localCell):
		phase = PhaseFinalization

	case haveActive && active.IsInProgress:
		if active.Type == lcu.ActionBan && !practice {
			phase = PhaseBanning
		} else if active.Type == lcu.ActionPick {
			phase = PhasePicking
		}

	case timerPhase != "":
		if strings.Contains(timerPhase, "ban") || timerPhase == "ban_pick" {
			if seatHasBanAction(s, localCell) && !practice {
				phase = PhaseBanning
			} else {
				phase = PhasePicking
			}
		} else if strings.Contains(timerPhase, "pick") || strings.Contains(timerPhase, "planning") {
			phase = PhasePicking
		}
	}

	// Fallback: a populated lobby or a practice session is at least picking.
	if phase == PhasePlanning && (len(s.MyTeam) > 0 || practice) {
		phase = PhasePicking
	}

	return phase
}
