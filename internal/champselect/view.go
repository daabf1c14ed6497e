// Package champselect interprets raw champ-select sessions from the League
// client into a stable, consumer-ready view. Everything in this package is
// pure: a snapshot goes in, a view comes out, and missing optional fields
// degrade to empty values instead of errors.
package champselect

import "strings"

// Phase is the interpreted champ-select phase.
type Phase string

const (
	PhasePlanning     Phase = "planning"
	PhaseBanning      Phase = "banning"
	PhasePicking      Phase = "picking"
	PhaseFinalization Phase = "finalization"
)

// Role is one of the five canonical positions, or RoleNone when the seat has
// no recognized assignment.
type Role string

const (
	RoleNone    Role = ""
	RoleTop     Role = "Top"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleADC     Role = "ADC"
	RoleSupport Role = "Support"
)

// IntentSource records how a pick intent was observed.
type IntentSource string

const (
	SourceHover    IntentSource = "hover"
	SourceDeclared IntentSource = "declared"
	SourceLocked   IntentSource = "locked"
)

// PickIntent is the champion a seat's occupant wants, with provenance.
type PickIntent struct {
	CellID     int          `json:"cellId"`
	ChampionID int          `json:"championId"`
	Source     IntentSource `json:"source"`
}

// Seat is one normalized seat entry. ChampionID is 0 when unresolved.
type Seat struct {
	CellID        int   `json:"cellId"`
	ChampionID    int   `json:"championId"`
	Role          Role  `json:"role"`
	SummonerID    int64 `json:"summonerId,omitempty"`
	IsLocalPlayer bool  `json:"isLocalPlayer"`
}

// View is the interpreted snapshot handed to consumers. It is recomputed
// from scratch on every session update; nothing carries over between views.
// LocalCellID is -1 when the snapshot named no local seat.
type View struct {
	Phase         Phase        `json:"phase"`
	MyTeam        []Seat       `json:"myTeam"`
	TheirTeam     []Seat       `json:"theirTeam"`
	LocalRole     Role         `json:"localRole"`
	LocalCellID   int          `json:"localCellId"`
	MyTeamBans    []int        `json:"myTeamBans"`
	TheirTeamBans []int        `json:"theirTeamBans"`
	PracticeMode  bool         `json:"practiceMode"`
	LocalIntent   *PickIntent  `json:"localIntent,omitempty"`
	TeamIntents   []PickIntent `json:"teamIntents"`
}

// ParseRole maps the client's free-text position label to a canonical role.
// Unrecognized or empty labels map to RoleNone, never a passthrough.
func ParseRole(position string) Role {
	switch strings.ToLower(position) {
	case "top":
		return RoleTop
	case "jungle":
		return RoleJungle
	case "middle":
		return RoleMid
	case "bottom":
		return RoleADC
	case "utility":
		return RoleSupport
	default:
		return RoleNone
	}
}
