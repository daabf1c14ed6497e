// Package lcu holds the raw wire types delivered by the League client's
// local API. Everything the champ-select subscription can omit is optional
// here; consumers must tolerate any subset of fields being absent.
package lcu

// ActionKind is the kind of a single draft action.
type ActionKind string

const (
	ActionPick ActionKind = "pick"
	ActionBan  ActionKind = "ban"
)

// Action is one unit of the draft's turn order. ChampionID is 0 until a
// candidate has been chosen.
type Action struct {
	ID           int        `json:"id"`
	ActorCellID  int        `json:"actorCellId"`
	ChampionID   int        `json:"championId"`
	Type         ActionKind `json:"type"`
	IsInProgress bool       `json:"isInProgress"`
	Completed    bool       `json:"completed"`
}

// Member is one seat record in a team list. ChampionID is the locked
// champion, ChampionPickIntent the hovered/declared one; either may be 0.
type Member struct {
	CellID             int    `json:"cellId"`
	ChampionID         int    `json:"championId"`
	ChampionPickIntent int    `json:"championPickIntent"`
	AssignedPosition   string `json:"assignedPosition"`
	SummonerID         int64  `json:"summonerId"`
}

// Timer carries the client's loosely-typed phase label.
type Timer struct {
	Phase string `json:"phase"`
}

// Bans lists banned champion ids per side.
type Bans struct {
	MyTeamBans    []int `json:"myTeamBans"`
	TheirTeamBans []int `json:"theirTeamBans"`
}

// ChampSelectSession is one raw snapshot of the lobby, as delivered on every
// session change. Actions is an ordered sequence of rounds, each an ordered
// sequence of actions.
type ChampSelectSession struct {
	MyTeam            []Member   `json:"myTeam"`
	TheirTeam         []Member   `json:"theirTeam"`
	Timer             *Timer     `json:"timer"`
	LocalPlayerCellID *int       `json:"localPlayerCellId"`
	Bans              *Bans      `json:"bans"`
	Actions           [][]Action `json:"actions"`
}

// GameflowPhase is the client's coarse game lifecycle phase, separate from
// the champ-select phase.
type GameflowPhase string

const (
	GameflowNone            GameflowPhase = "None"
	GameflowLobby           GameflowPhase = "Lobby"
	GameflowMatchmaking     GameflowPhase = "Matchmaking"
	GameflowReadyCheck      GameflowPhase = "ReadyCheck"
	GameflowChampSelect     GameflowPhase = "ChampSelect"
	GameflowGameStart       GameflowPhase = "GameStart"
	GameflowInProgress      GameflowPhase = "InProgress"
	GameflowWaitingForStats GameflowPhase = "WaitingForStats"
	GameflowEndOfGame       GameflowPhase = "EndOfGame"
	GameflowPreEndOfGame    GameflowPhase = "PreEndOfGame"
)

// InGame reports whether the phase belongs to the "game is running" class.
func (p GameflowPhase) InGame() bool {
	return p == GameflowGameStart || p == GameflowInProgress
}

// Ended reports whether the phase belongs to the "game is over" class.
func (p GameflowPhase) Ended() bool {
	switch p {
	case GameflowPreEndOfGame, GameflowEndOfGame, GameflowNone, GameflowLobby:
		return true
	}
	return false
}

// EventType discriminates champ-select subscription events.
type EventType string

const (
	EventCreate EventType = "Create"
	EventUpdate EventType = "Update"
	EventDelete EventType = "Delete"
)

// Topic names a subscription the feed multiplexes onto one event channel.
type Topic string

const (
	TopicChampSelect Topic = "champ-select-session"
	TopicGameflow    Topic = "gameflow-phase"
)

// FeedEvent is one delivery from the session feed. Session is set for
// champ-select events (nil on Delete), Phase for gameflow events.
type FeedEvent struct {
	Topic   Topic
	Type    EventType
	Session *ChampSelectSession
	Phase   GameflowPhase
}
