// Package httpapi exposes the assistant's consumer surface: synchronous
// state queries, draft action endpoints, and a websocket event stream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/draftbetter/assistant/internal/datadragon"
	"github.com/draftbetter/assistant/internal/feed"
	"github.com/draftbetter/assistant/internal/supervisor"
)

// StateSource answers state queries and event subscriptions; satisfied by
// the supervisor.
type StateSource interface {
	State() supervisor.Snapshot
	Subscribe() (<-chan supervisor.Event, func())
}

// ActionClient applies draft and loadout writes against the game client.
type ActionClient interface {
	Hover(ctx context.Context, championID int) error
	LockIn(ctx context.Context, championID int) error
	Ban(ctx context.Context, championID int) error

	RunePages(ctx context.Context) ([]feed.RunePage, error)
	CurrentRunePage(ctx context.Context) (*feed.RunePage, error)
	SetRunePage(ctx context.Context, page feed.RunePage) error
	DeleteRunePage(ctx context.Context, pageID int) error
	SetSummonerSpells(ctx context.Context, spell1ID, spell2ID int) error
}

type Server struct {
	state   StateSource
	actions ActionClient
	champs  map[int]datadragon.Champion
	log     *zap.Logger
}

func NewServer(state StateSource, actions ActionClient, champs map[int]datadragon.Champion, logger *zap.Logger) *Server {
	return &Server{state: state, actions: actions, champs: champs, log: logger}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.state.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        snap.Status,
		"gameflowPhase": snap.GameflowPhase,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	snap := s.state.State()
	if snap.View == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, snap.View)
}

func (s *Server) handlePhase(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"phase": s.state.State().Phase})
}

func (s *Server) handleChampions(w http.ResponseWriter, r *http.Request) {
	out := make([]datadragon.Champion, 0, len(s.champs))
	for _, c := range s.champs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

type actionRequest struct {
	ChampionID int `json:"champion_id"`
}

type actionResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// handleAction serves the hover, lock, and ban endpoints through one body.
func (s *Server) handleAction(apply func(context.Context, int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChampionID <= 0 {
			writeJSON(w, http.StatusBadRequest, actionResponse{Error: "champion_id required"})
			return
		}

		if err := apply(r.Context(), req.ChampionID); err != nil {
			s.log.Warn("action failed", zap.Int("championId", req.ChampionID), zap.Error(err))
			writeJSON(w, applyStatus(err), actionResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, actionResponse{OK: true})
	}
}

// applyStatus maps a game-client write failure to an HTTP status. A missing
// connection or session is the caller's timing problem, not a gateway fault.
func applyStatus(err error) int {
	if errors.Is(err, feed.ErrNotConnected) || errors.Is(err, feed.ErrNoSession) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func (s *Server) handleRunePages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.actions.RunePages(r.Context())
	if err != nil {
		writeJSON(w, applyStatus(err), actionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (s *Server) handleCurrentRunePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.actions.CurrentRunePage(r.Context())
	if err != nil {
		writeJSON(w, applyStatus(err), actionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSetRunePage(w http.ResponseWriter, r *http.Request) {
	var page feed.RunePage
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil || page.PrimaryStyleID <= 0 || len(page.SelectedPerkIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "primaryStyleId and selectedPerkIds required"})
		return
	}

	if err := s.actions.SetRunePage(r.Context(), page); err != nil {
		s.log.Warn("set rune page failed", zap.Error(err))
		writeJSON(w, applyStatus(err), actionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true})
}

func (s *Server) handleDeleteRunePage(w http.ResponseWriter, r *http.Request) {
	pageID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || pageID <= 0 {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "numeric page id required"})
		return
	}

	if err := s.actions.DeleteRunePage(r.Context(), pageID); err != nil {
		s.log.Warn("delete rune page failed", zap.Int("pageId", pageID), zap.Error(err))
		writeJSON(w, applyStatus(err), actionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true})
}

type spellsRequest struct {
	Spell1ID int `json:"spell1_id"`
	Spell2ID int `json:"spell2_id"`
}

func (s *Server) handleSpells(w http.ResponseWriter, r *http.Request) {
	var req spellsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Spell1ID <= 0 || req.Spell2ID <= 0 {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "spell1_id and spell2_id required"})
		return
	}

	if err := s.actions.SetSummonerSpells(r.Context(), req.Spell1ID, req.Spell2ID); err != nil {
		s.log.Warn("set summoner spells failed", zap.Error(err))
		writeJSON(w, applyStatus(err), actionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
