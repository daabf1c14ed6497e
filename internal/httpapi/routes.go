package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/status", s.handleStatus)
	r.Get("/view", s.handleView)
	r.Get("/phase", s.handlePhase)
	r.Get("/champions", s.handleChampions)
	r.Get("/ws", s.handleWS)

	r.Post("/actions/hover", s.handleAction(s.actions.Hover))
	r.Post("/actions/lock", s.handleAction(s.actions.LockIn))
	r.Post("/actions/ban", s.handleAction(s.actions.Ban))
	r.Post("/actions/spells", s.handleSpells)

	r.Get("/runes", s.handleRunePages)
	r.Get("/runes/current", s.handleCurrentRunePage)
	r.Post("/runes", s.handleSetRunePage)
	r.Delete("/runes/{id}", s.handleDeleteRunePage)

	return r
}
