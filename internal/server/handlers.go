package server

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/yourusername/matchups/internal/metrics"
	"github.com/yourusername/matchups/internal/models"
	"github.com/yourusername/matchups/internal/views"
)

// View names used for metrics and logs
const (
	viewIndex    = "index"
	viewDetail   = "detail"
	viewNotFound = "not_found"
)

const dataUnavailableMessage = "Matchup data unavailable"

// handleMatchups serves the index when no name parameter is given and the
// player detail otherwise. A present but empty name is a detail lookup.
func (s *Server) handleMatchups(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	_, hasName := query["name"]

	if !hasName && s.cfg.Render.ShowIndexPage {
		s.serveIndex(w, r)
		return
	}
	s.serveDetail(w, r, query.Get("name"))
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	players, err := s.matchups.ListPlayers(r.Context())
	if err != nil {
		s.serveDataError(w, r, viewIndex, err)
		return
	}

	templ.Handler(s.renderer.PlayerIndex(views.NewPlayerIndexData(players))).ServeHTTP(w, r)
	metrics.RecordPageRendered(viewIndex)
}

func (s *Server) serveDetail(w http.ResponseWriter, r *http.Request, rawName string) {
	requestID := RequestID(r.Context())

	name, summary, err := s.matchups.PlayerDetail(r.Context(), rawName)
	switch {
	case errors.Is(err, models.ErrPlayerNotFound):
		s.reqLogger.LogPlayerLookup(requestID, rawName, name, false)
		templ.Handler(s.renderer.PlayerNotFound(), templ.WithStatus(s.cfg.Render.NotFoundStatus)).ServeHTTP(w, r)
		metrics.RecordPlayerNotFound()
		metrics.RecordPageRendered(viewNotFound)
	case err != nil:
		s.serveDataError(w, r, viewDetail, err)
	default:
		s.reqLogger.LogPlayerLookup(requestID, rawName, name, true)
		templ.Handler(s.renderer.PlayerDetail(views.NewPlayerDetailData(*summary))).ServeHTTP(w, r)
		metrics.RecordPageRendered(viewDetail)
	}
}

// serveDataError reports a missing or malformed document as a server fault
func (s *Server) serveDataError(w http.ResponseWriter, r *http.Request, view string, err error) {
	s.reqLogger.LogRenderFailure(RequestID(r.Context()), view, err)
	http.Error(w, dataUnavailableMessage, http.StatusInternalServerError)
}
