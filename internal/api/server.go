// Package api exposes the game service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/lifesim/internal/game"
	"github.com/user/lifesim/internal/i18n"
	"github.com/user/lifesim/internal/interfaces"
	"github.com/user/lifesim/internal/storage"
	"go.uber.org/zap"
)

// Server routes HTTP requests to the game service
type Server struct {
	service interfaces.GameService
	bundle  *i18n.Bundle
	logger  *zap.Logger
}

// NewServer creates a server; bundle may be nil to keep the engine default text
func NewServer(service interfaces.GameService, bundle *i18n.Bundle, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{service: service, bundle: bundle, logger: logger}
}

// Router builds the chi router
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(s.localize)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Route("/lives", func(r chi.Router) {
		r.Post("/", s.newLife)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getLife)
			r.Post("/market", s.market)
			r.Post("/vendors/{vendor}", s.vendor)
			r.Post("/airport/fly", s.fly)
			r.Post("/hotel/rest", s.rest)
			r.Post("/hotel/checkout", s.checkout)
			r.Post("/police", s.police)
			r.Post("/police/start", s.policeStart)
			r.Post("/autoplay", s.autoplay)
		})
	})

	return router
}

// localize attaches the best Accept-Language match to the request context
func (s *Server) localize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.bundle != nil {
			loc := s.bundle.Localizer(r.Header.Get("Accept-Language"))
			r = r.WithContext(game.WithLocalizer(r.Context(), loc))
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rule *game.RuleError
	switch {
	case errors.As(err, &rule):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: true, Code: rule.Code, Message: rule.Message})
	case errors.Is(err, storage.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: true, Code: "not_found", Message: err.Error()})
	default:
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: true, Message: "internal error"})
	}
}

// decode reads a JSON body; an empty body leaves v untouched
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: true, Code: "invalid_request", Message: "Invalid request"})
		return false
	}
	return true
}

func (s *Server) newLife(w http.ResponseWriter, r *http.Request) {
	var req game.NewGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	life, err := s.service.NewGame(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, life)
}

func (s *Server) getLife(w http.ResponseWriter, r *http.Request) {
	life, err := s.service.GetLife(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) market(w http.ResponseWriter, r *http.Request) {
	var tx game.MarketTransaction
	if !s.decode(w, r, &tx) {
		return
	}
	life, err := s.service.MarketTransaction(r.Context(), chi.URLParam(r, "id"), tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) vendor(w http.ResponseWriter, r *http.Request) {
	var tx game.VendorTransaction
	if !s.decode(w, r, &tx) {
		return
	}
	life, err := s.service.VendorTransaction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "vendor"), tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) fly(w http.ResponseWriter, r *http.Request) {
	var req game.TravelRequest
	if !s.decode(w, r, &req) {
		return
	}
	life, err := s.service.Travel(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) rest(w http.ResponseWriter, r *http.Request) {
	life, err := s.service.Rest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	life, err := s.service.CheckOut(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) police(w http.ResponseWriter, r *http.Request) {
	var action game.EncounterAction
	if !s.decode(w, r, &action) {
		return
	}
	life, err := s.service.EncounterAction(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) policeStart(w http.ResponseWriter, r *http.Request) {
	life, err := s.service.StartEncounter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}

func (s *Server) autoplay(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Turns int `json:"turns"`
	}{Turns: 1}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Turns <= 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: true, Code: "invalid_request", Message: "Turns must be positive"})
		return
	}
	life, err := s.service.Autoplay(r.Context(), chi.URLParam(r, "id"), req.Turns)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, life)
}
