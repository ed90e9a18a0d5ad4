package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/acumidata/propdash/pkg/auth"
	"github.com/acumidata/propdash/pkg/catalog"
	"github.com/acumidata/propdash/pkg/relar"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.users.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Authentication failed")
		s.writeError(w, r, http.StatusInternalServerError, "authentication failed")
		return
	}

	sess, err := s.sessions.Create(r.Context(), req.Username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Session creation failed")
		s.writeError(w, r, http.StatusInternalServerError, "session creation failed")
		return
	}

	s.logger.Info().Str("username", req.Username).Msg("User logged in")
	render.JSON(w, r, map[string]any{
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.users.Register(req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			s.writeError(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrPasswordTooShort):
			s.writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			s.writeError(w, r, http.StatusBadRequest, err.Error())
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"username": req.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), bearerToken(r)); err != nil {
		s.logger.Warn().Err(err).Msg("Session delete failed")
	}
	render.JSON(w, r, map[string]string{"status": "logged out"})
}

// handleLookup serves the single-address tab: one provider call, one
// normalized record.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	addr := relar.Address{
		Street: q.Get("address"),
		City:   q.Get("city"),
		State:  q.Get("state"),
		Zip:    q.Get("zip"),
	}

	kind, err := relar.ParseKind(q.Get("kind"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.provider.FetchReport(r.Context(), addr, kind)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	render.JSON(w, r, map[string]any{
		"kind":   kind.String(),
		"record": relar.Normalize(doc, kind),
	})
}

// handleComps serves the comparables card: valuation headline, comparable
// listings, and their aggregate statistics.
func (s *Server) handleComps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	addr := relar.Address{
		Street: q.Get("address"),
		City:   q.Get("city"),
		State:  q.Get("state"),
		Zip:    q.Get("zip"),
	}

	doc, err := s.provider.CompsAdvantage(r.Context(), addr)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	comps := relar.ExtractComparables(doc)
	render.JSON(w, r, map[string]any{
		"valuation":   relar.ExtractValuationSummary(doc),
		"comparables": comps,
		"statistics":  relar.ComparableStats(comps),
	})
}

func (s *Server) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	byCategory := make(map[catalog.Category][]catalog.Endpoint)
	for _, c := range catalog.Categories() {
		byCategory[c] = catalog.ByCategory(c)
	}
	render.JSON(w, r, map[string]any{
		"categories": catalog.Categories(),
		"endpoints":  byCategory,
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	state, err := s.usage.Today(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Usage lookup failed")
		s.writeError(w, r, http.StatusInternalServerError, "usage lookup failed")
		return
	}
	render.JSON(w, r, state)
}
