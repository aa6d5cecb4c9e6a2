package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/sim"
	"github.com/MJE43/cardsim/internal/stats"
	"github.com/MJE43/cardsim/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "healthy",
		Database:      "ok",
		Uptime:        time.Since(s.startTime).Round(time.Second).String(),
		EngineVersion: EngineVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "Invalid JSON in request body", nil)
		return
	}
	if req.Seeds.Server == "" {
		s.validationError(w, r, "seeds.serverSeed", "server seed is required")
		return
	}
	if len(req.Steps) == 0 || len(req.Steps) > maxVerifySteps {
		s.validationError(w, r, "steps", fmt.Sprintf("between 1 and %d steps are required", maxVerifySteps))
		return
	}

	v, err := sim.Verify(req.Seeds, req.Nonce, req.Steps)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := VerifyResponse{
		ServerSeedHash: engine.HashSeed(req.Seeds.Server),
		Nonce:          req.Nonce,
		Outcomes:       v.Outcomes,
		Transcript:     v.Transcript,
		Cursor:         v.Cursor,
		EngineVersion:  EngineVersion,
	}

	if req.Save {
		id, err := s.store.SaveTranscript(r.Context(), &store.Session{
			Name:           req.Name,
			Provider:       "random",
			ServerSeedHash: resp.ServerSeedHash,
			ClientSeed:     req.Seeds.Client,
			Nonce:          req.Nonce,
		}, v.Transcript)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		resp.SessionID = id
		s.log.Info("verification saved",
			zap.String("session_id", id),
			zap.String("server_seed_hash", resp.ServerSeedHash),
			zap.Int("decisions", len(v.Transcript)),
		)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	var req DistributionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "Invalid JSON in request body", nil)
		return
	}
	if req.Trials <= 0 || req.Trials > maxTrials {
		s.validationError(w, r, "trials", fmt.Sprintf("trials must be between 1 and %d", maxTrials))
		return
	}
	if err := req.Step.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}
	lo, hi := req.Step.Bounds()
	if hi < lo {
		s.validationError(w, r, "step", fmt.Sprintf("empty range [%d, %d]", lo, hi))
		return
	}
	if hi-lo+1 > maxDistributionBin {
		s.validationError(w, r, "step", fmt.Sprintf("range wider than %d values", maxDistributionBin))
		return
	}

	var src engine.Source = engine.NewEntropySource()
	if req.Seeds != nil {
		src = engine.NewSeededSource(*req.Seeds, req.Nonce)
	}
	p := decision.NewRandom(src)

	h, err := stats.NewHistogram(lo, hi)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := h.Collect(req.Trials, func() (int, error) { return req.Step.Apply(p) }); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, DistributionResponse{
		Op:            req.Step.Op,
		Report:        h.Report(),
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryInt(w, r, "limit", defaultPageSize)
	if !ok {
		return
	}
	offset, ok := s.queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	if limit <= 0 || limit > maxPageSize {
		s.validationError(w, r, "limit", fmt.Sprintf("limit must be between 1 and %d", maxPageSize))
		return
	}
	if offset < 0 {
		s.validationError(w, r, "offset", "offset must not be negative")
		return
	}

	sessions, total, err := s.store.ListSessions(r.Context(), limit, offset)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	s.writeJSON(w, http.StatusOK, SessionsResponse{
		Sessions:   sessions,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := s.store.Transcript(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TranscriptResponse{
		SessionID:  id,
		Decisions:  t,
		TotalCount: len(t),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter.
func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.validationError(w, r, name, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return n, true
}
