package api

import (
	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/sim"
	"github.com/MJE43/cardsim/internal/stats"
	"github.com/MJE43/cardsim/internal/store"
)

// EngineError is the body of every error response.
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

func (e EngineError) Error() string {
	return e.Message
}

// Error types.
const (
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidParams = "invalid_params"
	ErrTypeNotFound      = "not_found"
	ErrTypeDecision      = "decision_error"
	ErrTypeInternal      = "internal_error"
	ErrTypeUnavailable   = "service_unavailable"
)

// Limits on request sizes.
const (
	maxVerifySteps     = 10000
	maxTrials          = 1000000
	maxDistributionBin = 10000
)

// VerifyRequest replays numeric decisions over a seeded stream.
type VerifyRequest struct {
	Seeds engine.Seeds `json:"seeds"`
	Nonce uint64       `json:"nonce"`
	Steps []sim.Step   `json:"steps"`
	Save  bool         `json:"save,omitempty"`
	Name  string       `json:"name,omitempty"`
}

// VerifyResponse lists the outcome of each step.
type VerifyResponse struct {
	ServerSeedHash string              `json:"serverSeedHash"`
	Nonce          uint64              `json:"nonce"`
	Outcomes       []int               `json:"outcomes"`
	Transcript     decision.Transcript `json:"transcript"`
	Cursor         uint64              `json:"cursor"`
	SessionID      string              `json:"sessionId,omitempty"`
	EngineVersion  string              `json:"engineVersion"`
}

// DistributionRequest samples one bounded operation many times. Without
// seeds the draws use crypto/rand.
type DistributionRequest struct {
	Seeds  *engine.Seeds `json:"seeds,omitempty"`
	Nonce  uint64        `json:"nonce"`
	Step   sim.Step      `json:"step"`
	Trials int           `json:"trials"`
}

// DistributionResponse is the histogram of a DistributionRequest.
type DistributionResponse struct {
	Op            decision.Op  `json:"op"`
	Report        stats.Report `json:"report"`
	EngineVersion string       `json:"engineVersion"`
}

// SessionsResponse is one page of stored sessions.
type SessionsResponse struct {
	Sessions   []store.Session `json:"sessions"`
	TotalCount int             `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// TranscriptResponse is the decision log of a stored session.
type TranscriptResponse struct {
	SessionID  string              `json:"sessionId"`
	Decisions  decision.Transcript `json:"decisions"`
	TotalCount int                 `json:"totalCount"`
}

// HealthResponse reports server and database status.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	Uptime        string `json:"uptime"`
	EngineVersion string `json:"engineVersion"`
	Timestamp     string `json:"timestamp"`
}
