package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/sim"
	"github.com/MJE43/cardsim/internal/store"
)

// writeError writes a structured error response and logs it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, ctx map[string]any) {
	engineErr := EngineError{
		Type:      errType,
		Message:   message,
		Context:   ctx,
		RequestID: middleware.GetReqID(r.Context()),
	}

	fields := []zap.Field{
		zap.String("type", errType),
		zap.Int("status", status),
		zap.String("request_id", engineErr.RequestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("message", message),
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Warn("request rejected", fields...)
	}

	w.Header().Set("X-Error-Type", errType)
	s.writeJSON(w, status, engineErr)
}

// validationError rejects a request field.
func (s *Server) validationError(w http.ResponseWriter, r *http.Request, field, message string) {
	s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
		fmt.Sprintf("Validation failed: %s", message), map[string]any{"field": field})
}

// handleError maps err onto a status and error type.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, err.Error(), nil)
	case errors.Is(err, sim.ErrNotNumeric), errors.Is(err, sim.ErrBadStep):
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, err.Error(), nil)
	case errors.Is(err, decision.ErrNoCandidates),
		errors.Is(err, decision.ErrUnimplemented),
		errors.Is(err, decision.ErrExhausted),
		errors.Is(err, decision.ErrMismatch):
		ctx := map[string]any{}
		if op, ok := decision.OpOf(err); ok {
			ctx["op"] = op
		}
		s.writeError(w, r, http.StatusBadRequest, ErrTypeDecision, err.Error(), ctx)
	default:
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Internal server error", nil)
		s.log.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
	}
}

// recoverer turns a handler panic into a 500 with a structured body.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				s.log.Error("panic recovered",
					zap.Any("panic", rvr),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("path", r.URL.Path),
				)
				s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote_ip", r.RemoteAddr),
		)
	})
}
