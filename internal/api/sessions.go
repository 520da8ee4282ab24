package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/engine"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/guard"
)

// sessionLocks serializes mutating calls per session so two concurrent
// requests cannot race the same checkpoint. The store's optimistic
// version check is the backstop; the lock avoids spurious conflicts
// from a single well-behaved frontend.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (l *sessionLocks) forget(id string) {
	l.mu.Lock()
	delete(l.locks, id)
	l.mu.Unlock()
}

type createSessionRequest struct {
	SourcePath string `json:"source_path"`
}

type resumeRequest struct {
	Value interface{} `json:"value"`
}

type helperRequest struct {
	Question  string       `json:"question"`
	Expertise string       `json:"expertise_level,omitempty"`
	History   []guard.Turn `json:"history,omitempty"`
}

// stepResponse is the wire shape shared by step, run, and resume.
type stepResponse struct {
	Session   core.Snapshot   `json:"session"`
	Suspended bool            `json:"suspended"`
	Interrupt *core.Interrupt `json:"interrupt,omitempty"`
}

func toStepResponse(res *engine.StepResult) stepResponse {
	return stepResponse{
		Session:   res.Session.Snapshot(),
		Suspended: res.Suspended,
		Interrupt: res.Interrupt,
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if req.SourcePath == "" {
		respondBadRequest(w, "source_path is required")
		return
	}

	session, err := s.engine.Create(r.Context(), req.SourcePath)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session.Snapshot())
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if ids == nil {
		ids = []core.SessionID{}
	}
	respondJSON(w, http.StatusOK, map[string][]core.SessionID{"sessions": ids})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snap, err := s.engine.GetState(r.Context(), core.SessionID(id))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.engine.Delete(r.Context(), core.SessionID(id)); err != nil {
		respondError(w, err)
		return
	}
	s.locks.forget(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.lock(id)
	defer unlock()

	res, err := s.engine.Step(r.Context(), core.SessionID(id))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toStepResponse(res))
}

// handleRun advances the session until it suspends or completes.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.lock(id)
	defer unlock()

	res, err := s.engine.Run(r.Context(), core.SessionID(id))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toStepResponse(res))
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if req.Value == nil {
		respondBadRequest(w, "value is required")
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	res, err := s.engine.Resume(r.Context(), core.SessionID(id), req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toStepResponse(res))
}

func (s *Server) handleGetInterrupt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	pending, err := s.engine.Pending(r.Context(), core.SessionID(id))
	if err != nil {
		respondError(w, err)
		return
	}
	if pending == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"interrupt": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]*core.Interrupt{"interrupt": pending})
}

func (s *Server) handleHelper(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req helperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	reply, err := s.engine.AskHelper(r.Context(), core.SessionID(id), req.Question, req.Expertise, req.History)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}
