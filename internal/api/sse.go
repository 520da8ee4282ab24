package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleSSE streams session lifecycle events as Server-Sent Events.
// An optional ?session= query parameter filters to one session; an
// optional ?types= parameter (comma-free, repeatable) filters by event
// type. Priority events travel the same channel as regular ones here:
// an SSE consumer that lags simply misses ring-buffer events.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondBadRequest(w, "streaming not supported")
		return
	}

	ctx := r.Context()
	sessionFilter := r.URL.Query().Get("session")
	types := r.URL.Query()["types"]

	eventCh := s.bus.Subscribe(types...)
	defer s.bus.Unsubscribe(eventCh)

	s.logger.Info("SSE client connected",
		"remote_addr", r.RemoteAddr, "session_filter", sessionFilter)

	s.sendSSEEvent(w, flusher, "connected", map[string]string{"status": "connected"})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("SSE client disconnected", "remote_addr", r.RemoteAddr)
			return

		case event, ok := <-eventCh:
			if !ok {
				s.logger.Info("event bus closed, ending SSE stream")
				return
			}
			if sessionFilter != "" && event.SessionID() != sessionFilter {
				continue
			}
			// Event structs carry their own json tags; marshal as-is.
			s.sendSSEEvent(w, flusher, event.EventType(), event)
		}
	}
}

// sendSSEEvent writes one event in SSE framing: event: type\ndata: json\n\n.
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to marshal SSE data", "error", err.Error())
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
