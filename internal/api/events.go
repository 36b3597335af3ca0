package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/marianogappa/yaniv-backend/internal/room"
)

const heartbeatInterval = 25 * time.Second

// handleEvents is the push channel: text/event-stream, one subscriber per
// (code, pid), replaced atomically on reconnect. Sets the SSE headers, then
// selects over the subscriber channel and a heartbeat ticker, unregistering
// on client disconnect.
func (s *Server) handleEvents(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	code, pid := normalizeCode(vars["code"]), vars["pid"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	_, sub, ok := s.reg.Subscribe(code, pid)
	if !ok {
		writeError(w, room.ErrRoomNotFound)
		return
	}
	defer s.reg.Unsubscribe(code, pid, sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-sub.Chan():
			if !ok {
				return
			}
			sendSnapshotEvent(w, flusher, snap)
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-req.Context().Done():
			return
		}
	}
}

func sendSnapshotEvent(w http.ResponseWriter, flusher http.Flusher, snap room.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: room\ndata: %s\n\n", data)
	flusher.Flush()
}
