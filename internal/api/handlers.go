package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/marianogappa/yaniv-backend/internal/room"
)

type createRequest struct {
	Name    string `json:"name"`
	Pid     string `json:"pid"`
	AICount int    `json:"aiCount"`
}

func (s *Server) handleCreate(w http.ResponseWriter, req *http.Request) {
	var body createRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	r, pid, err := s.reg.CreateRoom(body.Name, body.Pid, body.AICount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": r.Code, "pid": pid})
}

type joinRequest struct {
	Code string `json:"code"`
	Pid  string `json:"pid"`
	Name string `json:"name"`
}

func (s *Server) handleJoin(w http.ResponseWriter, req *http.Request) {
	var body joinRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	r, pid, err := s.reg.JoinRoom(normalizeCode(body.Code), body.Name, body.Pid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": r.Code, "pid": pid})
}

type leaveRequest struct {
	Code string `json:"code"`
	Pid  string `json:"pid"`
}

func (s *Server) handleLeave(w http.ResponseWriter, req *http.Request) {
	var body leaveRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if err := s.reg.LeaveRoom(normalizeCode(body.Code), body.Pid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, req *http.Request) {
	code := normalizeCode(mux.Vars(req)["code"])
	pid := req.URL.Query().Get("pid")
	r, ok := s.reg.Get(code)
	if !ok {
		writeError(w, room.ErrRoomNotFound)
		return
	}
	writeJSON(w, http.StatusOK, r.Snapshot(pid))
}

type optionsRequest struct {
	Code             string `json:"code"`
	Pid              string `json:"pid"`
	SlamdownsAllowed bool   `json:"slamdownsAllowed"`
}

func (s *Server) handleOptions(w http.ResponseWriter, req *http.Request) {
	var body optionsRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	r, ok := s.reg.Get(normalizeCode(body.Code))
	if !ok {
		writeError(w, room.ErrRoomNotFound)
		return
	}
	if err := r.SetOptions(body.Pid, body.SlamdownsAllowed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"options": map[string]bool{"slamdownsAllowed": body.SlamdownsAllowed},
	})
}

type startRequest struct {
	Code             string `json:"code"`
	Pid              string `json:"pid"`
	SlamdownsAllowed *bool  `json:"slamdownsAllowed"`
}

func (s *Server) handleStart(w http.ResponseWriter, req *http.Request) {
	var body startRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	r, ok := s.reg.Get(normalizeCode(body.Code))
	if !ok {
		writeError(w, room.ErrRoomNotFound)
		return
	}
	if err := s.reg.Start(r, body.Pid, body.SlamdownsAllowed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type playAgainRequest struct {
	Code string `json:"code"`
	Pid  string `json:"pid"`
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, req *http.Request) {
	var body playAgainRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	r, ok := s.reg.Get(normalizeCode(body.Code))
	if !ok {
		writeError(w, room.ErrRoomNotFound)
		return
	}
	nextCode, err := s.reg.PlayAgain(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"nextRoom": nextCode})
}
