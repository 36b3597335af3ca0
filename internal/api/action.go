package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marianogappa/yaniv-backend/internal/room"
)

var errBadDraw = errors.New("draw must be \"deck\" or a pile index")

// actionRequest overlays the three shapes accepted by POST /api/action: a
// play (discard+draw), a Yaniv declaration, or a slamdown.
type actionRequest struct {
	Code            string          `json:"code"`
	Pid             string          `json:"pid"`
	Discard         []int           `json:"discard"`
	Draw            json.RawMessage `json:"draw"`
	DeclareYaniv    bool            `json:"declareYaniv"`
	DeclareSlamdown bool            `json:"declareSlamdown"`
}

func (s *Server) handleAction(w http.ResponseWriter, req *http.Request) {
	var body actionRequest
	if err := decodeJSON(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	r, ok := s.reg.Get(normalizeCode(body.Code))
	if !ok {
		writeError(w, room.ErrRoomNotFound)
		return
	}

	switch {
	case body.DeclareYaniv:
		if err := s.reg.DeclareYaniv(r, body.Pid); err != nil {
			writeError(w, err)
			return
		}
	case body.DeclareSlamdown:
		if err := s.reg.PerformSlamdown(r, body.Pid); err != nil {
			writeError(w, err)
			return
		}
	default:
		drawFromDeck, drawPileIndex, err := parseDraw(body.Draw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "draw must be \"deck\" or a pile index"})
			return
		}
		if err := s.reg.PlayTurn(r, body.Pid, body.Discard, drawFromDeck, drawPileIndex); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parseDraw decodes the draw field, which is either the string "deck" or
// an integer draw-pile index.
func parseDraw(raw json.RawMessage) (drawFromDeck bool, pileIndex int, err error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s != "deck" {
			return false, 0, errBadDraw
		}
		return true, 0, nil
	}
	if err := json.Unmarshal(raw, &pileIndex); err == nil {
		return false, pileIndex, nil
	}
	return false, 0, errBadDraw
}
