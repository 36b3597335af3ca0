package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/marianogappa/yaniv-backend/internal/room"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

// normalizeCode case-folds a room code from a URL path or JSON payload to
// lowercase, matching the case newCodeLocked mints codes in.
func normalizeCode(code string) string {
	return strings.ToLower(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the room/yaniv sentinel errors to HTTP status codes:
// not-found sentinels -> 404, everything else validation-shaped -> 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, room.ErrPidNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrNameTooLong),
		errors.Is(err, room.ErrNotCreator),
		errors.Is(err, room.ErrAlreadyStarted),
		errors.Is(err, room.ErrNotEnoughMembers),
		errors.Is(err, room.ErrTooManyAI),
		errors.Is(err, room.ErrGameNotStarted),
		errors.Is(err, room.ErrNotFinished),
		errors.Is(err, room.ErrAlreadyMember),
		errors.Is(err, room.ErrRoomFull),
		errors.Is(err, yaniv.ErrIllegalAction),
		errors.Is(err, yaniv.ErrNotYourTurn),
		errors.Is(err, yaniv.ErrGameFinished),
		errors.Is(err, yaniv.ErrSlamdownUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
