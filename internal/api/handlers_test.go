package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianogappa/yaniv-backend/internal/room"
	"github.com/marianogappa/yaniv-backend/internal/store"
)

func newTestServer() (*Server, http.Handler) {
	reg := room.NewRegistry(store.NewMemoryStore())
	s := New(reg, false)
	return s, s.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	decodeBody(t, rec, &out)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, false, out["degraded"])
}

func TestHandleCreateAndGetRoom(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice", AICount: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]string
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created["code"])
	require.NotEmpty(t, created["pid"])

	rec2 := doJSON(t, h, http.MethodGet, "/api/room/"+created["code"]+"?pid="+created["pid"], nil)
	assert.Equal(t, http.StatusOK, rec2.Code)
	var snap room.Snapshot
	decodeBody(t, rec2, &snap)
	assert.Equal(t, created["code"], snap.Code)
	assert.Len(t, snap.Members, 2)
}

func TestHandleCreateRejectsBadName(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetRoomUnknownCodeIs404(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodGet, "/api/room/zzzzz", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoomCodesAreCaseFoldedToLowercase(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice"})
	var created map[string]string
	decodeBody(t, rec, &created)

	upper := strings.ToUpper(created["code"])
	getRec := doJSON(t, h, http.MethodGet, "/api/room/"+upper+"?pid="+created["pid"], nil)
	assert.Equal(t, http.StatusOK, getRec.Code)

	joinRec := doJSON(t, h, http.MethodPost, "/api/join", joinRequest{Code: upper, Name: "Bob"})
	assert.Equal(t, http.StatusOK, joinRec.Code)
}

func TestHandleJoinAndLeave(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice"})
	var created map[string]string
	decodeBody(t, rec, &created)

	joinRec := doJSON(t, h, http.MethodPost, "/api/join", joinRequest{Code: created["code"], Name: "Bob"})
	require.Equal(t, http.StatusOK, joinRec.Code)
	var joined map[string]string
	decodeBody(t, joinRec, &joined)
	require.NotEmpty(t, joined["pid"])

	leaveRec := doJSON(t, h, http.MethodPost, "/api/leave", leaveRequest{Code: created["code"], Pid: joined["pid"]})
	assert.Equal(t, http.StatusOK, leaveRec.Code)
}

func TestHandleStartAndPlayAgainLifecycle(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice", AICount: 1})
	var created map[string]string
	decodeBody(t, rec, &created)

	notCreatorStart := doJSON(t, h, http.MethodPost, "/api/start", startRequest{Code: created["code"], Pid: "bogus"})
	assert.Equal(t, http.StatusBadRequest, notCreatorStart.Code)

	startRec := doJSON(t, h, http.MethodPost, "/api/start", startRequest{Code: created["code"], Pid: created["pid"]})
	assert.Equal(t, http.StatusOK, startRec.Code)

	// Game isn't finished yet: playAgain must be rejected.
	playAgainRec := doJSON(t, h, http.MethodPost, "/api/playAgain", playAgainRequest{Code: created["code"], Pid: created["pid"]})
	assert.Equal(t, http.StatusBadRequest, playAgainRec.Code)
}

func TestHandleOptionsRequiresCreator(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice"})
	var created map[string]string
	decodeBody(t, rec, &created)

	optRec := doJSON(t, h, http.MethodPost, "/api/options", optionsRequest{Code: created["code"], Pid: "bogus", SlamdownsAllowed: true})
	assert.Equal(t, http.StatusBadRequest, optRec.Code)

	optRec2 := doJSON(t, h, http.MethodPost, "/api/options", optionsRequest{Code: created["code"], Pid: created["pid"], SlamdownsAllowed: true})
	assert.Equal(t, http.StatusOK, optRec2.Code)
}

func TestHandleActionPlaysATurn(t *testing.T) {
	s, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice"})
	var created map[string]string
	decodeBody(t, rec, &created)
	joinRec := doJSON(t, h, http.MethodPost, "/api/join", joinRequest{Code: created["code"], Name: "Bob"})
	var joined map[string]string
	decodeBody(t, joinRec, &joined)

	startRec := doJSON(t, h, http.MethodPost, "/api/start", startRequest{Code: created["code"], Pid: created["pid"]})
	require.Equal(t, http.StatusOK, startRec.Code)

	r, ok := s.reg.Get(created["code"])
	require.True(t, ok)
	currentIdx := r.Game.CurrentPlayerIndex
	currentPid := created["pid"]
	if currentIdx == 1 {
		currentPid = joined["pid"]
	}
	discardID := r.Game.Players[currentIdx].Hand[0].ID

	actionBody := map[string]any{
		"code":    created["code"],
		"pid":     currentPid,
		"discard": []int{discardID},
		"draw":    "deck",
	}
	actionRec := doJSON(t, h, http.MethodPost, "/api/action", actionBody)
	assert.Equal(t, http.StatusOK, actionRec.Code)
}

func TestHandleActionRejectsMalformedDraw(t *testing.T) {
	s, h := newTestServer()
	rec := doJSON(t, h, http.MethodPost, "/api/create", createRequest{Name: "Alice"})
	var created map[string]string
	decodeBody(t, rec, &created)
	doJSON(t, h, http.MethodPost, "/api/join", joinRequest{Code: created["code"], Name: "Bob"})
	doJSON(t, h, http.MethodPost, "/api/start", startRequest{Code: created["code"], Pid: created["pid"]})

	r, ok := s.reg.Get(created["code"])
	require.True(t, ok)
	currentIdx := r.Game.CurrentPlayerIndex
	currentPid := created["pid"]
	discardID := r.Game.Players[currentIdx].Hand[0].ID

	actionBody := map[string]any{
		"code":    created["code"],
		"pid":     currentPid,
		"discard": []int{discardID},
		"draw":    "not-a-real-option",
	}
	actionRec := doJSON(t, h, http.MethodPost, "/api/action", actionBody)
	assert.Equal(t, http.StatusBadRequest, actionRec.Code)
}
