package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEventsSendsInitialSnapshotThenStopsOnDisconnect(t *testing.T) {
	s, h := newTestServer()

	rec := doJSON(t, h, "POST", "/api/create", createRequest{Name: "Alice"})
	var created map[string]string
	decodeBody(t, rec, &created)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest("GET", "/api/events/"+created["code"]+"/"+created["pid"], nil).WithContext(ctx)
	req = mux.SetURLVars(req, map[string]string{"code": created["code"], "pid": created["pid"]})
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.handleEvents(w, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleEvents should return once the request context is done")
	}

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event: room"))
	assert.True(t, strings.Contains(body, created["code"]))
}

func TestHandleEventsUnknownRoomIs404(t *testing.T) {
	_, h := newTestServer()
	rec := doJSON(t, h, "GET", "/api/events/zzzzz/pid1", nil)
	require.Equal(t, 404, rec.Code)
}
