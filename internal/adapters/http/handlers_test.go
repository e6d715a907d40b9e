package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huddleapp/huddle/internal/app"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/metrics"
)

func newTestRouter(t *testing.T) (*gin.Engine, *app.Relay) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	relay := &app.Relay{
		Registry: app.NewRegistry(),
		Rooms:    app.NewStore(),
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
	h := &Handlers{
		Relay:      relay,
		ICEServers: []config.ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}},
	}

	r := gin.New()
	r.GET("/healthz", h.Healthz)
	api := r.Group("/api")
	api.POST("/create-meeting", h.CreateMeeting)
	api.GET("/session/:name", h.GetSession)
	api.GET("/users/:name", h.ListUsers)
	api.GET("/chat_history/:name", h.GetChatHistory)
	api.GET("/rtc-config", h.RTCConfig)
	api.POST("/transcribe", h.Transcribe)
	return r, relay
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Body.String(), "{") {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return w, decoded
}

func TestCreateMeeting(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/create-meeting", `{"username":"alice","meeting_name":"standup"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body)
	}
	if body["meeting_name"] != "standup" {
		t.Fatalf("body=%v", body)
	}

	t.Run("duplicate name", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPost, "/api/create-meeting", `{"username":"mallory","meeting_name":"standup"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", w.Code)
		}
		if body["error"] != "Meeting ID already exists, please try again" {
			t.Fatalf("error=%v", body["error"])
		}
	})

	t.Run("empty username", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/create-meeting", `{"username":"","meeting_name":"retro"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", w.Code)
		}
	})

	t.Run("missing meeting name", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/create-meeting", `{"username":"alice"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", w.Code)
		}
	})
}

func TestGetSession(t *testing.T) {
	r, relay := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/session/standup", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}

	if err := relay.CreateMeeting("standup", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w, body := doJSON(t, r, http.MethodGet, "/api/session/standup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if body["meeting_name"] != "standup" || body["host"] != "alice" {
		t.Fatalf("body=%v", body)
	}
}

func TestSessionGoneAfterLastDisconnect(t *testing.T) {
	r, relay := newTestRouter(t)
	if err := relay.CreateMeeting("standup", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := relay.Connect(nopConn{})
	if err := relay.Join(id, "alice", "standup"); err != nil {
		t.Fatalf("join: %v", err)
	}
	relay.Disconnect(id)

	w, _ := doJSON(t, r, http.MethodGet, "/api/session/standup", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404 after teardown", w.Code)
	}
}

func TestListUsers(t *testing.T) {
	r, relay := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/users/standup", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}

	if err := relay.CreateMeeting("standup", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := relay.Connect(nopConn{})
	if err := relay.Join(id, "alice", "standup"); err != nil {
		t.Fatalf("join: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/standup", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var users []string
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 1 || users[0] != "alice" {
		t.Fatalf("users=%v", users)
	}

	t.Run("over capacity", func(t *testing.T) {
		for i := 0; i < domain.MaxListedMembers; i++ {
			id := relay.Connect(nopConn{})
			if err := relay.Join(id, fmt.Sprintf("user%d", i), "standup"); err != nil {
				t.Fatalf("join: %v", err)
			}
		}
		w, _ := doJSON(t, r, http.MethodGet, "/api/users/standup", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status=%d, want 404 over capacity", w.Code)
		}
	})
}

func TestGetChatHistory(t *testing.T) {
	r, relay := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/chat_history/standup", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}

	if err := relay.CreateMeeting("standup", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := relay.Connect(nopConn{})
	if err := relay.Join(id, "alice", "standup"); err != nil {
		t.Fatalf("join: %v", err)
	}
	for _, text := range []string{"first", "second"} {
		if err := relay.Chat("standup", "alice", text); err != nil {
			t.Fatalf("chat: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat_history/standup", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var history []domain.ChatMessage
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 2 || history[0].Text != "first" || history[1].Text != "second" {
		t.Fatalf("history=%v", history)
	}
}

func TestRTCConfig(t *testing.T) {
	r, _ := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodGet, "/api/rtc-config", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if _, ok := body["iceServers"]; !ok {
		t.Fatalf("body=%v", body)
	}
}

func TestTranscribeUnavailable(t *testing.T) {
	r, _ := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/transcribe", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503 with no transcriber", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || body["ok"] != true {
		t.Fatalf("status=%d body=%v", w.Code, body)
	}
}

// nopConn satisfies core.SignalConnection for handler tests that only
// exercise the REST surface.
type nopConn struct{}

func (nopConn) TrySend(core.Frame) error       { return nil }
func (nopConn) TrySendBinary(core.Frame) error { return nil }
func (nopConn) Close()                         {}
