package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	req := require.New(t)

	w := httptest.NewRecorder()
	HealthHandler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	resp := w.Result()
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Equal("text/plain", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.Contains(string(body), "running")
}

func TestServeWS_Rejects_Non_GET(t *testing.T) {
	req := require.New(t)

	cfg := NewConfig()
	hub := NewHub(cfg, discardLogger())
	go hub.Run()
	t.Cleanup(func() { _ = hub.Shutdown(time.Second) })

	w := httptest.NewRecorder()
	hub.ServeWS(w, httptest.NewRequest(http.MethodPost, "/ws", nil))
	req.Equal(http.StatusMethodNotAllowed, w.Result().StatusCode)
}

func TestServeWS_Rejects_Disallowed_Origin(t *testing.T) {
	req := require.New(t)

	cfg := NewConfig()
	cfg.AllowedOrigins = []string{"http://localhost:8080"}
	hub := NewHub(cfg, discardLogger())
	go hub.Run()
	t.Cleanup(func() { _ = hub.Shutdown(time.Second) })

	ts := httptest.NewServer(SetupRoutes(hub))
	t.Cleanup(ts.Close)

	header := http.Header{"Origin": []string{"http://evil.example.com"}}
	url := "ws" + ts.URL[len("http"):] + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	req.Error(err)
	if resp != nil {
		req.Equal(http.StatusForbidden, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestMetricsEndpoint(t *testing.T) {
	req := require.New(t)

	cfg := NewConfig()
	hub := NewHub(cfg, discardLogger())
	go hub.Run()
	t.Cleanup(func() { _ = hub.Shutdown(time.Second) })

	ts := httptest.NewServer(WithMiddleware(cfg, SetupRoutes(hub)))
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/metrics")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.Contains(string(body), "relay_participants")
}
