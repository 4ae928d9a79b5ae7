package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosdem/trigl/lib/config"
	"github.com/fosdem/trigl/lib/metrics"
	"github.com/fosdem/trigl/lib/stats"
)

func newServer(t *testing.T) (*Api, *httptest.Server) {
	t.Helper()
	st := stats.New()
	st.SetViewport(800, 600)
	st.Update(1)
	a := New(&config.ApiCfg{Bind: "127.0.0.1:0"}, st)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return a, srv
}

func TestGetStats(t *testing.T) {
	_, srv := newServer(t)

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap stats.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(1), snap.Frames)
	assert.Equal(t, [2]int{800, 600}, snap.Viewport)
}

func TestMetrics(t *testing.T) {
	_, srv := newServer(t)
	metrics.FramesRendered.Inc()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "trigl_frames_rendered_total")
}

func TestProfilerDisabledByDefault(t *testing.T) {
	_, srv := newServer(t)

	resp, err := http.Get(srv.URL + "/prof")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocketPushesStats(t *testing.T) {
	a, srv := newServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var snap stats.Snapshot
	require.NoError(t, json.Unmarshal(msg, &snap))
	assert.Equal(t, uint64(1), snap.Frames)

	assert.Eventually(t, func() bool {
		return a.Stats.Snapshot().WsClients == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool {
		return a.Stats.Snapshot().WsClients == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServeInBackgroundDisabled(t *testing.T) {
	assert.Nil(t, ServeInBackground(&config.ApiCfg{}, stats.New()))
	assert.Nil(t, ServeInBackground(nil, stats.New()))
}
