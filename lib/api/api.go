package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fosdem/trigl/lib/config"
	"github.com/fosdem/trigl/lib/metrics"
	"github.com/fosdem/trigl/lib/stats"
)

type Api struct {
	srv  http.Server
	mux  *http.ServeMux
	cfg  *config.ApiCfg
	once sync.Once

	Stats *stats.Stats

	wsMutex   sync.Mutex
	wsClients map[*websocket.Conn]bool
}

func logger() *slog.Logger {
	return slog.With("module", "api")
}

func New(cfg *config.ApiCfg, st *stats.Stats) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]bool)
	a.Stats = st
	return a
}

// Handler returns the mux with every route registered.
func (a *Api) Handler() http.Handler {
	a.once.Do(func() {
		if a.cfg.EnableProfiler {
			a.mux.HandleFunc("/prof", a.profileCPU)
		}
		a.mux.Handle("/metrics", metrics.Handler())
		a.mux.HandleFunc("/api/stats", a.getStats)
		a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	})
	return a.mux
}

func (a *Api) Serve() error {
	a.Handler()
	return a.srv.ListenAndServe()
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

// ServeInBackground starts the API unless it is disabled (no bind address).
// The render loop never waits on it.
func ServeInBackground(cfg *config.ApiCfg, st *stats.Stats) *Api {
	if cfg == nil || cfg.Bind == "" {
		return nil
	}
	theApi := New(cfg, st)

	logger().Info(fmt.Sprintf("starting web server on %s", cfg.Bind))
	go func() {
		err := theApi.Serve()
		if err != nil {
			logger().Error(fmt.Sprintf("web server stopped: %s", err))
		}
	}()
	return theApi
}
