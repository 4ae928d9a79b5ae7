package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trigl_frames_rendered_total",
		Help: "Total number of frames presented by the render loop",
	})
	DrawCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trigl_draw_calls_total",
		Help: "Total number of draw calls issued",
	}, []string{"kind"})
	ShaderBuildFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trigl_shader_build_failures_total",
		Help: "Total number of failed shader compile or link attempts",
	}, []string{"stage"})
	ViewportResizes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trigl_viewport_resizes_total",
		Help: "Total number of viewport updates caused by window resizes",
	})
	LoopRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trigl_render_loop_running",
		Help: "1 while the render loop is running",
	})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
