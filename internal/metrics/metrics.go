// Package metrics holds the Prometheus collectors for playback and voice
// connection activity.
package metrics

import (
	"net/http"

	"github.com/glizzus/goonbot/internal/apperr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	playRequests    *prometheus.CounterVec
	entryPlays      prometheus.Counter
	idleDisconnects prometheus.Counter
	playing         prometheus.Gauge
}

// New registers the collectors on a fresh registry along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		playRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goonbot",
			Name:      "play_requests_total",
			Help:      "Play requests by outcome.",
		}, []string{"outcome"}),
		entryPlays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "goonbot",
			Name:      "entry_plays_total",
			Help:      "Entry sounds started by a user joining the bot's channel.",
		}),
		idleDisconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "goonbot",
			Name:      "idle_disconnects_total",
			Help:      "Voice connections closed after the idle timeout.",
		}),
		playing: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "goonbot",
			Name:      "playing",
			Help:      "1 while audio is streaming to the voice channel.",
		}),
	}
}

// Outcome labels a play request result.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindInvalidCommand:
		return "invalid"
	case apperr.KindBusy:
		return "busy"
	case apperr.KindConnection:
		return "connection"
	default:
		return "error"
	}
}

// PlayRequest counts a play request. A nil receiver records nothing.
func (m *Metrics) PlayRequest(err error) {
	if m == nil {
		return
	}
	m.playRequests.WithLabelValues(Outcome(err)).Inc()
}

func (m *Metrics) EntryPlay() {
	if m == nil {
		return
	}
	m.entryPlays.Inc()
}

func (m *Metrics) IdleDisconnect() {
	if m == nil {
		return
	}
	m.idleDisconnects.Inc()
}

func (m *Metrics) SetPlaying(playing bool) {
	if m == nil {
		return
	}
	if playing {
		m.playing.Set(1)
	} else {
		m.playing.Set(0)
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
