package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fxscore",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket clients",
		},
	)

	WebsocketMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fxscore",
			Subsystem: "ws",
			Name:      "messages_total",
			Help:      "Websocket messages by outcome (sent, dropped)",
		},
		[]string{"outcome"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fxscore",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Write requests rejected by the per-IP limiter",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(WebsocketClients, WebsocketMessages, RateLimited)
	})
}
