package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics uses a private registry so multiple Server instances (tests
// spin up several) never fight over collector registration.
type metrics struct {
	registry      *prometheus.Registry
	RoomsCreated  prometheus.Counter
	PlayersJoined prometheus.Counter
	VotesCast     prometheus.Counter
	RoundsPlayed  prometheus.Counter
	GamesFinished prometheus.Counter
	ActiveRooms   prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truthorlie",
			Name:      "rooms_created_total",
			Help:      "Total number of rooms created",
		}),
		PlayersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truthorlie",
			Name:      "players_joined_total",
			Help:      "Total number of players joined",
		}),
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truthorlie",
			Name:      "votes_cast_total",
			Help:      "Total number of votes cast",
		}),
		RoundsPlayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truthorlie",
			Name:      "rounds_revealed_total",
			Help:      "Total number of rounds revealed",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truthorlie",
			Name:      "games_finished_total",
			Help:      "Total number of games finished",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "truthorlie",
			Name:      "active_rooms",
			Help:      "Number of rooms not yet finished",
		}),
	}
	m.registry.MustRegister(
		m.RoomsCreated,
		m.PlayersJoined,
		m.VotesCast,
		m.RoundsPlayed,
		m.GamesFinished,
		m.ActiveRooms,
	)
	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
