package server

import (
	"net/http"

	"gorm.io/gorm"

	"truth-or-lie/internal/config"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	ws       *wsHub
	cfg      config.Config
	sessions *sessionStore
	limiter  *rateLimiter
	metrics  *metrics
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	store := NewStore()
	if cfg.CodeAttempts > 0 {
		store.codeAttempts = cfg.CodeAttempts
	}
	return &Server{
		store:    store,
		db:       conn,
		ws:       newWSHub(),
		cfg:      cfg,
		sessions: newSessionStore(conn),
		limiter:  newRateLimiter(cfg.RateLimitPerMinute),
		metrics:  newMetrics(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("POST /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("GET /ws/rooms/", s.handleWebsocket)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}
