package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"truth-or-lie/internal/db"
)

// sessionStore hands every device an opaque session credential and
// remembers which player that credential maps to in each room. Callers of
// set_truth and cast_vote are always resolved through this binding, never
// from a client-supplied player id. Bindings are written through to the
// database when one is configured; the in-memory map keeps storeless
// servers and tests working.
type sessionStore struct {
	db       *gorm.DB
	mu       sync.Mutex
	bindings map[string]map[string]int
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:       conn,
		bindings: make(map[string]map[string]int),
	}
}

const sessionCookie = "tol_session"

// EnsureID returns the caller's session id, minting and setting a cookie
// on first contact.
func (s *sessionStore) EnsureID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *sessionStore) BindPlayer(sessionID, roomCode string, playerID int) {
	s.mu.Lock()
	rooms := s.bindings[sessionID]
	if rooms == nil {
		rooms = make(map[string]int)
		s.bindings[sessionID] = rooms
	}
	rooms[roomCode] = playerID
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	record := db.Session{
		SessionID: sessionID,
		RoomCode:  roomCode,
		PlayerID:  uint(playerID),
	}
	_ = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "room_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"player_id"}),
	}).Create(&record).Error
}

func (s *sessionStore) PlayerID(sessionID, roomCode string) (int, bool) {
	s.mu.Lock()
	if rooms := s.bindings[sessionID]; rooms != nil {
		if playerID, ok := rooms[roomCode]; ok {
			s.mu.Unlock()
			return playerID, true
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return 0, false
	}
	var record db.Session
	err := s.db.Where("session_id = ? AND room_code = ?", sessionID, roomCode).First(&record).Error
	if err != nil {
		return 0, false
	}
	return int(record.PlayerID), true
}
