package server

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is the authoritative in-memory state. Every mutation runs under
// the store mutex, which serializes concurrent remote-procedure calls for
// a room: duplicate votes and next-round races resolve deterministically
// here, and the database only ever sees already-accepted state.
type Store struct {
	mu           sync.Mutex
	nextPlayerID int
	rooms        map[string]*Room
	newCode      func() string
	codeAttempts int
}

func NewStore() *Store {
	return &Store{
		nextPlayerID: 1,
		rooms:        make(map[string]*Room),
		newCode:      newRoomCode,
		codeAttempts: 12,
	}
}

func (s *Store) CreateRoom(name, hostSessionID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		code := s.newCode()
		if _, taken := s.rooms[code]; taken {
			continue
		}
		room := &Room{
			Code:          code,
			Name:          name,
			Status:        statusLobby,
			HostSessionID: hostSessionID,
			CreatedAt:     timeNowUTC(),
		}
		s.rooms[code] = room
		return room, nil
	}
	return nil, exhaustedError("no free room code after %d attempts", s.codeAttempts)
}

func (s *Store) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	return room, ok
}

// UpdateRoom applies update atomically. The room is left untouched when
// the closure fails, so every rejected procedure leaves state unchanged.
func (s *Store) UpdateRoom(code string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, notFoundError("room not found")
	}
	if err := update(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Store) AddPlayer(code, name, sessionID string) (*Room, *Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, nil, notFoundError("room not found")
	}
	if room.Status != statusLobby {
		return nil, nil, conflictError("room already started")
	}

	player := Player{
		ID:        s.nextPlayerID,
		Name:      name,
		SessionID: sessionID,
	}
	s.nextPlayerID++
	room.Players = append(room.Players, player)
	return room, &room.Players[len(room.Players)-1], nil
}

func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, RoomSummary{
			Code:    room.Code,
			Name:    room.Name,
			Status:  room.Status,
			Players: len(room.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list
}

func (s *Store) CountActiveRooms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := 0
	for _, room := range s.rooms {
		if room.Status != statusFinished {
			active++
		}
	}
	return active
}

func findPlayer(room *Room, playerID int) (*Player, bool) {
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			return &room.Players[i], true
		}
	}
	return nil, false
}

func playerName(room *Room, playerID int) string {
	if player, ok := findPlayer(room, playerID); ok {
		return player.Name
	}
	return ""
}

func currentRound(room *Room) *RoundState {
	if room.CurrentRound == 0 {
		return nil
	}
	for i := range room.Rounds {
		if room.Rounds[i].Number == room.CurrentRound {
			return &room.Rounds[i]
		}
	}
	return nil
}

func hasStatement(player *Player) bool {
	return strings.TrimSpace(player.TruthStatement) != ""
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
