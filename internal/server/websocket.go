package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"truth-or-lie/internal/logger"
)

// wsHub is the change-notification feed: one connection group per room
// code. The feed is best-effort; clients recover from anything missed by
// re-pulling the full snapshot.
type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[code] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, code)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(code string, payload any) {
	h.mu.Lock()
	group := h.groups[code]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(code, conn)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	code, ok := parseWebsocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	room, exists := s.store.GetRoom(code)
	if !exists {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	logger.Log.Infof("ws connected room_code=%s remote=%s", code, r.RemoteAddr)
	s.ws.Add(code, conn)
	s.ws.Send(conn, wsMessage("snapshot", snapshot(room)))
	go s.readWS(code, conn)
}

func (s *Server) readWS(code string, conn *websocket.Conn) {
	defer s.ws.Remove(code, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logger.Log.Infof("ws disconnected room_code=%s error=%v", code, err)
			return
		}
	}
}

func wsMessage(messageType string, payload map[string]any) map[string]any {
	message := map[string]any{"type": messageType}
	for key, value := range payload {
		message[key] = value
	}
	return message
}

// broadcastRoomUpdate pushes the full public snapshot after any accepted
// mutation.
func (s *Server) broadcastRoomUpdate(room *Room) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(room.Code, wsMessage("snapshot", snapshot(room)))
}

// broadcastVoteCast pushes a lightweight tally update while a round is
// open, mirroring the per-round vote channel clients subscribe to.
func (s *Server) broadcastVoteCast(room *Room) {
	if s.ws == nil {
		return
	}
	round := currentRound(room)
	if round == nil {
		return
	}
	truths, lies := voteCounts(round)
	s.ws.Broadcast(room.Code, map[string]any{
		"type":           "vote_cast",
		"room_code":      room.Code,
		"round_number":   round.Number,
		"votes_cast":     len(round.Votes),
		"expected_votes": expectedVotes(room),
		"vote_counts":    map[string]int{choiceTruth: truths, choiceLie: lies},
	})
}
