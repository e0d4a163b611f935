package server

import (
	"net/http"

	"truth-or-lie/internal/db"
	"truth-or-lie/internal/logger"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	Name string `json:"name" validate:"required"`
}

type truthRequest struct {
	Statement string `json:"statement" validate:"required"`
}

type voteRequest struct {
	Choice string `json:"choice" validate:"required,votechoice"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create") {
		return
	}
	var req createRoomRequest
	if r.ContentLength > 0 {
		if err := readJSON(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	name, err := validateRoomName(req.Name, s.cfg.DefaultRoomName)
	if err != nil {
		writeGameError(w, err)
		return
	}

	sessionID := s.sessions.EnsureID(w, r)
	room, err := s.store.CreateRoom(name, sessionID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.persistRoom(room); err != nil {
		writeError(w, errorStatus(err), "failed to create room")
		return
	}
	s.metrics.RoomsCreated.Inc()
	s.metrics.ActiveRooms.Set(float64(s.store.CountActiveRooms()))
	logger.Log.Infof("room created room_code=%s room_name=%s", room.Code, room.Name)
	writeJSON(w, http.StatusCreated, map[string]string{
		"room_code": room.Code,
		"room_name": room.Name,
	})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	summaries := s.store.ListRoomSummaries()
	rooms := make([]map[string]any, 0, len(summaries))
	for _, summary := range summaries {
		rooms = append(rooms, map[string]any{
			"room_code": summary.Code,
			"room_name": summary.Name,
			"status":    summary.Status,
			"players":   summary.Players,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	code, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := validateCode(code); err != nil {
		writeGameError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "":
			s.handleGetRoom(w, r, code)
		case "view":
			s.handleView(w, r, code)
		case "results":
			s.handleResults(w, r, code)
		case "events":
			s.handleEvents(w, r, code)
		case "qr":
			s.handleJoinQR(w, r, code)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoin(w, r, code)
		case "truth":
			s.handleTruth(w, r, code)
		case "start":
			s.handleStart(w, r, code)
		case "votes":
			s.handleVote(w, r, code)
		case "reveal":
			s.handleReveal(w, r, code)
		case "next":
			s.handleNext(w, r, code)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, code string) {
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "join") {
		return
	}
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeGameError(w, err)
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeGameError(w, err)
		return
	}

	sessionID := s.sessions.EnsureID(w, r)
	room, player, err := s.store.AddPlayer(code, name, sessionID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.persistPlayer(room, player); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join room")
		return
	}
	s.sessions.BindPlayer(sessionID, code, player.ID)
	s.metrics.PlayersJoined.Inc()
	logger.Log.Infof("player joined room_code=%s player_id=%d player_name=%s", code, player.ID, name)

	writeJSON(w, http.StatusOK, map[string]any{
		"room_code": room.Code,
		"player_id": player.ID,
		"player":    name,
	})
	s.broadcastRoomUpdate(room)
}

func (s *Server) handleTruth(w http.ResponseWriter, r *http.Request, code string) {
	var req truthRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "statement is required")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeGameError(w, err)
		return
	}
	statement, err := validateStatement(req.Statement)
	if err != nil {
		writeGameError(w, err)
		return
	}

	sessionID := s.sessions.EnsureID(w, r)
	playerID, joined := s.sessions.PlayerID(sessionID, code)
	if !joined {
		writeGameError(w, authorizationError("join the room before setting a statement"))
		return
	}

	var target *Player
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		player, ok := findPlayer(room, playerID)
		if !ok {
			return authorizationError("not a player in this room")
		}
		if player.HasSpoken {
			return conflictError("statement is locked after your round")
		}
		if round := currentRound(room); round != nil && round.SpeakerID == player.ID {
			return conflictError("statement is locked while you are the speaker")
		}
		player.TruthStatement = statement
		target = player
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.persistStatement(room, target); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save statement")
		return
	}
	logger.Log.Infof("truth set room_code=%s player_id=%d", code, playerID)

	writeJSON(w, http.StatusOK, map[string]any{
		"room_code": room.Code,
		"player_id": playerID,
		"ready":     true,
	})
	s.broadcastRoomUpdate(room)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, code string) {
	sessionID := s.sessions.EnsureID(w, r)
	room, err := s.startGame(code, sessionID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	round := currentRound(room)
	if round == nil {
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}
	if err := s.persistRound(room, round); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}
	logger.Log.Infof("game started room_code=%s speaker_id=%d", code, round.SpeakerID)

	writeJSON(w, http.StatusOK, snapshot(room))
	s.broadcastRoomUpdate(room)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request, code string) {
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "choice is required")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeGameError(w, err)
		return
	}

	sessionID := s.sessions.EnsureID(w, r)
	playerID, joined := s.sessions.PlayerID(sessionID, code)
	if !joined {
		writeGameError(w, authorizationError("join the room before voting"))
		return
	}

	room, vote, err := s.castVote(code, playerID, req.Choice)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if round := currentRound(room); round != nil && vote != nil {
		if err := s.persistVote(room, round, vote); err != nil {
			writeError(w, errorStatus(err), "failed to record vote")
			return
		}
	}
	s.metrics.VotesCast.Inc()
	logger.Log.Infof("vote cast room_code=%s player_id=%d choice=%s", code, playerID, req.Choice)

	writeJSON(w, http.StatusOK, snapshot(room))
	s.broadcastVoteCast(room)
	s.broadcastRoomUpdate(room)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request, code string) {
	sessionID := s.sessions.EnsureID(w, r)
	room, err := s.revealRound(code, sessionID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	round := currentRound(room)
	if round != nil {
		if err := s.persistReveal(room, round); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to reveal round")
			return
		}
	}
	s.metrics.RoundsPlayed.Inc()
	logger.Log.Infof("round revealed room_code=%s round=%d", code, room.CurrentRound)

	writeJSON(w, http.StatusOK, snapshot(room))
	s.broadcastRoomUpdate(room)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request, code string) {
	sessionID := s.sessions.EnsureID(w, r)
	room, outgoingSpeakerID, err := s.advanceRound(code, sessionID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.persistSpeakerSpoken(room, outgoingSpeakerID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to advance round")
		return
	}
	if room.Status == statusFinished {
		if err := s.persistFinish(room); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to finish game")
			return
		}
		s.metrics.GamesFinished.Inc()
		s.metrics.ActiveRooms.Set(float64(s.store.CountActiveRooms()))
		logger.Log.Infof("game finished room_code=%s rounds=%d", code, len(room.Rounds))
	} else if round := currentRound(room); round != nil {
		if err := s.persistRound(room, round); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to advance round")
			return
		}
		logger.Log.Infof("round started room_code=%s round=%d speaker_id=%d", code, round.Number, round.SpeakerID)
	}

	writeJSON(w, http.StatusOK, snapshot(room))
	s.broadcastRoomUpdate(room)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request, code string) {
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sessionID := s.sessions.EnsureID(w, r)
	playerID, joined := s.sessions.PlayerID(sessionID, code)
	writeJSON(w, http.StatusOK, buildObserverView(room, sessionID, playerID, joined))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request, code string) {
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	tally := make([]map[string]any, 0)
	for i := range room.Rounds {
		round := &room.Rounds[i]
		if !round.Revealed {
			continue
		}
		tally = append(tally, map[string]any{
			"round":      round.Number,
			"speaker_id": round.SpeakerID,
			"speaker":    playerName(room, round.SpeakerID),
			"mistakes":   roundMistakes(round),
		})
	}
	payload := map[string]any{
		"room_code": room.Code,
		"status":    room.Status,
		"rounds":    tally,
	}
	if result, ok := biggestLiar(room); ok {
		payload["biggest_liar"] = map[string]any{
			"player_id": result.PlayerID,
			"name":      result.Name,
			"mistakes":  result.Mistakes,
		}
	} else {
		payload["biggest_liar"] = nil
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, code string) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "events not available")
		return
	}
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.ensureRoomDBID(room); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}
	var records []db.Event
	if err := s.db.Where("room_id = ?", room.DBID).Order("created_at asc").Find(&records).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	events := make([]map[string]any, 0, len(records))
	for _, record := range records {
		events = append(events, map[string]any{
			"id":         record.ID,
			"type":       record.Type,
			"created_at": record.CreatedAt,
			"payload":    record.Payload,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_code": room.Code,
		"events":    events,
	})
}
