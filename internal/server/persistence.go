package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"

	"truth-or-lie/internal/db"
)

// Write-through persistence. The in-memory store is authoritative; these
// helpers mirror accepted mutations into Postgres and the append-only
// event log. Every function is a no-op without a database so the server
// can run memory-only.

func (s *Server) persistRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	record := db.Room{
		Code:          room.Code,
		Name:          room.Name,
		Status:        room.Status,
		HostSessionID: room.HostSessionID,
	}
	// A stale row from an earlier process may still hold this code. That
	// row is a different game, so its history must not be extended;
	// surface the conflict instead of resolving to the old id.
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return conflictError("room code already recorded")
		}
		return err
	}
	room.DBID = record.ID
	return s.persistEvent(room, "room_created", EventPayload{
		RoomCode: room.Code,
		RoomName: room.Name,
	})
}

func (s *Server) ensureRoomDBID(room *Room) error {
	if s.db == nil || room.DBID != 0 {
		return nil
	}
	var record db.Room
	if err := s.db.Where("code = ?", room.Code).First(&record).Error; err != nil {
		return err
	}
	room.DBID = record.ID
	return nil
}

func (s *Server) persistPlayer(room *Room, player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID != 0 {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return errors.New("room not found")
	}
	record := db.Player{
		RoomID:   room.DBID,
		Name:     player.Name,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	player.DBID = record.ID
	return s.persistEvent(room, "player_joined", EventPayload{
		PlayerName: player.Name,
		PlayerID:   player.ID,
	})
}

func (s *Server) persistStatement(room *Room, player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID == 0 {
		return errors.New("player not found")
	}
	err := s.db.Model(&db.Player{}).
		Where("id = ?", player.DBID).
		Update("truth_statement", player.TruthStatement).Error
	if err != nil {
		return err
	}
	// The statement itself never enters the event log: the log is
	// readable while the game is still running.
	return s.persistEvent(room, "truth_set", EventPayload{
		PlayerID: player.ID,
	})
}

func (s *Server) persistRound(room *Room, round *RoundState) error {
	if s.db == nil {
		return nil
	}
	if round.DBID != 0 {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	speakerDBID := uint(0)
	if speaker, ok := findPlayer(room, round.SpeakerID); ok {
		speakerDBID = speaker.DBID
	}
	record := db.Round{
		RoomID:     room.DBID,
		Number:     round.Number,
		SpeakerID:  speakerDBID,
		PromptText: round.PromptText,
		PromptType: round.PromptType,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	round.DBID = record.ID
	if err := s.persistRoomStatus(room); err != nil {
		return err
	}
	return s.persistEvent(room, "round_started", EventPayload{
		RoundNumber: round.Number,
		SpeakerID:   round.SpeakerID,
		Status:      room.Status,
	})
}

func (s *Server) persistVote(room *Room, round *RoundState, vote *VoteEntry) error {
	if s.db == nil {
		return nil
	}
	if round.DBID == 0 {
		return errors.New("round not found")
	}
	voterDBID := uint(0)
	if voter, ok := findPlayer(room, vote.VoterID); ok {
		voterDBID = voter.DBID
	}
	record := db.Vote{
		RoundID: round.DBID,
		VoterID: voterDBID,
		Choice:  vote.Choice,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return conflictError("vote already submitted")
		}
		return err
	}
	vote.DBID = record.ID
	return s.persistEvent(room, "vote_cast", EventPayload{
		PlayerID:    vote.VoterID,
		RoundNumber: round.Number,
		Choice:      vote.Choice,
	})
}

func (s *Server) persistReveal(room *Room, round *RoundState) error {
	if s.db == nil {
		return nil
	}
	if round.DBID == 0 {
		return errors.New("round not found")
	}
	err := s.db.Model(&db.Round{}).
		Where("id = ?", round.DBID).
		Updates(map[string]any{
			"revealed":     true,
			"reveal_truth": round.RevealTruth,
		}).Error
	if err != nil {
		return err
	}
	if err := s.persistRoomStatus(room); err != nil {
		return err
	}
	return s.persistEvent(room, "round_revealed", EventPayload{
		RoundNumber: round.Number,
		SpeakerID:   round.SpeakerID,
		RevealTruth: round.RevealTruth,
		Mistakes:    roundMistakes(round),
	})
}

func (s *Server) persistSpeakerSpoken(room *Room, playerID int) error {
	if s.db == nil {
		return nil
	}
	player, ok := findPlayer(room, playerID)
	if !ok || player.DBID == 0 {
		return errors.New("player not found")
	}
	return s.db.Model(&db.Player{}).
		Where("id = ?", player.DBID).
		Update("has_spoken", true).Error
}

func (s *Server) persistFinish(room *Room) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistRoomStatus(room); err != nil {
		return err
	}
	payload := EventPayload{Status: room.Status}
	if result, ok := biggestLiar(room); ok {
		payload.PlayerID = result.PlayerID
		payload.PlayerName = result.Name
		payload.Mistakes = result.Mistakes
	}
	return s.persistEvent(room, "game_finished", payload)
}

func (s *Server) persistRoomStatus(room *Room) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	return s.db.Model(&db.Room{}).
		Where("id = ?", room.DBID).
		Update("status", room.Status).Error
}

func (s *Server) persistEvent(room *Room, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return errors.New("room not found")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.Event{
		RoomID:  room.DBID,
		Type:    eventType,
		Payload: datatypes.JSON(encoded),
	}
	return s.db.Create(&record).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
