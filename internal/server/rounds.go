package server

// Round engine: lobby → voting_open → revealed → (voting_open | finished).
// Reveal is host-only and requires every expected vote; the voting_closed
// intermediate some rule sets use is collapsed into that guard.

func missingStatements(room *Room) int {
	missing := 0
	for i := range room.Players {
		if !hasStatement(&room.Players[i]) {
			missing++
		}
	}
	return missing
}

func roomStartable(room *Room) bool {
	return len(room.Players) >= 2 && missingStatements(room) == 0
}

// nextSpeaker picks the first not-yet-spoken player in join order, so
// every client converges on the same selection without coordination.
func nextSpeaker(room *Room) (*Player, bool) {
	for i := range room.Players {
		if !room.Players[i].HasSpoken {
			return &room.Players[i], true
		}
	}
	return nil, false
}

func expectedVotes(room *Room) int {
	if len(room.Players) == 0 {
		return 0
	}
	return len(room.Players) - 1
}

func allVotesIn(room *Room, round *RoundState) bool {
	expected := expectedVotes(room)
	return expected > 0 && len(round.Votes) >= expected
}

func voteCounts(round *RoundState) (truths, lies int) {
	if round == nil {
		return 0, 0
	}
	for _, vote := range round.Votes {
		if vote.Choice == choiceTruth {
			truths++
		} else {
			lies++
		}
	}
	return truths, lies
}

func findVote(round *RoundState, voterID int) (*VoteEntry, bool) {
	for i := range round.Votes {
		if round.Votes[i].VoterID == voterID {
			return &round.Votes[i], true
		}
	}
	return nil, false
}

func openRound(room *Room, speaker *Player) *RoundState {
	round := RoundState{
		Number:     len(room.Rounds) + 1,
		SpeakerID:  speaker.ID,
		PromptText: speaker.TruthStatement,
		PromptType: decideRoundOutcome(),
	}
	room.Rounds = append(room.Rounds, round)
	room.CurrentRound = round.Number
	room.Status = statusVotingOpen
	return &room.Rounds[len(room.Rounds)-1]
}

func (s *Server) startGame(code, sessionID string) (*Room, error) {
	return s.store.UpdateRoom(code, func(room *Room) error {
		if room.HostSessionID != sessionID {
			return authorizationError("only the host can start the game")
		}
		if room.Status != statusLobby {
			return conflictError("game already started")
		}
		if !roomStartable(room) {
			return conflictError("need at least 2 players and a truth statement from everyone")
		}
		speaker, ok := nextSpeaker(room)
		if !ok {
			return conflictError("no speaker available")
		}
		openRound(room, speaker)
		return nil
	})
}

// castVote returns the entry it inserted so the caller persists its own
// vote, not whatever happens to sit at the tail of the slice by the time
// the lock is released.
func (s *Server) castVote(code string, voterID int, choice string) (*Room, *VoteEntry, error) {
	var entry *VoteEntry
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Status != statusVotingOpen {
			return conflictError("round is not open for voting")
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		if _, ok := findPlayer(room, voterID); !ok {
			return authorizationError("not a player in this room")
		}
		if round.SpeakerID == voterID {
			return conflictError("the speaker cannot vote")
		}
		if _, voted := findVote(round, voterID); voted {
			return conflictError("vote already submitted")
		}
		round.Votes = append(round.Votes, VoteEntry{VoterID: voterID, Choice: choice})
		entry = &round.Votes[len(round.Votes)-1]
		return nil
	})
	return room, entry, err
}

func (s *Server) revealRound(code, sessionID string) (*Room, error) {
	return s.store.UpdateRoom(code, func(room *Room) error {
		if room.HostSessionID != sessionID {
			return authorizationError("only the host can reveal")
		}
		if room.Status != statusVotingOpen {
			return conflictError("round is not open")
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		if !allVotesIn(room, round) {
			return conflictError("waiting for votes")
		}
		outcome := round.PromptType == choiceTruth
		round.Revealed = true
		round.RevealTruth = &outcome
		room.Status = statusRevealed
		return nil
	})
}

// advanceRound ends the revealed round and either opens the next one or
// finishes the game. It reports the outgoing speaker so the caller can
// persist the has_spoken flip.
func (s *Server) advanceRound(code, sessionID string) (*Room, int, error) {
	outgoingSpeakerID := 0
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.HostSessionID != sessionID {
			return authorizationError("only the host can advance")
		}
		if room.Status != statusRevealed {
			return conflictError("round not revealed yet")
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		outgoingSpeakerID = round.SpeakerID
		if speaker, ok := findPlayer(room, round.SpeakerID); ok {
			speaker.HasSpoken = true
		}
		speaker, ok := nextSpeaker(room)
		if !ok {
			room.Status = statusFinished
			room.CurrentRound = 0
			return nil
		}
		openRound(room, speaker)
		return nil
	})
	return room, outgoingSpeakerID, err
}
