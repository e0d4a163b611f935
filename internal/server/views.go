package server

// buildObserverView derives what one observer may see and do right now.
// It is a pure function over a room snapshot plus the observer's session
// and (possibly absent) player binding, and its action flags mirror the
// engine guards exactly so a client never offers a call the engine would
// reject.
func buildObserverView(room *Room, sessionID string, playerID int, joined bool) map[string]any {
	round := currentRound(room)
	isHost := room.HostSessionID != "" && room.HostSessionID == sessionID
	isSpeaker := joined && round != nil && round.SpeakerID == playerID

	view := map[string]any{
		"room_code":  room.Code,
		"room_name":  room.Name,
		"status":     room.Status,
		"view":       viewVariant(room, isSpeaker),
		"is_host":    isHost,
		"is_speaker": isSpeaker,
		"joined":     joined,
	}
	if joined {
		view["player_id"] = playerID
	}

	votesIn := round != nil && allVotesIn(room, round)
	view["actions"] = map[string]bool{
		"can_start":  isHost && room.Status == statusLobby && roomStartable(room),
		"can_vote":   canVote(room, round, playerID, joined),
		"can_reveal": isHost && room.Status == statusVotingOpen && votesIn,
		"can_next":   isHost && room.Status == statusRevealed,
	}

	if round != nil {
		truths, lies := voteCounts(round)
		view["speaker_id"] = round.SpeakerID
		view["speaker_name"] = playerName(room, round.SpeakerID)
		view["votes_cast"] = len(round.Votes)
		view["expected_votes"] = expectedVotes(room)
		view["vote_counts"] = map[string]int{choiceTruth: truths, choiceLie: lies}
		if isSpeaker {
			view["prompt_text"] = round.PromptText
			view["prompt_type"] = round.PromptType
		}
		if round.Revealed && round.RevealTruth != nil {
			view["reveal_truth"] = *round.RevealTruth
		}
		if joined {
			if vote, ok := findVote(round, playerID); ok {
				view["my_vote"] = vote.Choice
			}
		}
	}

	if room.Status == statusFinished {
		if result, ok := biggestLiar(room); ok {
			view["biggest_liar"] = map[string]any{
				"player_id": result.PlayerID,
				"name":      result.Name,
				"mistakes":  result.Mistakes,
			}
		}
	}

	return view
}

func viewVariant(room *Room, isSpeaker bool) string {
	switch room.Status {
	case statusFinished:
		return viewFinished
	case statusRevealed:
		return viewRevealed
	case statusVotingOpen:
		if isSpeaker {
			return viewSpeaking
		}
		return viewVoting
	default:
		return viewLobby
	}
}

func canVote(room *Room, round *RoundState, playerID int, joined bool) bool {
	if !joined || round == nil || room.Status != statusVotingOpen {
		return false
	}
	if round.SpeakerID == playerID {
		return false
	}
	if _, voted := findVote(round, playerID); voted {
		return false
	}
	return true
}
