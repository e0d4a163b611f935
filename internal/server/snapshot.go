package server

// snapshot is the public room payload pushed over the change feed and
// returned by GET /api/rooms/{code}. It must never include a statement
// text or anything the hidden outcome could be derived from before
// reveal.
func snapshot(room *Room) map[string]any {
	players := make([]map[string]any, 0, len(room.Players))
	for i := range room.Players {
		player := &room.Players[i]
		players = append(players, map[string]any{
			"id":         player.ID,
			"name":       player.Name,
			"ready":      hasStatement(player),
			"has_spoken": player.HasSpoken,
		})
	}

	payload := map[string]any{
		"room_code":          room.Code,
		"room_name":          room.Name,
		"status":             room.Status,
		"players":            players,
		"player_count":       len(room.Players),
		"missing_statements": missingStatements(room),
		"startable":          roomStartable(room),
		"round_count":        len(room.Rounds),
	}

	if round := currentRound(room); round != nil {
		truths, lies := voteCounts(round)
		roundPayload := map[string]any{
			"number":         round.Number,
			"speaker_id":     round.SpeakerID,
			"speaker_name":   playerName(room, round.SpeakerID),
			"revealed":       round.Revealed,
			"votes_cast":     len(round.Votes),
			"expected_votes": expectedVotes(room),
			"vote_counts": map[string]int{
				choiceTruth: truths,
				choiceLie:   lies,
			},
		}
		if round.Revealed && round.RevealTruth != nil {
			roundPayload["reveal_truth"] = *round.RevealTruth
		}
		payload["round"] = roundPayload
	}

	if room.Status == statusFinished {
		if result, ok := biggestLiar(room); ok {
			payload["biggest_liar"] = map[string]any{
				"player_id": result.PlayerID,
				"name":      result.Name,
				"mistakes":  result.Mistakes,
			}
		}
	}

	return payload
}
