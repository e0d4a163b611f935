package server

// biggestLiar folds the full round/vote history into the player who
// collected the most wrong votes while speaking. It only reads revealed
// rounds, so it is safe to call at any point and always deterministic:
// rounds are walked in creation order and ties go to the earliest-joined
// speaker. The second return is false when no revealed rounds exist.
func biggestLiar(room *Room) (LiarResult, bool) {
	mistakes := make(map[int]int)
	for i := range room.Rounds {
		round := &room.Rounds[i]
		if !round.Revealed || round.RevealTruth == nil {
			continue
		}
		mistakes[round.SpeakerID] += roundMistakes(round)
	}
	if len(mistakes) == 0 {
		return LiarResult{}, false
	}

	best := LiarResult{Mistakes: -1}
	for i := range room.Players {
		player := &room.Players[i]
		score, spoke := mistakes[player.ID]
		if !spoke {
			continue
		}
		if score > best.Mistakes {
			best = LiarResult{PlayerID: player.ID, Name: player.Name, Mistakes: score}
		}
	}
	if best.Mistakes < 0 {
		return LiarResult{}, false
	}
	return best, true
}

// roundMistakes counts votes that disagree with the revealed outcome.
func roundMistakes(round *RoundState) int {
	if round.RevealTruth == nil {
		return 0
	}
	wrong := 0
	for _, vote := range round.Votes {
		if (vote.Choice == choiceTruth) != *round.RevealTruth {
			wrong++
		}
	}
	return wrong
}
