package server

type EventPayload struct {
	RoomCode    string `json:"room_code,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
	Status      string `json:"status,omitempty"`
	PlayerName  string `json:"player,omitempty"`
	PlayerID    int    `json:"player_id,omitempty"`
	RoundNumber int    `json:"round_number,omitempty"`
	SpeakerID   int    `json:"speaker_id,omitempty"`
	Choice      string `json:"choice,omitempty"`
	RevealTruth *bool  `json:"reveal_truth,omitempty"`
	Mistakes    int    `json:"mistakes,omitempty"`
}
