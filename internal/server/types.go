package server

import "time"

const (
	statusLobby      = "lobby"
	statusVotingOpen = "voting_open"
	statusRevealed   = "revealed"
	statusFinished   = "finished"
)

const (
	choiceTruth = "truth"
	choiceLie   = "lie"
)

const (
	viewLobby    = "lobby"
	viewSpeaking = "speaking"
	viewVoting   = "voting"
	viewRevealed = "revealed"
	viewFinished = "finished"
)

type RoomSummary struct {
	Code    string
	Name    string
	Status  string
	Players int
}

type Room struct {
	Code          string
	DBID          uint
	Name          string
	Status        string
	HostSessionID string
	CurrentRound  int
	CreatedAt     time.Time
	Players       []Player
	Rounds        []RoundState
}

type Player struct {
	ID             int
	Name           string
	TruthStatement string
	HasSpoken      bool
	SessionID      string
	DBID           uint
}

// RoundState holds one speaker's turn. PromptType is fixed by a coin flip
// when the round is created and must never reach a client before reveal.
type RoundState struct {
	Number      int
	DBID        uint
	SpeakerID   int
	PromptText  string
	PromptType  string
	Revealed    bool
	RevealTruth *bool
	Votes       []VoteEntry
}

type VoteEntry struct {
	VoterID int
	Choice  string
	DBID    uint
}

// LiarResult is the "biggest liar" outcome: the speaker who collected the
// most wrong votes across all revealed rounds.
type LiarResult struct {
	PlayerID int
	Name     string
	Mistakes int
}
