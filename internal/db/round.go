package db

import "time"

type Round struct {
	ID          uint      `gorm:"primaryKey"`
	RoomID      uint      `gorm:"index;not null;uniqueIndex:idx_rounds_room_number"`
	Number      int       `gorm:"not null;uniqueIndex:idx_rounds_room_number"`
	SpeakerID   uint      `gorm:"index;not null"`
	PromptText  string    `gorm:"size:280;not null"`
	PromptType  string    `gorm:"size:8;not null"`
	Revealed    bool      `gorm:"not null;default:false"`
	RevealTruth *bool     `gorm:""`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Votes       []Vote
	Events      []Event
}
