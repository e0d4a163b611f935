package db

import "time"

type Room struct {
	ID            uint      `gorm:"primaryKey"`
	Code          string    `gorm:"size:4;uniqueIndex;not null"`
	Name          string    `gorm:"size:64;not null"`
	Status        string    `gorm:"size:32;not null"`
	HostSessionID string    `gorm:"size:64;not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
	Players       []Player
	Rounds        []Round
	Events        []Event
}
