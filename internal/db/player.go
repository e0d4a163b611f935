package db

import "time"

type Player struct {
	ID             uint      `gorm:"primaryKey"`
	RoomID         uint      `gorm:"index;not null"`
	Name           string    `gorm:"size:64;not null"`
	TruthStatement string    `gorm:"size:280;not null;default:''"`
	HasSpoken      bool      `gorm:"not null;default:false"`
	JoinedAt       time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Votes          []Vote
	Events         []Event
}
