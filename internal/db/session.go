package db

import "time"

type Session struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"size:64;not null;uniqueIndex:idx_sessions_session_room"`
	RoomCode  string    `gorm:"size:4;not null;uniqueIndex:idx_sessions_session_room"`
	PlayerID  uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
