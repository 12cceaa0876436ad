package entities

import "time"

// User is a Telegram user who has talked to the bot.
type User struct {
	ID         int64 // Telegram user ID
	ChatID     int64
	FirstSeen  time.Time
	LastSeenAt time.Time
}

func NewUser(id, chatID int64) *User {
	now := time.Now().UTC()
	return &User{
		ID:         id,
		ChatID:     chatID,
		FirstSeen:  now,
		LastSeenAt: now,
	}
}
