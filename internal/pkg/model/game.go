package model

import (
	"time"
)

type Game struct {
	Reference      string `gorm:"primaryKey"`
	Nonce          string
	Player0        string
	Player1        *string
	Winner         *string
	Board          string
	GameStatus     GameStatus
	Turn           uint8
	Stake          uint64
	SettlingPlayer *uint8
	SettlingColumn *uint8
	TimeCreated    time.Time
	TimeUpdated    time.Time
}

func (Game) TableName() string {
	return "game"
}
