package model

import "time"

type MoveHistory struct {
	Id            uint64    `json:"id" gorm:"primaryKey"`
	GameReference string    `json:"gameReference" gorm:"uniqueIndex:idx_move_history_game_number"`
	Number        uint16    `json:"number" gorm:"uniqueIndex:idx_move_history_game_number"`
	Player        uint8     `json:"player"`
	Row           uint8     `json:"row"`
	Column        uint8     `json:"column"`
	PlayedAt      time.Time `json:"playedAt"`
}

func (MoveHistory) TableName() string {
	return "move_history"
}
