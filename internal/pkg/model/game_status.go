package model

type GameStatus string

const (
	GameNotStarted GameStatus = "NOT_STARTED"
	GameInProgress GameStatus = "IN_PROGRESS"
	GamePlayer0Won GameStatus = "PLAYER0_WON"
	GamePlayer1Won GameStatus = "PLAYER1_WON"
	GameDraw       GameStatus = "DRAW"
)
