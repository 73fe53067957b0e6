package game

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ledger"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/store"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/utils"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ws"
)

// Dependencies wires the game routes. Funds, Publisher and Hub are optional.
type Dependencies struct {
	Store       store.GameStore
	Executor    *ledger.Executor
	Escrow      string
	Funds       ledger.BalanceReader
	Publisher   pubsub.Publisher
	EventsTopic string
	Hub         *ws.WebSocketNotificationHub
	Auth        gin.HandlerFunc
}

var errMissingCaller = errors.New("request reached a game route without a caller identity")

type gameHandler struct {
	gameService *gameService
}

func RegisterRoutes(rg *gin.RouterGroup, deps Dependencies) {
	handler := gameHandler{
		gameService: &gameService{
			store:    deps.Store,
			executor: deps.Executor,
			escrow:   deps.Escrow,
			funds:    deps.Funds,
			events: &eventBridge{
				publisher: deps.Publisher,
				topic:     deps.EventsTopic,
				hub:       deps.Hub,
			},
		},
	}

	routes := rg.Group("/game")
	routes.POST("", deps.Auth, handler.createGame)
	routes.GET("/:reference", deps.Auth, handler.getGame)
	routes.DELETE("/:reference", deps.Auth, handler.cancelGame)
	routes.POST("/:reference/join", deps.Auth, handler.joinGame)

	routes.GET("/:reference/moves", deps.Auth, handler.getMoves)
	routes.POST("/:reference/moves", deps.Auth, handler.playMove)
	routes.GET("/:reference/moves/:number/proof", deps.Auth, handler.getMoveProof)
}

func (gh *gameHandler) createGame(c *gin.Context) {
	body := CreateGameRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BindProblem(err))
		return
	}

	player, ok := caller(c)
	if !ok {
		return
	}

	created, err := gh.gameService.createGame(c.Request.Context(), player, body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (gh *gameHandler) getGame(c *gin.Context) {
	game, err := gh.gameService.getGame(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (gh *gameHandler) cancelGame(c *gin.Context) {
	reference := c.Param("reference")
	player, ok := caller(c)
	if !ok {
		return
	}

	refund, err := gh.gameService.cancelGame(c.Request.Context(), player, reference)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, CancelGameResponse{Reference: reference, Refund: refund})
}

func (gh *gameHandler) joinGame(c *gin.Context) {
	body := JoinGameRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BindProblem(err))
		return
	}

	player, ok := caller(c)
	if !ok {
		return
	}

	game, err := gh.gameService.joinGame(c.Request.Context(), player, c.Param("reference"), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (gh *gameHandler) playMove(c *gin.Context) {
	body := PlayMoveRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BindProblem(err))
		return
	}

	player, ok := caller(c)
	if !ok {
		return
	}

	response, err := gh.gameService.playMove(c.Request.Context(), player, c.Param("reference"), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (gh *gameHandler) getMoves(c *gin.Context) {
	page, err := utils.NewPageRequest(c)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	moves, movesCount, err := gh.gameService.getMoves(c.Request.Context(), c.Param("reference"), page)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, utils.NewPageResponse(page, moves, movesCount))
}

func (gh *gameHandler) getMoveProof(c *gin.Context) {
	number, parseErr := strconv.ParseUint(c.Param("number"), 10, 16)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	proof, err := gh.gameService.getMoveProof(c.Request.Context(), c.Param("reference"), uint16(number))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, proof)
}

// caller aborts with 500 when no auth middleware identified the request.
func caller(c *gin.Context) (connectfour.PlayerID, bool) {
	playerId, ok := utils.GetPlayerId(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, reject.UnexpectedProblem(errMissingCaller))
		return "", false
	}
	return connectfour.PlayerID(playerId), true
}
