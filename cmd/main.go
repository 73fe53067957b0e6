package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kollektive-hackathon/stakefour-backend/internal/game"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/config"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ledger"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/middleware"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/store"
	pkgws "github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ws"
	"github.com/kollektive-hackathon/stakefour-backend/internal/ws"
	"github.com/kollektive-hackathon/stakefour-backend/pkg/firebase"
)

func main() {
	cfg := setupViper()
	setupZerolog(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if cfg.NeedsDatabase() {
		db = setupDb(cfg.DbUrl)
	}

	var pubsubClient *pubsub.Client
	if cfg.NeedsPubSub() {
		var err error
		pubsubClient, err = pubsub.NewClient(ctx, cfg.GoogleProjectId)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize pub sub")
		}
		defer pubsubClient.CloseClient()
	}

	if !cfg.AuthDisabled {
		if err := firebase.InitFirebaseSdk(ctx, cfg.GoogleProjectId); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize firebase")
		}
	}

	gameStore := setupStore(cfg, db)
	transferer, balances := setupLedger(ctx, cfg, db, pubsubClient)

	var funds ledger.BalanceReader
	if cfg.BalanceCheck {
		funds = balances
	}

	if balances != nil {
		sched, err := game.StartEscrowAudit(cfg.EscrowAuditInterval, gameStore, balances, cfg.EscrowAccount)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule escrow audit")
		}
		defer func() { _ = sched.Shutdown() }()
	}

	deps := game.Dependencies{
		Store:       gameStore,
		Executor:    ledger.NewExecutor(transferer, cfg.PayoutMaxAttempts),
		Escrow:      cfg.EscrowAccount,
		Funds:       funds,
		EventsTopic: cfg.EventsTopic,
		Hub:         pkgws.NewNotificationHub(),
		Auth:        middleware.Authenticate(cfg.AuthDisabled),
	}
	if pubsubClient != nil {
		deps.Publisher = pubsubClient
	}
	apiRouter := setupApiRouter(deps)

	server := &http.Server{
		Addr:         cfg.Port,
		Handler:      apiRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupDb(dbUrl string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dbUrl), &gorm.Config{})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	sqlDb, _ := db.DB()

	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return db
}

func setupStore(cfg config.Config, db *gorm.DB) store.GameStore {
	if cfg.StoreDriver != config.DriverPostgres {
		return store.NewMemoryStore()
	}
	s := store.NewPostgresStore(db)
	if err := s.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate game tables")
	}
	return s
}

// setupLedger returns the transfer backend and, when it can report balances, a reader for them.
func setupLedger(ctx context.Context, cfg config.Config, db *gorm.DB, client *pubsub.Client) (ledger.Transferer, ledger.BalanceReader) {
	switch cfg.LedgerDriver {
	case config.DriverPostgres:
		l := ledger.NewPostgresLedger(db)
		if err := l.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate ledger tables")
		}
		return l, l

	case config.DriverChain:
		confirmations := cfg.TransferConfirmationsSubscription != ""
		bridge := ledger.NewChainBridge(client, cfg.CommandsTopic, blockchain.NewAdminAuthorizer(cfg.AdminKmsResourceName, cfg.AdminAuthorizerAddr), confirmations)
		if confirmations {
			go client.Subscribe(ctx, pubsub.SubscriptionHandler{
				SubscriptionId: cfg.TransferConfirmationsSubscription,
				Handler:        bridge.HandleTransferConfirmed,
			})
		}

		checker, err := ledger.NewFlowBalanceChecker(cfg.FlowAccessHost, cfg.FlowTokenAddress, cfg.FungibleTokenAddress)
		if err != nil {
			log.Warn().Err(err).Msg("Flow balance checks unavailable")
			return bridge, nil
		}
		return bridge, checker

	default:
		l := ledger.NewMemoryLedger()
		l.SetOpeningBalance(cfg.MemoryOpeningBalance, cfg.EscrowAccount)
		return l, l
	}
}

func setupApiRouter(deps game.Dependencies) *gin.Engine {
	apiRouter := gin.New()
	middleware.RegisterGlobalMiddleware(apiRouter)

	routerGroup := apiRouter.Group("/connectfour-api")

	ws.RegisterRoutes(routerGroup, deps.Hub, deps.Auth)
	game.RegisterRoutes(routerGroup, deps)

	return apiRouter
}

func setupViper() config.Config {
	cfg, err := config.Load(viper.GetViper(), "./.env")
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	return cfg
}

func setupZerolog(level string) {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
