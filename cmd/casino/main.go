package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Register pprof handlers
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/9yuq/nexus/internal/config"
	crashhttp "github.com/9yuq/nexus/internal/modules/crash/adapter/http"
	crashdomain "github.com/9yuq/nexus/internal/modules/crash/domain"
	crashmachine "github.com/9yuq/nexus/internal/modules/crash/machine"
	crashmemory "github.com/9yuq/nexus/internal/modules/crash/repository/memory"
	crashredis "github.com/9yuq/nexus/internal/modules/crash/repository/redis"
	crashuc "github.com/9yuq/nexus/internal/modules/crash/usecase"
	dicehttp "github.com/9yuq/nexus/internal/modules/dice/adapter/http"
	diceuc "github.com/9yuq/nexus/internal/modules/dice/usecase"
	gatewayhttp "github.com/9yuq/nexus/internal/modules/gateway/adapter/http"
	gatewaylocal "github.com/9yuq/nexus/internal/modules/gateway/adapter/local"
	"github.com/9yuq/nexus/internal/modules/gateway/ws"
	historyhttp "github.com/9yuq/nexus/internal/modules/history/adapter/http"
	historydomain "github.com/9yuq/nexus/internal/modules/history/domain"
	historydb "github.com/9yuq/nexus/internal/modules/history/repository/db"
	historymemory "github.com/9yuq/nexus/internal/modules/history/repository/memory"
	historyuc "github.com/9yuq/nexus/internal/modules/history/usecase"
	"github.com/9yuq/nexus/internal/modules/settlement"
	slotshttp "github.com/9yuq/nexus/internal/modules/slots/adapter/http"
	slotsuc "github.com/9yuq/nexus/internal/modules/slots/usecase"
	userhttp "github.com/9yuq/nexus/internal/modules/user/adapter/http"
	userdomain "github.com/9yuq/nexus/internal/modules/user/domain"
	userdb "github.com/9yuq/nexus/internal/modules/user/repository/db"
	usermemory "github.com/9yuq/nexus/internal/modules/user/repository/memory"
	useruc "github.com/9yuq/nexus/internal/modules/user/usecase"
	wallethttp "github.com/9yuq/nexus/internal/modules/wallet/adapter/http"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	walletdb "github.com/9yuq/nexus/internal/modules/wallet/repository/db"
	walletmemory "github.com/9yuq/nexus/internal/modules/wallet/repository/memory"
	walletuc "github.com/9yuq/nexus/internal/modules/wallet/usecase"
	"github.com/9yuq/nexus/internal/server"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/9yuq/nexus/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	pprofPort := flag.String("pprof-port", "", "Port to run pprof server on (e.g., 6060)")
	background := flag.Bool("d", false, "Run in background mode (disable console logging)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger.InitWithFile(cfg.Server.LogFile, cfg.Server.LogLevel, cfg.Server.LogFormat, !*background)
	defer logger.Flush()

	if *pprofPort != "" {
		go func() {
			addr := "localhost:" + *pprofPort
			logger.InfoGlobal().Str("addr", addr).Msg("📈 Starting pprof server")
			if err := http.ListenAndServe(addr, nil); err != nil {
				logger.ErrorGlobal().Err(err).Msg("Failed to start pprof server")
			}
		}()
	}

	logger.InfoGlobal().Msg("🎰 Starting casino server...")

	// 1. Storage
	var (
		db  *gorm.DB
		err error

		userRepo    userdomain.UserRepository
		sessionRepo userdomain.SessionRepository
		accountRepo walletdomain.AccountRepository
		txRepo      walletdomain.TransactionRepository
		historyRepo historydomain.Repository
	)

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
		db, err = openDatabase(cfg.Database)
		if err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to connect to database")
		}
		if err := db.AutoMigrate(
			&userdomain.User{},
			&userdomain.Session{},
			&walletdomain.Account{},
			&walletdomain.Transaction{},
			&historydomain.GameHistory{},
		); err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to migrate schema")
		}

		userRepo = userdb.NewUserRepository(db)
		sessionRepo = userdb.NewSessionRepository(db)
		accountRepo = walletdb.NewAccountRepository(db)
		txRepo = walletdb.NewTransactionRepository(db)
		historyRepo = historydb.NewRepository(db)
		logger.InfoGlobal().Str("driver", cfg.Database.Driver).Msg("✅ Database connected")

	default:
		userRepo = usermemory.NewUserRepository()
		sessionRepo = usermemory.NewSessionRepository()
		accountRepo = walletmemory.NewAccountRepository()
		txRepo = walletmemory.NewTransactionRepository()
		historyRepo = historymemory.NewRepository()
		logger.InfoGlobal().Msg("✅ Storage: in-memory")
	}

	var rdb *redis.Client
	if cfg.Casino.CrashRepoType == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		})
		defer rdb.Close()
		logger.InfoGlobal().Msg("✅ Redis connected")
	}

	// 2. Core modules
	walletUC := walletuc.NewWalletUseCase(accountRepo, txRepo)
	userUC := useruc.NewUserUseCase(userRepo, sessionRepo, walletUC, cfg.Casino.InitialBalanceCents, cfg.JWT.Secret, cfg.JWT.Duration)
	historyUC := historyuc.NewHistoryUseCase(historyRepo, userUC)
	engine := settlement.NewEngine(walletUC, historyUC)
	logger.InfoGlobal().Msg("✅ Wallet, user, and history modules initialized")

	// 3. WebSocket gateway
	wsManager := ws.NewManager()
	go wsManager.Run()
	broadcaster := gatewaylocal.NewBroadcaster(wsManager)

	// 4. Crash game
	stateMachine := crashmachine.NewStateMachine()
	stateMachine.WaitingDuration = cfg.Casino.CrashWaitingDuration
	stateMachine.RestDuration = cfg.Casino.CrashRestDuration
	stateMachine.GrowthRate = cfg.Casino.CrashGrowthRate

	var betRepo crashdomain.BetRepository
	if cfg.Casino.CrashRepoType == "redis" {
		betRepo = crashredis.NewBetRepository(rdb)
		logger.InfoGlobal().Msg("  ✅ Crash bet repository: Redis")
	} else {
		betRepo = crashmemory.NewBetRepository()
		logger.InfoGlobal().Msg("  ✅ Crash bet repository: Memory")
	}

	crashUC := crashuc.NewCrashUseCase(stateMachine, betRepo, walletUC, engine, broadcaster)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		stateMachine.Start(context.Background())
	}()
	logger.InfoGlobal().Msg("✅ Crash game ready")

	// 5. Instant games
	diceUC := diceuc.NewDiceUseCase(engine)
	slotsUC := slotsuc.NewSlotsUseCase(engine)
	logger.InfoGlobal().Msg("✅ Dice and slots ready")

	// 6. HTTP surface
	wsAuth := func(token string) (int64, error) {
		userID, _, _, err := userUC.ValidateToken(context.Background(), token)
		return userID, err
	}

	router := server.NewRouter(server.Handlers{
		User:    userhttp.NewHandler(userUC),
		Wallet:  wallethttp.NewHandler(walletUC),
		Crash:   crashhttp.NewHandler(crashUC),
		Dice:    dicehttp.NewHandler(diceUC),
		Slots:   slotshttp.NewHandler(slotsUC),
		History: historyhttp.NewHandler(historyUC),
		Gateway: gatewayhttp.NewHandler(wsManager, crashUC, wsAuth),
	}, userUC)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	metricsSrv := metrics.StartServer(cfg.Server.MetricsPort, func(ctx context.Context) error {
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		return nil
	})

	logger.InfoGlobal().
		Str("http_port", cfg.Server.HTTPPort).
		Str("metrics_port", cfg.Server.MetricsPort).
		Str("ws_url", fmt.Sprintf("ws://localhost:%s/ws?token=YOUR_TOKEN", cfg.Server.HTTPPort)).
		Msg("🚀 Casino server running")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalGlobal().Err(err).Msg("HTTP server failed")
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoGlobal().Msg("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorGlobal().Err(err).Msg("HTTP server forced to shutdown")
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.ErrorGlobal().Err(err).Msg("Metrics server forced to shutdown")
	}

	logger.InfoGlobal().Msg("⏳ Waiting for current round to finish...")
	stateMachine.Stop()
	wg.Wait()

	logger.InfoGlobal().Msg("🔌 Closing WebSocket connections...")
	wsManager.Shutdown()

	logger.InfoGlobal().Msg("👋 Server exited properly")
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormLog := logger.NewGormLogger()

	var dialector gorm.Dialector
	if cfg.Driver == "sqlite" {
		dialector = sqlite.Open(cfg.Path)
	} else {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
