package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"smartclub/cmd"
	"smartclub/internal/data/repository"
	"smartclub/internal/usecase"
	"smartclub/internal/wire"
	"smartclub/pkg/clock"
	"smartclub/pkg/database"
	"smartclub/pkg/lock"
	"smartclub/pkg/queue"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Bool("booking_pay_later", config.Booking.PayLater),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	deps := usecase.Deps{
		Locker:    newLocker(config, logger),
		Publisher: newPublisher(config, logger),
		Clock:     clock.NewSystem(),
	}
	defer deps.Publisher.Close()

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, deps, config, logger)

	if n, err := app.Service.Club.SeedFromFile(ctx, config.App.SeedFile); err != nil {
		logger.Error("Failed to seed clubs", zap.Error(err), zap.Int("seeded", n))
	}

	if err := repos.Session.CleanExpiredSessions(ctx); err != nil {
		logger.Warn("Failed to clean expired sessions", zap.Error(err))
	}

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// newLocker prefers Redis so several instances share one lock per club.
func newLocker(config *utils.Config, logger *zap.Logger) lock.Locker {
	if config.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, using in-process club lock")
		return lock.NewLocalLocker(config.Lock.Wait)
	}

	client, err := lock.NewRedisClient(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", config.Redis.Addr))
	}

	logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	return lock.NewRedisLocker(client, config.Lock.TTL, config.Lock.Wait, logger)
}

func newPublisher(config *utils.Config, logger *zap.Logger) queue.Publisher {
	if config.AMQP.URL == "" {
		logger.Info("AMQP_URL not set, reservation events are not published")
		return queue.NoopPublisher{}
	}

	publisher, err := queue.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to broker", zap.Error(err))
	}
	return publisher
}
