package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/authgate/authgate"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := authgate.LoadConfig(".env")
	if cfg.GetSigningKey() == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}

	logger := &appLogger{log: log}
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.GetDatabaseDSN())
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.WithError(err).Fatal("invalid REDIS_URL")
	}

	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to reach redis")
	}

	repo := authgate.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.WithError(err).Fatal("repository validation failed")
	}

	users := authgate.NewRepositoryUserProvider(repo, logger)
	revocations := authgate.NewRedisRevocationStore(rdb,
		authgate.WithRevocationLogger(logger),
	)

	auther, err := authgate.NewAuthenticator(users, revocations, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to build authenticator")
	}
	auther.WithLogger(logger)

	guard := authgate.NewGuard(auther.TokenService(), revocations)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	authgate.RegisterAuthRoutes(srv.Router(),
		authgate.WithControllerAuther(auther),
		authgate.WithControllerGuard(guard),
		authgate.WithControllerUsers(users),
		authgate.WithControllerMail(&authgate.LogMailer{Logger: logger}),
		authgate.WithControllerBaseURL(cfg.GetDomainApp()),
		authgate.WithControllerLogger(logger),
	)

	log.WithField("addr", cfg.GetBindAddr()).Info("server listening")
	if err := srv.Serve(cfg.GetBindAddr()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}

	waitExitSignal()
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*authgate.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func waitExitSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// appLogger adapts logrus to the library's logger interface. The first
// argument is the message, trailing arguments are key value pairs.
type appLogger struct {
	log *logrus.Logger
}

func (l *appLogger) Debug(format string, args ...any) {
	l.log.WithFields(kvFields(args)).Debug(format)
}

func (l *appLogger) Info(format string, args ...any) {
	l.log.WithFields(kvFields(args)).Info(format)
}

func (l *appLogger) Error(format string, args ...any) {
	l.log.WithFields(kvFields(args)).Error(format)
}

func kvFields(args []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}
