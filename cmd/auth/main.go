package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	authhttp "github.com/mailsign/signup-backend/internal/auth/http"
	"github.com/mailsign/signup-backend/internal/auth/service"
	"github.com/mailsign/signup-backend/internal/auth/session"
	"github.com/mailsign/signup-backend/internal/common/clock"
	"github.com/mailsign/signup-backend/internal/common/config"
	"github.com/mailsign/signup-backend/internal/common/constants"
	commoncrypto "github.com/mailsign/signup-backend/internal/common/crypto"
	"github.com/mailsign/signup-backend/internal/common/db"
	commonhttp "github.com/mailsign/signup-backend/internal/common/http"
	"github.com/mailsign/signup-backend/internal/common/logger"
	srv "github.com/mailsign/signup-backend/internal/common/server"
	"github.com/mailsign/signup-backend/internal/mail"
	userrepo "github.com/mailsign/signup-backend/internal/user/repository"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_DIR"), "auth", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	db.StartPoolMetrics(pool, constants.DBPoolHealthCheck)

	clk := clock.NewRealClock()

	sessions, err := newSessionStore(cfg, clk, log)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if err != nil {
		log.Fatalf("failed to initialize smtp mailer: %v", err)
	}

	authService := service.NewAuthService(service.AuthServiceDeps{
		Repo:     userrepo.NewPgRepository(pool),
		Sessions: sessions,
		Mailer:   mailer,
		Hasher:   &commoncrypto.BcryptHasher{},
		IDGen:    commoncrypto.NewUUIDGenerator(),
		Tokens:   service.NewTokenIssuer(cfg.JWTSecret, constants.DefaultTokenTTL, clk),
		Clock:    clk,
		Log:      log,
		MailFrom: cfg.SMTPUser,
	})

	handler := authhttp.NewHandler(authService, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	finalHandler := commonhttp.BuildBaseHandler(log, mux)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, "auth", shutdownHooks)
}

func newSessionStore(cfg config.Config, clk clock.Clock, log *logger.Logger) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		log.Infof("using redis session store at %s", opt.Addr)
		return session.NewRedisStore(redis.NewClient(opt), clk), nil
	default:
		log.Infof("using in-memory session store")
		return session.NewMemoryStore(clk), nil
	}
}
