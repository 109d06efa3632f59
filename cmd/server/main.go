package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"mendizabala/dual/internal/auth"
	"mendizabala/dual/internal/config"
	"mendizabala/dual/internal/db"
	"mendizabala/dual/internal/devlogin"
	dualgrpc "mendizabala/dual/internal/grpc"
	internalhttp "mendizabala/dual/internal/http"
	"mendizabala/dual/internal/jobs"
	"mendizabala/dual/internal/logging"
	"mendizabala/dual/internal/mailer"
	"mendizabala/dual/internal/metrics"
	"mendizabala/dual/internal/operations"
	"mendizabala/dual/internal/otp"
	"mendizabala/dual/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("", "info")
		boot.Fatal().Err(err).Msg("config load failed")
	}
	logger := logging.New(cfg.Environment, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connection failed")
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("db migration failed")
		}
	}
	store := repository.NewStore(pool)
	m := metrics.New()

	codes, closeCodes, err := otpStore(ctx, cfg, m, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("otp store unavailable")
	}
	bypass := devlogin.Resolve(cfg)
	if bypass.Active() {
		logger.Warn().Msg("development login codes enabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	flow := operations.NewAuthFlow(operations.AuthDeps{
		Store:          store,
		Codes:          otp.NewIssuer(codes, cfg.OTPTTL),
		Mailer:         mailer.New(cfg.SMTP, cfg.OTPTTL, logger),
		Tokens:         tokens,
		Bypass:         bypass,
		AllowedDomains: cfg.AllowedDomains,
		EchoOTP:        cfg.EchoOTP(),
		Logger:         logger,
	})

	server := internalhttp.NewServer(cfg, internalhttp.Deps{
		Auth:      flow,
		Tokens:    tokens,
		Teachers:  store,
		Companies: store,
		Health:    store,
		Metrics:   m,
		Logger:    logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	var health *dualgrpc.Health
	grpcServer := dualgrpc.NewServer(logger)
	if cfg.GRPCAddr != "" {
		health = dualgrpc.NewHealth(store, logger)
		health.Register(grpcServer)
		health.Watch(ctx, 15*time.Second)

		go func() {
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				logger.Fatal().Err(err).Msg("grpc listen error")
			}
			logger.Info().Str("addr", cfg.GRPCAddr).Msg("grpc listening")
			if err := grpcServer.Serve(listener); err != nil {
				logger.Fatal().Err(err).Msg("grpc server error")
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if health != nil {
		health.Shutdown()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	grpcServer.GracefulStop()
	if err := closeCodes(); err != nil {
		logger.Error().Err(err).Msg("otp store close error")
	}
}

// otpStore prefers Redis when configured; otherwise codes live in process
// memory and a sweeper drops expired entries. The returned close func must
// run only after the HTTP server has drained.
func otpStore(ctx context.Context, cfg config.Config, m *metrics.Metrics, logger zerolog.Logger) (otp.Store, func() error, error) {
	if cfg.RedisAddr == "" {
		memory := otp.NewMemoryStore()
		jobs.StartOTPSweeper(ctx, memory, cfg.OTPSweepInterval, m.OTPSwept, logger)
		return memory, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return otp.NewRedisStore(client), client.Close, nil
}
