package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bloodlink/bloodlink/internal/config"
	"github.com/bloodlink/bloodlink/internal/domain/bank"
	"github.com/bloodlink/bloodlink/internal/domain/camp"
	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/domain/hospital"
	"github.com/bloodlink/bloodlink/internal/domain/sos"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/internal/platform/middleware"
	"github.com/bloodlink/bloodlink/internal/platform/notification"
	ws "github.com/bloodlink/bloodlink/internal/platform/websocket"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "bloodlink-server",
		Short: "BloodLink donation coordination API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the BloodLink API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-create SOS requests from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			hospitalID, _ := cmd.Flags().GetString("hospital")
			if path == "" || hospitalID == "" {
				return fmt.Errorf("--file and --hospital are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			svc := sos.NewService(sos.NewRepoPG(pool))
			svc.SetHospitalDirectory(hospital.NewSosAdapter(hospital.NewService(hospital.NewRepoPG(pool))))

			imp := sos.NewImporter(svc)
			var result *sos.ImportResult
			if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				result, err = imp.ImportXLSX(ctx, hospitalID, f)
			} else {
				result, err = imp.ImportCSV(ctx, hospitalID, f)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d request(s).\n", result.Imported)
			for _, e := range result.Errors {
				fmt.Printf("  row %d: %s\n", e.Row, e.Reason)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d row(s) skipped", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to a CSV or XLSX file")
	cmd.Flags().String("hospital", "", "Acting hospital user id stamped on imported requests")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsDev() {
		logger.Warn().Msg("running in development mode, all requests get admin access")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Websocket hub for live feeds
	hub := ws.NewHub()
	wsHandler := ws.NewWebSocketHandler(hub)

	// Notification channels
	var smsSender notification.SMSSender = &notification.LogSMSSender{Logger: logger}
	if cfg.SMSGatewayURL != "" {
		smsSender = notification.NewHTTPSMSSender(cfg.SMSGatewayURL, cfg.SMSGatewayAPIKey)
	}
	emailSender := &notification.LogEmailSender{Logger: logger}
	notifyMgr := notification.NewManager(emailSender, smsSender, notification.NewTemplateEngine())

	// Domain services
	hospitalSvc := hospital.NewService(hospital.NewRepoPG(pool))
	donorSvc := donor.NewService(donor.NewRepoPG(pool))
	campSvc := camp.NewService(camp.NewRepoPG(pool))
	bankSvc := bank.NewService(bank.NewRepoPG(pool))
	sosSvc := sos.NewService(sos.NewRepoPG(pool))

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		donorSvc.SetLeaderboardCache(donor.NewLeaderboardCache(rdb, cfg.LeaderboardTTL, logger))
		logger.Info().Msg("leaderboard cache enabled")
	}

	donorAdapter := donor.NewSosAdapter(donorSvc)
	sosSvc.SetHospitalDirectory(hospital.NewSosAdapter(hospitalSvc))
	sosSvc.SetDonorLedger(donorAdapter)
	sosSvc.SetNotifier(sos.NewNotifyAdapter(hub, notifyMgr, donorAdapter, logger))

	// Routes. Health checks stay outside the authenticated group.
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthDevSecret),
		}))
	}
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	sos.NewHandler(sosSvc).RegisterRoutes(apiV1)
	donor.NewHandler(donorSvc).RegisterRoutes(apiV1)
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)
	camp.NewHandler(campSvc).RegisterRoutes(apiV1)
	bank.NewHandler(bankSvc).RegisterRoutes(apiV1)
	wsHandler.RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Serve with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
