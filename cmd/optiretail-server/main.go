package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/optiretail/optiretail/internal/config"
	"github.com/optiretail/optiretail/internal/domain/catalog"
	"github.com/optiretail/optiretail/internal/domain/clinical"
	"github.com/optiretail/optiretail/internal/domain/identity"
	"github.com/optiretail/optiretail/internal/domain/inventory"
	"github.com/optiretail/optiretail/internal/domain/laboratory"
	"github.com/optiretail/optiretail/internal/domain/notes"
	"github.com/optiretail/optiretail/internal/domain/payroll"
	"github.com/optiretail/optiretail/internal/domain/sales"
	"github.com/optiretail/optiretail/internal/domain/scheduling"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/events"
	"github.com/optiretail/optiretail/internal/platform/i18n"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/metrics"
	"github.com/optiretail/optiretail/internal/platform/middleware"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "optiretail-server",
		Short: "Optical retail API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func openMigrator(ctx context.Context, cfg *config.Config) (*db.Migrator, func(), error) {
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return nil, nil, err
	}
	return db.NewMigrator(pool, cfg.MigrationsDir), pool.Close, nil
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
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
				cfg.MigrationsDir = dir
			}

			ctx := context.Background()
			migrator, closePool, err := openMigrator(ctx, cfg)
			if err != nil {
				return err
			}
			defer closePool()

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
				cfg.MigrationsDir = dir
			}

			ctx := context.Background()
			migrator, closePool, err := openMigrator(ctx, cfg)
			if err != nil {
				return err
			}
			defer closePool()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

// publishedEntities are forwarded to the message broker.
var publishedEntities = []lifecycle.Entity{
	identity.EntityUser,
	identity.EntityPatient,
	scheduling.EntityAppointment,
	clinical.EntityPrescription,
	catalog.KindLensType.Entity(),
	catalog.KindTreatment.Entity(),
	inventory.EntityWarehouse,
	inventory.EntityLocation,
	inventory.EntityProduct,
	inventory.EntityTransfer,
	sales.EntitySale,
	sales.EntityPayment,
	sales.EntityAdjustment,
	laboratory.EntityLaboratory,
	laboratory.EntityLabOrder,
	payroll.EntityPayroll,
	notes.EntityNote,
}

func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV") == "development")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if err := notes.ValidateKinds(); err != nil {
		logger.Fatal().Err(err).Msg("invalid noteable mapping")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Platform
	messages := i18n.Default(cfg.DefaultLocale)
	lookup := store.NewPG(pool)
	engine := validation.NewEngine(lookup, messages, logger)
	tx := db.NewTxManager(pool)
	dispatcher := lifecycle.NewDispatcher(logger)

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to message broker")
		}
		defer publisher.Close()
	}

	bodyLimit, err := middleware.BodyLimit(cfg.BodyLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	if cfg.MetricsEnabled {
		e.Use(metrics.Middleware())
	}
	e.Use(middleware.SecurityHeaders(middleware.SecurityConfig{HSTS: cfg.IsProduction()}))
	e.Use(bodyLimit)
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "Accept-Language", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, pool))
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	apiV1 := e.Group("/api/v1")
	jwtAuth := auth.JWTMiddleware(auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		SigningKey: []byte(cfg.AuthSigningKey),
		Skipper:    auth.AuthSkipper,
	})
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware(jwtAuth))
	} else {
		apiV1.Use(jwtAuth)
	}
	rateLimitCfg := middleware.DefaultRateLimitConfig()
	rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
	rateLimitCfg.BurstSize = cfg.RateLimitBurst
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.Audit(logger))

	// Identity
	identitySvc := identity.NewService(identity.NewUserRepoPG(pool), identity.NewPatientRepoPG(pool), engine, dispatcher)
	identity.NewHandler(identitySvc, messages).RegisterRoutes(apiV1)

	// Scheduling and clinical. Storing a prescription completes its appointment.
	apptRepo := scheduling.NewAppointmentRepoPG(pool)
	schedulingSvc := scheduling.NewService(apptRepo, identitySvc, engine, dispatcher)
	scheduling.NewHandler(schedulingSvc, messages).RegisterRoutes(apiV1)

	dispatcher.Subscribe(clinical.EntityPrescription, clinical.NewAppointmentCompleter(apptRepo, logger))
	clinicalSvc := clinical.NewService(clinical.NewPrescriptionRepoPG(pool), apptRepo, tx, engine, dispatcher)
	clinical.NewHandler(clinicalSvc, messages).RegisterRoutes(apiV1)

	// Catalog
	for kind, path := range map[catalog.Kind]string{
		catalog.KindLensType:  "/lens-types",
		catalog.KindTreatment: "/treatments",
	} {
		svc := catalog.NewService(catalog.NewItemRepoPG(pool, kind), engine, dispatcher)
		catalog.NewHandler(svc, path, messages).RegisterRoutes(apiV1)
	}

	// Inventory
	inventorySvc := inventory.NewService(
		inventory.NewWarehouseRepoPG(pool),
		inventory.NewLocationRepoPG(pool),
		inventory.NewProductRepoPG(pool),
		inventory.NewTransferRepoPG(pool),
		engine, dispatcher,
	)
	inventory.NewHandler(inventorySvc, messages).RegisterRoutes(apiV1)

	// Sales
	salesSvc := sales.NewService(
		sales.NewSaleRepoPG(pool),
		sales.NewPaymentRepoPG(pool),
		sales.NewAdjustmentRepoPG(pool),
		identitySvc, tx, engine, dispatcher,
	)
	sales.NewHandler(salesSvc, messages).RegisterRoutes(apiV1)

	// Laboratory
	labSvc := laboratory.NewService(laboratory.NewLaboratoryRepoPG(pool), laboratory.NewOrderRepoPG(pool), engine, dispatcher)
	laboratory.NewHandler(labSvc, messages).RegisterRoutes(apiV1)

	// Payroll
	payrollSvc := payroll.NewService(payroll.NewRepoPG(pool), engine, dispatcher)
	payroll.NewHandler(payrollSvc, messages).RegisterRoutes(apiV1)

	// Notes
	notesSvc := notes.NewService(notes.NewRepoPG(pool), engine, dispatcher)
	notes.NewHandler(notesSvc, messages).RegisterRoutes(apiV1)

	// Publisher observes last and sends after the surrounding transaction
	// commits.
	if publisher != nil {
		for _, entity := range publishedEntities {
			dispatcher.Subscribe(entity, publisher)
		}
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing lifecycle events")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
