package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/catalog"
	"catalog/internal/config"
	mydb "catalog/internal/db"
	"catalog/internal/imagestore"
	"catalog/internal/metrics"
	"catalog/internal/models"
	"catalog/internal/web"
)

func main() {
	config.LoadDotEnv()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog web app",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update database tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, log, err := bootstrap()
				if err != nil {
					return err
				}
				defer log.Sync() //nolint:errcheck
				if err := mydb.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				log.Info("migrations applied")
				return nil
			},
		},
		userCmd(),
	)

	return cmd
}

func userCmd() *cobra.Command {
	var (
		email    string
		username string
		password string
		admin    bool
	)

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			if err := mydb.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			role := models.RoleUser
			if admin {
				role = models.RoleAdmin
			}
			u, err := mydb.CreateUser(cmd.Context(), db, email, username, password, role)
			if err != nil {
				return err
			}
			log.Info("user created", zap.Uint("id", u.ID), zap.String("username", u.Username), zap.String("role", string(u.Role)))
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&username, "username", "", "login name")
	create.Flags().StringVar(&password, "password", "", "password")
	create.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	for _, f := range []string{"email", "username", "password"} {
		_ = create.MarkFlagRequired(f)
	}

	cmd := &cobra.Command{Use: "user", Short: "Manage user accounts"}
	cmd.AddCommand(create)
	return cmd
}

func bootstrap() (config.Config, *gorm.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	db, err := mydb.Open(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, db, log, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serve(ctx context.Context) error {
	cfg, db, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if err := mydb.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	images, err := imagestore.New(cfg.ImageDir)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := catalog.NewService(db, images,
		catalog.WithLogger(log),
		catalog.WithMetrics(metrics.New(reg)),
		catalog.WithMaxImageKB(cfg.MaxImageKB),
	)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.SessionSecret == "dev_fallback_secret" {
		log.Warn("SESSION_SECRET not set, using the development fallback")
	}

	handler, err := web.NewHandler(web.Deps{
		DB:            db,
		Catalog:       svc,
		Images:        images,
		Logger:        log,
		SessionSecret: cfg.SessionSecret,
		Gatherer:      reg,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("image_dir", images.Dir()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
