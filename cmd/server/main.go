package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/roaddefects/internal/api"
	"github.com/ougirez/roaddefects/internal/config"
	"github.com/ougirez/roaddefects/internal/pkg/defectapi"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"github.com/ougirez/roaddefects/internal/pkg/store"
	"github.com/ougirez/roaddefects/internal/pkg/store/xpgx"
	"github.com/ougirez/roaddefects/internal/service/auth"
	"github.com/ougirez/roaddefects/internal/service/defects"
	"github.com/ougirez/roaddefects/internal/service/locations"
	"github.com/ougirez/roaddefects/internal/service/report"
	"github.com/ougirez/roaddefects/internal/service/user"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to the config file")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "roaddefects: %s\n", err.Error())
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	if _, err = logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("logger.Init: %w", err)
	}
	defer logger.Sync()

	pool, err := xpgx.NewPool(ctx, xpgx.Config{DSN: cfg.Database.DSN, MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("xpgx.NewPool: %w", err)
	}
	defer pool.Close()

	db := store.NewStore(pool)
	if err = db.Migrate(ctx); err != nil {
		return fmt.Errorf("store.Migrate: %w", err)
	}

	authService := auth.NewService(db, auth.Config{
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	if err = authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("auth.EnsureAdmin: %w", err)
	}

	client := defectapi.NewClient(defectapi.Config{
		BaseURL:    cfg.DefectAPI.BaseURL,
		Timeout:    cfg.DefectAPI.Timeout,
		MaxRetries: cfg.DefectAPI.MaxRetries,
	})

	reportService, err := report.New(ctx, report.Config{
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		MaxRecords: cfg.LLM.MaxRecords,
		Timeout:    cfg.LLM.Timeout,
	})
	if err != nil {
		return fmt.Errorf("report.New: %w", err)
	}

	svc, err := api.NewAPIService(api.Config{
		CORSOrigins:  cfg.Server.CORSOrigins,
		CookieSecure: cfg.Auth.CookieSecure,
		Debug:        cfg.Server.Debug,
	}, api.Services{
		Auth:      authService,
		User:      user.NewUserService(db),
		Defects:   defects.NewDefectsService(client),
		Locations: locations.NewLocationsService(client),
		Report:    reportService,
	})
	if err != nil {
		return fmt.Errorf("api.NewAPIService: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return svc.Serve(cfg.Server.Addr)
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Infof(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return svc.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
