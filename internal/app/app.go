// Package app wires configuration into a ready-to-run verification service.
package app

import (
	"context"
	"fmt"
	"log"

	"go-dashboard-verification/internal/browser"
	"go-dashboard-verification/internal/config"
	"go-dashboard-verification/internal/database"
	"go-dashboard-verification/internal/history"
	"go-dashboard-verification/internal/models"
	"go-dashboard-verification/internal/report"
	"go-dashboard-verification/internal/reporter"
	"go-dashboard-verification/internal/verify"
)

type App struct {
	Config  *config.Config
	Service *verify.Service
	History *history.Log
	DB      *database.Repository // nil unless DATABASE_URL is set
}

// New builds the service with a playwright launcher and every configured recorder.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	launcher := verify.PlaywrightLauncher(&browser.Launcher{
		Options:     browserOptions(cfg),
		CookiesPath: cfg.Browser.CookiesPath,
	})
	return NewWithLauncher(ctx, cfg, launcher)
}

func browserOptions(cfg *config.Config) browser.Options {
	return browser.Options{
		Engine:         cfg.Browser.Engine,
		Headless:       !cfg.Browser.Headed,
		Install:        cfg.Browser.Install,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
	}
}

func NewWithLauncher(ctx context.Context, cfg *config.Config, launcher verify.Launcher) (*App, error) {
	a := &App{
		Config:  cfg,
		History: history.NewLog(cfg.HistoryPath),
	}
	recorders := []verify.Recorder{a.History}

	if !cfg.Report.Disabled {
		gen, err := report.NewGenerator(cfg.OutputDir, cfg.Report.PDF, browserOptions(cfg))
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, gen)
	}

	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		log.Println("🗄️ Recording runs to PostgreSQL")
		a.DB = repo
		recorders = append(recorders, repo)
	}

	if cfg.TelegramEnabled() {
		tg, err := reporter.NewTelegramReporter(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Println("🤖 Telegram reporting enabled")
		recorders = append(recorders, tg)
	}

	a.Service = verify.NewService(verify.NewRunner(cfg, launcher), recorders...)
	return a, nil
}

// RecentRuns prefers the database and falls back to the history file.
func (a *App) RecentRuns(ctx context.Context, limit int) ([]models.Run, error) {
	if a.DB != nil {
		return a.DB.ListRuns(ctx, limit)
	}
	return a.History.Recent(limit), nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
