package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-offlinemaps/internal/area"
	"github.com/hazadus/go-offlinemaps/internal/catalog"
	"github.com/hazadus/go-offlinemaps/internal/config"
	"github.com/hazadus/go-offlinemaps/internal/logger"
	"github.com/hazadus/go-offlinemaps/internal/uploader"
)

const (
	defaultConfigPath = "~/.offlinemaps.yaml"
)

// Application объединяет конфигурацию, каталог областей и логгер
type Application struct {
	Config  *config.Config
	Source  catalog.Source
	Manager *area.Manager
	Logger  *logrus.Logger

	// Хранилище резервных копий, если nil, создается S3 клиент из конфигурации
	BackupStore uploader.ObjectStore
}

// newApplication загружает конфигурацию и открывает каталог
func newApplication(ctx context.Context, configPath string) (*Application, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки логирования: %w", err)
	}

	source, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия каталога: %w", err)
	}

	manager := area.NewManager(source, log)
	if err := manager.Load(ctx); err != nil {
		source.Close()
		return nil, fmt.Errorf("ошибка загрузки каталога: %w", err)
	}

	log.WithField("backend", cfg.CatalogBackend).Info("Каталог областей загружен")

	return &Application{
		Config:  cfg,
		Source:  source,
		Manager: manager,
		Logger:  log,
	}, nil
}

// Close освобождает хранилище каталога
func (app *Application) Close() {
	if err := app.Source.Close(); err != nil {
		app.Logger.WithError(err).Error("Ошибка закрытия каталога")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := os.Getenv("OFFLINEMAPS_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	app, err := newApplication(ctx, configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	rootCmd := app.createRootCommand(ctx)
	err = rootCmd.Execute()
	app.Close()
	if err != nil {
		os.Exit(1)
	}
}
