package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-offlinemaps/internal/tui"
	"github.com/hazadus/go-offlinemaps/internal/tui/offlineareas"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing and managing offline areas.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
	}
}

func (app *Application) launchTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Подхватываем изменения каталога, сделанные из другого процесса
	if interval := app.Config.WatchInterval; interval > 0 {
		go func() {
			err := app.Manager.Watch(ctx, interval)
			if err != nil && !errors.Is(err, context.Canceled) {
				app.Logger.WithError(err).Warn("Отслеживание каталога остановлено")
			}
		}()
	}

	viewModel := offlineareas.NewAreasViewModel(app.Manager)
	return tui.NewApp(viewModel, app.Logger).Run(ctx)
}
