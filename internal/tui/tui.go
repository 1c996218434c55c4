// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-offlinemaps/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	viewModel app.ViewModel
	logger    logrus.FieldLogger
	options   []tea.ProgramOption
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(viewModel app.ViewModel, logger logrus.FieldLogger, options ...tea.ProgramOption) *App {
	if len(options) == 0 {
		options = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &App{
		viewModel: viewModel,
		logger:    logger,
		options:   options,
	}
}

// Run запускает TUI приложение и блокируется до выхода из него или отмены ctx
func (tuiApp *App) Run(ctx context.Context) error {
	// Создаем модель для Bubble Tea
	model := app.NewMainModel(ctx, tuiApp.viewModel, tuiApp.logger)

	// Создаем программу Bubble Tea
	options := append([]tea.ProgramOption{tea.WithContext(ctx)}, tuiApp.options...)
	p := tea.NewProgram(model, options...)

	// Запускаем программу
	_, err := p.Run()

	// Отменяем подписку экрана после завершения программы
	model.Close()

	return err
}
