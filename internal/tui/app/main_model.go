// Package app содержит основную логику TUI приложения
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-offlinemaps/internal/data"
	"github.com/hazadus/go-offlinemaps/internal/tui/editor"
	"github.com/hazadus/go-offlinemaps/internal/tui/offlineareas"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// AreasScreen - экран списка офлайн-областей
	AreasScreen ScreenType = iota
	// EditorScreen - экран добавления области
	EditorScreen
)

// areaRemovedMsg результат удаления области
type areaRemovedMsg struct {
	area data.OfflineArea
	err  error
}

// ViewModel операции, которые главная модель выполняет над каталогом
type ViewModel interface {
	offlineareas.ViewModel
	editor.AreaAdder
	RemoveArea(ctx context.Context, id int) (data.OfflineArea, error)
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctx           context.Context
	viewModel     ViewModel
	logger        logrus.FieldLogger
	currentScreen ScreenType
	areasModel    *offlineareas.Model
	editorModel   *editor.Model

	// Панель, которую настроил текущий экран
	toolbar  *offlineareas.Toolbar
	showBack bool

	width  int
	height int
}

// NewMainModel создает новую главную модель
func NewMainModel(ctx context.Context, viewModel ViewModel, logger logrus.FieldLogger) *MainModel {
	m := &MainModel{
		ctx:           ctx,
		viewModel:     viewModel,
		logger:        logger,
		currentScreen: AreasScreen,
	}
	m.areasModel = offlineareas.NewModel(ctx, viewModel, m, logger)
	return m
}

// SetActionBar запоминает панель экрана
func (m *MainModel) SetActionBar(toolbar *offlineareas.Toolbar, showBackButton bool) {
	toolbar.ShowBack = showBackButton
	m.toolbar = toolbar
	m.showBack = showBackButton
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return m.areasModel.Init()
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

	case offlineareas.GoBackMsg:
		return m, m.quit()

	case offlineareas.AddAreaRequestedMsg:
		// Переключаемся на экран добавления области
		m.currentScreen = EditorScreen
		m.editorModel = editor.NewModel(m.ctx, m.viewModel)
		m.editorModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, m.editorModel.Init()

	case offlineareas.DeleteAreaRequestedMsg:
		ctx, vm, id := m.ctx, m.viewModel, msg.Area.ID
		return m, func() tea.Msg {
			removed, err := vm.RemoveArea(ctx, id)
			return areaRemovedMsg{area: removed, err: err}
		}

	case areaRemovedMsg:
		if msg.err != nil {
			m.logger.WithError(msg.err).Error("Не удалось удалить область")
		} else {
			m.logger.WithField("area_id", msg.area.ID).Info("Область удалена")
		}
		return m, nil

	case editor.AreaSavedMsg:
		m.logger.WithField("area_id", msg.Area.ID).Info("Область добавлена")
		m.backToAreas()
		return m, nil

	case editor.GoBackMsg:
		m.backToAreas()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// Список строится и при открытом редакторе, чтобы не пропустить размер
		var areasCmd, editorCmd tea.Cmd
		m.areasModel, areasCmd = m.areasModel.Update(msg)
		if m.editorModel != nil {
			m.editorModel, editorCmd = m.editorModel.Update(msg)
		}
		return m, tea.Batch(areasCmd, editorCmd)
	}

	// Передаем сообщение активной модели. Поток областей читает только экран списка.
	var cmd tea.Cmd
	switch m.currentScreen {
	case AreasScreen:
		m.areasModel, cmd = m.areasModel.Update(msg)

	case EditorScreen:
		if offlineareas.IsStreamMsg(msg) {
			m.areasModel, cmd = m.areasModel.Update(msg)
		} else if m.editorModel != nil {
			m.editorModel, cmd = m.editorModel.Update(msg)
		}
	}

	return m, cmd
}

func (m *MainModel) backToAreas() {
	m.currentScreen = AreasScreen
	m.editorModel = nil
}

func (m *MainModel) quit() tea.Cmd {
	m.areasModel.Destroy()
	return tea.Quit
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case AreasScreen:
		return m.areasModel.View()

	case EditorScreen:
		if m.editorModel == nil {
			return "Ошибка: модель редактора не инициализирована"
		}
		if m.toolbar == nil {
			return m.editorModel.View()
		}
		return m.toolbar.View(m.width) + "\n" + m.editorModel.View()

	default:
		return "Неизвестный экран"
	}
}

// Close завершает жизненный цикл экранов
func (m *MainModel) Close() {
	m.areasModel.Destroy()
}
