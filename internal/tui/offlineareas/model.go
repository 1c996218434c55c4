// Package offlineareas содержит экран списка загруженных офлайн-областей для TUI
package offlineareas

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-offlinemaps/internal/area"
	"github.com/hazadus/go-offlinemaps/internal/data"
)

// AddAreaRequestedMsg отправляется, когда пользователь хочет добавить область
type AddAreaRequestedMsg struct{}

// DeleteAreaRequestedMsg отправляется, когда пользователь хочет удалить выбранную область
type DeleteAreaRequestedMsg struct {
	Area data.OfflineArea
}

// GoBackMsg отправляется при нажатии кнопки "назад"
type GoBackMsg struct{}

// Сообщения потока помечены номером подписки, чтобы отбрасывать доставку от отмененной
type snapshotMsg struct {
	sub      int
	snapshot area.Snapshot
}

type streamErrorMsg struct {
	sub int
	err error
}

type streamClosedMsg struct {
	sub int
}

// IsStreamMsg сообщает, что msg доставлено из потока областей. Хост должен передавать
// такие сообщения экрану, даже когда он скрыт, иначе чтение потока остановится.
func IsStreamMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case snapshotMsg, streamErrorMsg, streamClosedMsg:
		return true
	}
	return false
}

// lifecycleState этап жизненного цикла экрана
type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateSubscribed
	stateDestroyed
)

// Model экран списка офлайн-областей.
//
// Данные и виджет живут независимо: снимок из потока сохраняется всегда, а список
// обновляется только если уже построен. При построении список заполняется последним
// сохраненным снимком, поэтому данные, пришедшие раньше виджета, не теряются.
type Model struct {
	viewModel ViewModel
	host      Host
	logger    logrus.FieldLogger

	lifecycle    context.Context
	endLifecycle context.CancelFunc
	state        lifecycleState

	// Текущая подписка: номер, отмена и канал
	subID       int
	unsubscribe context.CancelFunc
	events      <-chan area.Event

	snapshot *area.Snapshot // последний полученный снимок, nil до первого
	binding  *Binding       // nil, пока дерево виджетов не построено
}

// NewModel создает экран. Жизненный цикл экрана порожден от ctx.
func NewModel(ctx context.Context, viewModel ViewModel, host Host, logger logrus.FieldLogger) *Model {
	lifecycle, end := context.WithCancel(ctx)
	return &Model{
		viewModel:    viewModel,
		host:         host,
		logger:       logger,
		lifecycle:    lifecycle,
		endLifecycle: end,
	}
}

// Init подписывается на поток областей. Подписка живет, пока экран не уничтожен.
func (m *Model) Init() tea.Cmd {
	if m.state != stateUninitialized {
		return nil
	}

	subCtx, cancel := context.WithCancel(m.lifecycle)
	m.subID++
	m.unsubscribe = cancel
	m.events = m.viewModel.OfflineAreas(subCtx)
	m.state = stateSubscribed

	return waitForEvent(m.subID, m.events)
}

// waitForEvent читает следующее событие потока в фоне и доставляет его в Update,
// который выполняется в единственной горутине интерфейса
func waitForEvent(sub int, events <-chan area.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{sub: sub}
		}
		if ev.Err != nil {
			return streamErrorMsg{sub: sub, err: ev.Err}
		}
		return snapshotMsg{sub: sub, snapshot: ev.Snapshot}
	}
}

// Destroy отменяет подписку и завершает жизненный цикл. Состояние конечное.
func (m *Model) Destroy() {
	if m.state == stateDestroyed {
		return
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.endLifecycle()
	m.state = stateDestroyed
}

// BuildVisualTree строит виджеты экрана и заполняет список последним сохраненным снимком
func (m *Model) BuildVisualTree(ic InflationContext) *Binding {
	binding := Inflate(ic)
	binding.SetViewModel(m.viewModel)
	binding.SetLifecycleOwner(m.lifecycle)

	if m.host != nil {
		m.host.SetActionBar(binding.Toolbar, true)
	}

	if m.snapshot != nil {
		binding.AreaList.SetItems(toItems(m.snapshot.Areas()))
	}

	m.binding = binding
	return binding
}

// onSnapshotReceived сохраняет снимок и полностью обновляет список, если он построен
func (m *Model) onSnapshotReceived(snapshot area.Snapshot) tea.Cmd {
	m.logger.Debugf("Получены офлайн-области: %s", snapshot)
	m.snapshot = &snapshot

	if m.binding == nil {
		return nil
	}
	return m.binding.AreaList.SetItems(toItems(snapshot.Areas()))
}

func (m *Model) accepts(sub int) bool {
	return m.state == stateSubscribed && sub == m.subID
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if !m.accepts(msg.sub) {
			return m, nil
		}
		refreshCmd := m.onSnapshotReceived(msg.snapshot)
		return m, tea.Batch(refreshCmd, waitForEvent(m.subID, m.events))

	case streamErrorMsg:
		if !m.accepts(msg.sub) {
			return m, nil
		}
		// Поток завершен ошибкой: список остается с последним снимком
		m.logger.WithError(msg.err).Error("Ошибка потока офлайн-областей")
		return m, nil

	case streamClosedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		if m.state == stateDestroyed {
			return m, nil
		}
		if m.binding == nil {
			m.BuildVisualTree(InflationContext{Width: msg.Width, Height: msg.Height})
		} else {
			m.binding.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if m.binding == nil || m.state == stateDestroyed {
			return m, nil
		}
		if m.binding.AreaList.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "a":
			return m, func() tea.Msg { return AddAreaRequestedMsg{} }

		case "d", "delete":
			if item, ok := m.binding.AreaList.SelectedItem().(areaItem); ok {
				return m, func() tea.Msg {
					return DeleteAreaRequestedMsg{Area: item.area}
				}
			}
			return m, nil

		case "esc":
			// Esc сначала сбрасывает примененный фильтр
			if m.binding.AreaList.FilterState() == list.FilterApplied {
				break
			}
			return m, func() tea.Msg { return GoBackMsg{} }
		}
	}

	if m.binding == nil {
		return m, nil
	}

	// Обновляем список
	var cmd tea.Cmd
	*m.binding.AreaList, cmd = m.binding.AreaList.Update(msg)
	return m, cmd
}

// View отображает экран
func (m *Model) View() string {
	if m.binding == nil {
		return ""
	}
	return m.binding.Root()
}
