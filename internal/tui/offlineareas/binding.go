package offlineareas

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-offlinemaps/internal/data"
	"github.com/hazadus/go-offlinemaps/internal/utils"
)

var (
	toolbarStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	backStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	statusStyle       = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("241"))
	emptyStyle        = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("241"))
)

// Высота строк, занятых панелью и строкой статуса
const chromeHeight = 3

// InflationContext место, которое хост выделил экрану
type InflationContext struct {
	Width  int
	Height int
}

// Toolbar панель экрана с заголовком и кнопкой "назад"
type Toolbar struct {
	Title    string
	ShowBack bool
}

// View отображает панель на всю ширину
func (t *Toolbar) View(width int) string {
	title := t.Title
	if t.ShowBack {
		title = backStyle.Render("← ") + title
	}
	style := toolbarStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(title)
}

// StatusProvider реализуется view-model, у которой есть строка статуса для экрана
type StatusProvider interface {
	Status() string
}

// Binding связывает виджеты экрана: панель, список областей и источники данных
type Binding struct {
	Toolbar  *Toolbar
	AreaList *list.Model

	viewModel      ViewModel
	lifecycleOwner context.Context
	width          int
}

// Inflate строит виджеты экрана. Список создается пустым, данные в него кладет экран.
func Inflate(ic InflationContext) *Binding {
	l := list.New(nil, areaItemDelegate{}, ic.Width, listHeight(ic.Height))
	l.SetShowTitle(false) // Заголовок рисует Toolbar
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("область", "области")
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Binding{
		Toolbar:  &Toolbar{Title: "Офлайн-области"},
		AreaList: &l,
		width:    ic.Width,
	}
}

// SetViewModel задает view-model, из которой берется строка статуса
func (b *Binding) SetViewModel(vm ViewModel) {
	b.viewModel = vm
}

// SetLifecycleOwner задает контекст жизненного цикла: после его отмены экран ничего не рисует
func (b *Binding) SetLifecycleOwner(owner context.Context) {
	b.lifecycleOwner = owner
}

// Resize меняет размеры виджетов
func (b *Binding) Resize(width, height int) {
	b.width = width
	b.AreaList.SetSize(width, listHeight(height))
}

// Root отображает все дерево виджетов
func (b *Binding) Root() string {
	if b.lifecycleOwner != nil && b.lifecycleOwner.Err() != nil {
		return ""
	}

	body := b.AreaList.View()
	if len(b.AreaList.Items()) == 0 {
		body = emptyStyle.Render("Нет загруженных областей. Нажмите a, чтобы добавить.")
	}

	status := ""
	if sp, ok := b.viewModel.(StatusProvider); ok {
		status = sp.Status()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		b.Toolbar.View(b.width),
		body,
		statusStyle.Render(status),
		helpStyle.Render("a: добавить • d: удалить • /: поиск • esc: назад"),
	)
}

func listHeight(height int) int {
	if height <= chromeHeight {
		return 0
	}
	return height - chromeHeight
}

// areaItem реализует интерфейс list.Item для области
type areaItem struct {
	area data.OfflineArea
}

func (i areaItem) FilterValue() string {
	return i.area.Name
}

// areaItemDelegate отображает области строками одинаковой высоты
type areaItemDelegate struct{}

func (d areaItemDelegate) Height() int                             { return 1 }
func (d areaItemDelegate) Spacing() int                            { return 0 }
func (d areaItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d areaItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(areaItem)
	if !ok {
		return
	}

	// ID | Название | Границы | Масштабы | Размер | Состояние
	a := i.area
	str := fmt.Sprintf("%-4d %-24s %-28s %-8s %-10s %s",
		a.ID,
		utils.TruncateString(a.Name, 24),
		utils.TruncateString(utils.FormatBounds(a.North, a.South, a.East, a.West), 28),
		utils.FormatZoom(a.MinZoom, a.MaxZoom),
		utils.FormatFileSize(a.SizeBytes),
		stateLabel(a.State))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

func stateLabel(state data.AreaState) string {
	switch state {
	case data.StatePending:
		return "ожидает"
	case data.StateInProgress:
		return "загружается"
	case data.StateDownloaded:
		return "загружена"
	case data.StateFailed:
		return "ошибка"
	default:
		return string(state)
	}
}

func toItems(areas []data.OfflineArea) []list.Item {
	items := make([]list.Item, len(areas))
	for i, a := range areas {
		items[i] = areaItem{area: a}
	}
	return items
}
