// Package editor содержит модель экрана добавления офлайн-области для TUI
package editor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-offlinemaps/internal/data"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// Максимальный масштаб тайлов
const maxZoom = 22

// AreaSavedMsg отправляется когда область успешно добавлена
type AreaSavedMsg struct {
	Area data.OfflineArea
}

// GoBackMsg отправляется при отмене добавления
type GoBackMsg struct{}

// saveFailedMsg результат неудачного сохранения
type saveFailedMsg struct {
	err error
}

// AreaAdder сохраняет новую область
type AreaAdder interface {
	AddArea(ctx context.Context, area data.OfflineArea) (data.OfflineArea, error)
}

// fieldType определяет тип поля для редактирования
type fieldType int

const (
	nameField fieldType = iota
	northField
	southField
	eastField
	westField
	minZoomField
	maxZoomField
	numFields
)

var labels = [numFields]string{"Название:", "Север:", "Юг:", "Восток:", "Запад:", "Мин. масштаб:", "Макс. масштаб:"}

// Model представляет модель экрана добавления области
type Model struct {
	ctx        context.Context
	adder      AreaAdder
	inputs     []textinput.Model
	focusIndex int
	err        string
	saving     bool
}

// NewModel создает новую модель редактора области
func NewModel(ctx context.Context, adder AreaAdder) *Model {
	inputs := make([]textinput.Model, numFields)

	placeholders := [numFields]string{
		"Введите название области",
		"Широта, например 55.92",
		"Широта, например 55.57",
		"Долгота, например 37.84",
		"Долгота, например 37.36",
		"0-22",
		"0-22",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].PromptStyle = blurredStyle
		inputs[i].TextStyle = blurredStyle
	}
	inputs[minZoomField].SetValue("10")
	inputs[maxZoomField].SetValue("16")

	inputs[nameField].Focus()
	inputs[nameField].PromptStyle = focusedStyle
	inputs[nameField].TextStyle = focusedStyle

	return &Model{
		ctx:    ctx,
		adder:  adder,
		inputs: inputs,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveFailedMsg:
		m.saving = false
		m.err = fmt.Sprintf("Ошибка сохранения: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Отменяем добавление
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			return m, m.save()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			// Enter на кнопке сохранения
			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m, m.save()
			}

			// Перемещение фокуса
			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			return m, m.updateFocus()
		}

	case tea.WindowSizeMsg:
		// Обновляем ширину полей ввода
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil
	}

	// Обновляем активное поле ввода
	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateFocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds[i] = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = focusedStyle
			m.inputs[i].TextStyle = focusedStyle
			continue
		}
		m.inputs[i].Blur()
		m.inputs[i].PromptStyle = blurredStyle
		m.inputs[i].TextStyle = blurredStyle
	}
	return tea.Batch(cmds...)
}

// save проверяет поля в горутине интерфейса и сохраняет область в фоне
func (m *Model) save() tea.Cmd {
	if m.saving {
		return nil
	}

	area, err := m.parse()
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.err = ""
	m.saving = true

	ctx, adder := m.ctx, m.adder
	return func() tea.Msg {
		added, err := adder.AddArea(ctx, area)
		if err != nil {
			return saveFailedMsg{err: err}
		}
		return AreaSavedMsg{Area: added}
	}
}

// parse собирает область из полей ввода
func (m *Model) parse() (data.OfflineArea, error) {
	name := strings.TrimSpace(m.inputs[nameField].Value())
	if name == "" {
		return data.OfflineArea{}, errors.New("Поле 'Название' не может быть пустым")
	}

	north, err := parseCoord(m.inputs[northField].Value(), "Север", 90)
	if err != nil {
		return data.OfflineArea{}, err
	}
	south, err := parseCoord(m.inputs[southField].Value(), "Юг", 90)
	if err != nil {
		return data.OfflineArea{}, err
	}
	east, err := parseCoord(m.inputs[eastField].Value(), "Восток", 180)
	if err != nil {
		return data.OfflineArea{}, err
	}
	west, err := parseCoord(m.inputs[westField].Value(), "Запад", 180)
	if err != nil {
		return data.OfflineArea{}, err
	}
	if south > north {
		return data.OfflineArea{}, errors.New("Южная граница должна быть не больше северной")
	}

	minZ, err := parseZoom(m.inputs[minZoomField].Value(), "Мин. масштаб")
	if err != nil {
		return data.OfflineArea{}, err
	}
	maxZ, err := parseZoom(m.inputs[maxZoomField].Value(), "Макс. масштаб")
	if err != nil {
		return data.OfflineArea{}, err
	}
	if minZ > maxZ {
		return data.OfflineArea{}, errors.New("Минимальный масштаб должен быть не больше максимального")
	}

	return data.OfflineArea{
		Name:    name,
		North:   north,
		South:   south,
		East:    east,
		West:    west,
		MinZoom: minZ,
		MaxZoom: maxZ,
		State:   data.StatePending,
	}, nil
}

func parseCoord(value, label string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v < -limit || v > limit {
		return 0, fmt.Errorf("Поле '%s' должно быть числом от %g до %g", label, -limit, limit)
	}
	return v, nil
}

func parseZoom(value, label string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || v < 0 || v > maxZoom {
		return 0, fmt.Errorf("Поле '%s' должно быть целым числом от 0 до %d", label, maxZoom)
	}
	return v, nil
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Новая офлайн-область"))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	// Кнопка сохранения
	saveButton := "[ Сохранить ]"
	if m.saving {
		saveButton = "[ Сохранение... ]"
	}
	if m.focusIndex == len(m.inputs) {
		saveButton = focusedStyle.Render(saveButton)
	} else {
		saveButton = blurredStyle.Render(saveButton)
	}
	b.WriteString(saveButton)
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	// Справка
	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • Shift+Tab: предыдущее поле"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Ctrl+S: сохранить • Esc: отмена"))

	return b.String()
}
