package editor

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/go-offlinemaps/internal/data"
)

type fakeAdder struct {
	added []data.OfflineArea
	err   error
}

func (f *fakeAdder) AddArea(_ context.Context, a data.OfflineArea) (data.OfflineArea, error) {
	if f.err != nil {
		return data.OfflineArea{}, f.err
	}
	a.ID = len(f.added) + 1
	f.added = append(f.added, a)
	return a, nil
}

func fill(m *Model, values ...string) {
	for i, v := range values {
		m.inputs[i].SetValue(v)
	}
}

func TestSaveValidArea(t *testing.T) {
	adder := &fakeAdder{}
	m := NewModel(context.Background(), adder)
	fill(m, "Москва", "55.92", "55.57", "37.84", "37.36", "10", "14")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, m.saving)

	msg, ok := cmd().(AreaSavedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Area.ID)
	assert.Equal(t, "Москва", msg.Area.Name)
	assert.Equal(t, 55.92, msg.Area.North)
	assert.Equal(t, 37.36, msg.Area.West)
	assert.Equal(t, 10, msg.Area.MinZoom)
	assert.Equal(t, 14, msg.Area.MaxZoom)
	assert.Equal(t, data.StatePending, msg.Area.State)
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		errMsg string
	}{
		{"пустое название", []string{"  ", "1", "0", "1", "0", "1", "2"}, "Название"},
		{"широта вне диапазона", []string{"a", "91", "0", "1", "0", "1", "2"}, "Север"},
		{"долгота не число", []string{"a", "1", "0", "x", "0", "1", "2"}, "Восток"},
		{"юг севернее севера", []string{"a", "10", "20", "1", "0", "1", "2"}, "Южная граница"},
		{"масштаб вне диапазона", []string{"a", "1", "0", "1", "0", "1", "23"}, "Макс. масштаб"},
		{"мин. больше макс.", []string{"a", "1", "0", "1", "0", "15", "12"}, "Минимальный масштаб"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adder := &fakeAdder{}
			m := NewModel(context.Background(), adder)
			fill(m, tt.values...)

			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
			assert.Nil(t, cmd)
			assert.False(t, m.saving)
			assert.Contains(t, m.err, tt.errMsg)
			assert.Contains(t, m.View(), tt.errMsg)
			assert.Empty(t, adder.added)
		})
	}
}

func TestSaveFailureIsShown(t *testing.T) {
	adder := &fakeAdder{err: errors.New("диск переполнен")}
	m := NewModel(context.Background(), adder)
	fill(m, "a", "1", "0", "1", "0", "1", "2")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	m.Update(cmd())
	assert.False(t, m.saving)
	assert.Contains(t, m.View(), "диск переполнен")
}

func TestSaveIgnoredWhileSaving(t *testing.T) {
	m := NewModel(context.Background(), &fakeAdder{})
	fill(m, "a", "1", "0", "1", "0", "1", "2")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
}

func TestFocusNavigation(t *testing.T) {
	m := NewModel(context.Background(), &fakeAdder{})
	assert.Equal(t, 0, m.focusIndex)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focusIndex)
	assert.True(t, m.inputs[northField].Focused())
	assert.False(t, m.inputs[nameField].Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(m.inputs), m.focusIndex, "фокус должен перейти на кнопку сохранения")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.focusIndex)
}

func TestEnterOnSaveButtonSaves(t *testing.T) {
	adder := &fakeAdder{}
	m := NewModel(context.Background(), adder)
	fill(m, "a", "1", "0", "1", "0", "1", "2")
	m.focusIndex = len(m.inputs)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, AreaSavedMsg{}, cmd())
}

func TestEscGoesBack(t *testing.T) {
	m := NewModel(context.Background(), &fakeAdder{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, GoBackMsg{}, cmd())
}

func TestTypingGoesToFocusedInput(t *testing.T) {
	m := NewModel(context.Background(), &fakeAdder{})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Тверь")})
	assert.Equal(t, "Тверь", m.inputs[nameField].Value())
	assert.Contains(t, m.View(), "Новая офлайн-область")
}
