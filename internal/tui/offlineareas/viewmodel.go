package offlineareas

import (
	"context"
	"fmt"
	"sync"

	"github.com/hazadus/go-offlinemaps/internal/area"
	"github.com/hazadus/go-offlinemaps/internal/data"
)

// ViewModel источник снимков каталога для экрана
type ViewModel interface {
	// OfflineAreas возвращает поток снимков, который закрывается при отмене ctx
	OfflineAreas(ctx context.Context) <-chan area.Event
}

// Host экран-владелец, который отвечает за общую панель и навигацию
type Host interface {
	SetActionBar(toolbar *Toolbar, showBackButton bool)
}

// AreasViewModel view-model экрана поверх менеджера каталога
type AreasViewModel struct {
	manager *area.Manager

	mu     sync.Mutex
	status string
}

// NewAreasViewModel создает view-model экрана офлайн-областей
func NewAreasViewModel(manager *area.Manager) *AreasViewModel {
	return &AreasViewModel{manager: manager}
}

func (vm *AreasViewModel) OfflineAreas(ctx context.Context) <-chan area.Event {
	return vm.manager.Subscribe(ctx)
}

// AddArea добавляет область в каталог
func (vm *AreasViewModel) AddArea(ctx context.Context, a data.OfflineArea) (data.OfflineArea, error) {
	added, err := vm.manager.Add(ctx, a)
	if err != nil {
		vm.setStatus(fmt.Sprintf("Не удалось добавить область: %v", err))
		return data.OfflineArea{}, err
	}
	vm.setStatus(fmt.Sprintf("Область %q добавлена", added.Name))
	return added, nil
}

// RemoveArea удаляет область из каталога
func (vm *AreasViewModel) RemoveArea(ctx context.Context, id int) (data.OfflineArea, error) {
	removed, err := vm.manager.Delete(ctx, id)
	if err != nil {
		vm.setStatus(fmt.Sprintf("Не удалось удалить область: %v", err))
		return data.OfflineArea{}, err
	}
	vm.setStatus(fmt.Sprintf("Область %q удалена", removed.Name))
	return removed, nil
}

// Status возвращает результат последней операции
func (vm *AreasViewModel) Status() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.status
}

func (vm *AreasViewModel) setStatus(status string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.status = status
}
