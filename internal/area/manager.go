package area

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/hazadus/go-offlinemaps/internal/catalog"
	"github.com/hazadus/go-offlinemaps/internal/data"
)

// ErrAlreadyWatching возвращается при повторном запуске Watch
var ErrAlreadyWatching = errors.New("отслеживание каталога уже запущено")

// subscription один подписчик потока областей
type subscription struct {
	ctx context.Context
	ch  chan Event
}

// Manager управляет каталогом областей и рассылает его снимки подписчикам
type Manager struct {
	source catalog.Source
	logger logrus.FieldLogger

	// writeMu упорядочивает чтение источника и изменения каталога
	writeMu sync.Mutex
	// publishMu упорядочивает рассылку: подписчики получают снимки в порядке публикации
	publishMu sync.Mutex

	mu      sync.Mutex
	current Snapshot
	loaded  bool
	subs    map[int]*subscription
	nextSub int

	watching *atomic.Bool
}

// NewManager создает новый экземпляр Manager
func NewManager(source catalog.Source, logger logrus.FieldLogger) *Manager {
	return &Manager{
		source:   source,
		logger:   logger,
		subs:     make(map[int]*subscription),
		watching: atomic.NewBool(false),
	}
}

// Subscribe подписывается на снимки каталога. Если каталог уже загружен, текущий снимок
// приходит сразу. Канал закрывается при отмене ctx или после события с ошибкой.
func (m *Manager) Subscribe(ctx context.Context) <-chan Event {
	// Буфер на один элемент гарантирует, что начальный снимок не блокирует подписку
	ch := make(chan Event, 1)

	m.publishMu.Lock()
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = &subscription{ctx: ctx, ch: ch}
	if m.loaded {
		ch <- Event{Snapshot: m.current}
	}
	m.mu.Unlock()
	m.publishMu.Unlock()

	go func() {
		<-ctx.Done()
		m.unsubscribe(id)
	}()

	return ch
}

func (m *Manager) unsubscribe(id int) {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subs[id]; ok {
		delete(m.subs, id)
		close(sub.ch)
	}
}

// Current возвращает последний опубликованный снимок
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.loaded
}

// Load читает каталог из источника и публикует снимок.
// Ошибка чтения рассылается подписчикам как завершающее событие.
func (m *Manager) Load(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	areas, err := m.source.Load(ctx)
	if err != nil {
		err = fmt.Errorf("ошибка загрузки каталога областей: %w", err)
		m.publish(Event{Err: err})
		return err
	}
	m.publish(Event{Snapshot: NewSnapshot(areas)})
	return nil
}

// Add добавляет область в каталог, сохраняет его и публикует новый снимок
func (m *Manager) Add(ctx context.Context, area data.OfflineArea) (data.OfflineArea, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	appData, err := m.currentData(ctx)
	if err != nil {
		return data.OfflineArea{}, err
	}

	if area.CreatedAt.IsZero() {
		area.CreatedAt = time.Now().UTC()
	}
	added := appData.AddArea(area)

	if err := m.source.Save(ctx, appData.Areas); err != nil {
		return data.OfflineArea{}, fmt.Errorf("ошибка сохранения каталога: %w", err)
	}

	m.logger.WithField("area_id", added.ID).Infof("Добавлена область %q", added.Name)
	m.publish(Event{Snapshot: NewSnapshot(appData.Areas)})
	return added, nil
}

// Delete удаляет область из каталога. Для неизвестного ID возвращает
// data.ErrAreaNotFound и ничего не публикует.
func (m *Manager) Delete(ctx context.Context, id int) (data.OfflineArea, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	appData, err := m.currentData(ctx)
	if err != nil {
		return data.OfflineArea{}, err
	}

	area, err := appData.AreaByID(id)
	if err != nil {
		return data.OfflineArea{}, err
	}
	removed := *area

	if err := appData.DeleteAreaByID(id); err != nil {
		return data.OfflineArea{}, err
	}
	if err := m.source.Save(ctx, appData.Areas); err != nil {
		return data.OfflineArea{}, fmt.Errorf("ошибка сохранения каталога: %w", err)
	}

	m.logger.WithField("area_id", id).Infof("Удалена область %q", removed.Name)
	m.publish(Event{Snapshot: NewSnapshot(appData.Areas)})
	return removed, nil
}

// Watch периодически перечитывает источник и публикует снимок, если каталог изменился
// (например, через CLI при открытом TUI). Ошибки опроса логируются и не завершают поток.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) error {
	if !m.watching.CAS(false, true) {
		return ErrAlreadyWatching
	}
	defer m.watching.Store(false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Manager) poll(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if _, err := m.currentData(ctx); err != nil && ctx.Err() == nil {
		m.logger.WithError(err).Warn("Не удалось перечитать каталог областей")
	}
}

// currentData перечитывает каталог из источника и возвращает его изменяемую копию.
// Если каталог изменили извне, сначала публикуется свежий снимок.
// Вызывается под writeMu.
func (m *Manager) currentData(ctx context.Context) (*data.AppData, error) {
	areas, err := m.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки каталога областей: %w", err)
	}

	next := NewSnapshot(areas)
	if current, loaded := m.Current(); !loaded || !current.Equal(next) {
		m.logger.Debug("Каталог областей изменился, публикуем новый снимок")
		m.publish(Event{Snapshot: next})
	}
	return &data.AppData{Areas: next.Areas()}, nil
}

// publish рассылает событие всем подписчикам в порядке публикации.
// После события с ошибкой каналы подписчиков закрываются.
func (m *Manager) publish(ev Event) {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()

	m.mu.Lock()
	if ev.Err == nil {
		m.current = ev.Snapshot
		m.loaded = true
	}
	subs := make(map[int]*subscription, len(m.subs))
	for id, sub := range m.subs {
		subs[id] = sub
	}
	m.mu.Unlock()

	for _, sub := range subs {
		send(sub, ev)
	}

	if ev.Err == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range subs {
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub.ch)
		}
	}
}

// send доставляет событие подписчику. Отмена контекста имеет приоритет над отправкой.
func send(sub *subscription, ev Event) {
	select {
	case <-sub.ctx.Done():
		return
	default:
	}

	select {
	case <-sub.ctx.Done():
	case sub.ch <- ev:
	}
}
