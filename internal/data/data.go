package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrAreaNotFound возвращается, если области с указанным ID нет в каталоге
var ErrAreaNotFound = errors.New("область не найдена")

// AreaState состояние загрузки тайлов области
type AreaState string

// Состояния области
const (
	StatePending    AreaState = "pending"
	StateInProgress AreaState = "in_progress"
	StateDownloaded AreaState = "downloaded"
	StateFailed     AreaState = "failed"
)

// OfflineArea описывает один загруженный набор тайлов карты
type OfflineArea struct {
	ID        int       `yaml:"id" msgpack:"id"`
	Name      string    `yaml:"name" msgpack:"name"`
	North     float64   `yaml:"north" msgpack:"north"` // Границы области в градусах, только для отображения
	South     float64   `yaml:"south" msgpack:"south"`
	East      float64   `yaml:"east" msgpack:"east"`
	West      float64   `yaml:"west" msgpack:"west"`
	MinZoom   int       `yaml:"min_zoom" msgpack:"min_zoom"`
	MaxZoom   int       `yaml:"max_zoom" msgpack:"max_zoom"`
	State     AreaState `yaml:"state" msgpack:"state"`
	SizeBytes int64     `yaml:"size_bytes" msgpack:"size_bytes"` // Размер тайлов на диске в байтах
	CreatedAt time.Time `yaml:"created_at" msgpack:"created_at"`
}

// String используется при отладочном логировании
func (a OfflineArea) String() string {
	return fmt.Sprintf("#%d %q [%s]", a.ID, a.Name, a.State)
}

type AppData struct {
	Areas []OfflineArea `yaml:"areas"`
}

// NewAppData создает новую структуру AppData
func NewAppData() *AppData {
	return &AppData{
		Areas: make([]OfflineArea, 0),
	}
}

// LoadData загружает данные из файла
func (d *AppData) LoadData(filePath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := os.ReadFile(path)
	if err != nil {
		// Если файл не найден, инициализируем пустыми данными
		if os.IsNotExist(err) {
			*d = *NewAppData()
			return nil
		}
		return fmt.Errorf("ошибка чтения файла данных: %w", err)
	}
	return d.Decode(data)
}

// Decode разбирает YAML документ каталога
func (d *AppData) Decode(data []byte) error {
	*d = *NewAppData()
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return fmt.Errorf("ошибка разбора данных: %w", err)
	}
	if d.Areas == nil {
		d.Areas = make([]OfflineArea, 0)
	}
	return nil
}

// Encode сериализует каталог в YAML
func (d *AppData) Encode() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации данных: %w", err)
	}
	return data, nil
}

// AddArea добавляет новую область в AppData и возвращает ее с присвоенным ID
func (d *AppData) AddArea(area OfflineArea) OfflineArea {
	area.ID = NextID(d.Areas)
	if area.State == "" {
		area.State = StatePending
	}
	d.Areas = append(d.Areas, area)
	return area
}

// NextID возвращает ID для новой области: максимальный + 1, начиная с 1
func NextID(areas []OfflineArea) int {
	maxID := 0
	for _, a := range areas {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return maxID + 1
}

// SaveData сохраняет данные в файл
func (d *AppData) SaveData(filePath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ошибка создания директории данных: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	return nil
}

// AreaByID возвращает область по ID
func (d *AppData) AreaByID(id int) (*OfflineArea, error) {
	for i := range d.Areas {
		if d.Areas[i].ID == id {
			return &d.Areas[i], nil
		}
	}
	return nil, fmt.Errorf("%w: ID %d", ErrAreaNotFound, id)
}

// DeleteAreaByID удаляет область по ID, сохраняя порядок остальных
func (d *AppData) DeleteAreaByID(id int) error {
	for i := range d.Areas {
		if d.Areas[i].ID == id {
			d.Areas = append(d.Areas[:i], d.Areas[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: ID %d", ErrAreaNotFound, id)
}
