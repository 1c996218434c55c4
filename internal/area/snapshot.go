// Package area содержит снимки каталога офлайн-областей и поток их обновлений
package area

import (
	"strings"

	"github.com/hazadus/go-offlinemaps/internal/data"
)

// Snapshot неизменяемый упорядоченный список областей на момент времени.
// Порядок элементов является порядком отображения.
type Snapshot struct {
	areas []data.OfflineArea
}

// NewSnapshot копирует переданные области в новый снимок
func NewSnapshot(areas []data.OfflineArea) Snapshot {
	copied := make([]data.OfflineArea, len(areas))
	copy(copied, areas)
	return Snapshot{areas: copied}
}

// Areas возвращает копию областей снимка
func (s Snapshot) Areas() []data.OfflineArea {
	copied := make([]data.OfflineArea, len(s.areas))
	copy(copied, s.areas)
	return copied
}

func (s Snapshot) Len() int { return len(s.areas) }

func (s Snapshot) At(i int) data.OfflineArea { return s.areas[i] }

// Equal сравнивает содержимое двух снимков с учетом порядка
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.areas) != len(other.areas) {
		return false
	}
	for i := range s.areas {
		a, b := s.areas[i], other.areas[i]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return false
		}
		a.CreatedAt = b.CreatedAt
		if a != b {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	parts := make([]string, len(s.areas))
	for i, a := range s.areas {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Event элемент потока областей. Событие с ошибкой завершает поток.
type Event struct {
	Snapshot Snapshot
	Err      error
}
