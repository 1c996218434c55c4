// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"strconv"
)

// TruncateString обрезает строку до указанной длины в символах, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatFileSize форматирует размер в читаемом виде
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatBounds форматирует границы области как "Ю..С, З..В"
func FormatBounds(north, south, east, west float64) string {
	return fmt.Sprintf("%s..%s, %s..%s",
		formatCoord(south), formatCoord(north), formatCoord(west), formatCoord(east))
}

// FormatZoom форматирует диапазон масштабов
func FormatZoom(minZoom, maxZoom int) string {
	if minZoom == maxZoom {
		return fmt.Sprintf("z%d", minZoom)
	}
	return fmt.Sprintf("z%d-%d", minZoom, maxZoom)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
