package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-offlinemaps/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all offline areas",
		Long:  `Display a list of all offline areas stored in the catalog.`,
		Run: func(_ *cobra.Command, _ []string) {
			app.listAreas()
		},
	}
}

func (app *Application) listAreas() {
	snapshot, _ := app.Manager.Current()
	if snapshot.Len() == 0 {
		fmt.Println("🗺️  Каталог пуст. Добавьте области с помощью команды 'add'.")
		return
	}

	fmt.Printf("🗺️  Найдено областей: %d\n\n", snapshot.Len())

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-30s %-32s %-8s %-10s %-12s\n",
		"ID", "Название", "Границы", "Масштаб", "Размер", "Состояние")
	fmt.Println(strings.Repeat("-", 100))

	for _, a := range snapshot.Areas() {
		fmt.Printf("%-4d %-30s %-32s %-8s %-10s %-12s\n",
			a.ID,
			utils.TruncateString(a.Name, 28),
			utils.FormatBounds(a.North, a.South, a.East, a.West),
			utils.FormatZoom(a.MinZoom, a.MaxZoom),
			utils.FormatFileSize(a.SizeBytes),
			a.State)
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'offlinemaps tui' для просмотра в интерактивном режиме")
}
