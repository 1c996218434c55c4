package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazadus/go-offlinemaps/internal/area"
	"github.com/hazadus/go-offlinemaps/internal/catalog"
	"github.com/hazadus/go-offlinemaps/internal/config"
	"github.com/hazadus/go-offlinemaps/internal/data"
	"github.com/hazadus/go-offlinemaps/internal/logger"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	// Сохраняем оригинальные stdout и stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	os.Stdout = w
	os.Stderr = w

	fn()

	// Восстанавливаем оригинальные stdout и stderr
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}

	return buf.String()
}

// createTestApplication создает тестовое приложение с каталогом во временной директории
func createTestApplication(t *testing.T, tempDir string) *Application {
	testConfig := config.Default()
	testConfig.DataFile = filepath.Join(tempDir, "areas.yaml")
	testConfig.LogDir = filepath.Join(tempDir, "logs")

	source := catalog.NewFileSource(testConfig.DataFile)
	log := logger.Discard()
	manager := area.NewManager(source, log)
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("Ошибка загрузки каталога: %v", err)
	}

	return &Application{
		Config:  testConfig,
		Source:  source,
		Manager: manager,
		Logger:  log,
	}
}

func addTestArea(t *testing.T, app *Application, name string) data.OfflineArea {
	added, err := app.Manager.Add(context.Background(), data.OfflineArea{
		Name: name, North: 56, South: 55, East: 38, West: 37, MinZoom: 10, MaxZoom: 14,
	})
	if err != nil {
		t.Fatalf("Ошибка добавления области: %v", err)
	}
	return added
}

// TestCmdList проверяет, что команда `list` выводит таблицу областей
func TestCmdList(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestArea(t, app, "Москва")

	listCmd := app.createListCommand()

	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	expectedStrings := []string{
		"🗺️  Найдено областей: 1",
		"Москва",
		"55..56, 37..38",
		"z10-14",
		"pending",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды list не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdListEmpty проверяет, что команда `list` корректно обрабатывает пустой каталог
func TestCmdListEmpty(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	listCmd := app.createListCommand()

	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	if !strings.Contains(output, "Каталог пуст") {
		t.Errorf("Команда list не отобразила сообщение о пустом каталоге: %s", output)
	}
}

// TestCmdAdd проверяет, что команда `add` сохраняет область в каталог
func TestCmdAdd(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	addCmd := app.createAddCommand(context.Background())

	output := captureOutput(t, func() {
		addCmd.SetArgs([]string{"Тверь", "--north", "56.9", "--south", "56.8", "--east", "36", "--west", "35.8", "--max-zoom", "15"})
		if err := addCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды add: %v", err)
		}
	})

	if !strings.Contains(output, "✅ Область добавлена: #1 \"Тверь\" [pending]") {
		t.Errorf("Команда add не отобразила ожидаемый вывод: %s", output)
	}

	// Область должна попасть в файл каталога
	saved := data.NewAppData()
	if err := saved.LoadData(app.Config.DataFile); err != nil {
		t.Fatalf("Ошибка чтения каталога: %v", err)
	}
	if len(saved.Areas) != 1 {
		t.Fatalf("Ожидалась 1 область в каталоге, получено %d", len(saved.Areas))
	}
	if saved.Areas[0].MaxZoom != 15 || saved.Areas[0].North != 56.9 {
		t.Errorf("Неверно сохранена область: %+v", saved.Areas[0])
	}
}

// TestCmdAddInvalid проверяет отказ от неверных значений флагов
func TestCmdAddInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  string
	}{
		{"без аргументов", []string{}, "accepts 1 arg"},
		{"юг севернее севера", []string{"a", "--north", "10", "--south", "20"}, "южная граница"},
		{"широта вне диапазона", []string{"a", "--north", "100"}, "широта"},
		{"неверный масштаб", []string{"a", "--min-zoom", "18", "--max-zoom", "12"}, "диапазон масштабов"},
		{"неизвестное состояние", []string{"a", "--state", "lost"}, "неизвестное состояние"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createTestApplication(t, t.TempDir())
			addCmd := app.createAddCommand(context.Background())

			var buf bytes.Buffer
			addCmd.SetOut(&buf)
			addCmd.SetErr(&buf)
			addCmd.SetArgs(tt.args)

			err := addCmd.Execute()
			if err == nil {
				t.Fatal("Ожидалась ошибка при выполнении команды add")
			}
			if !strings.Contains(err.Error(), tt.err) {
				t.Errorf("Ожидалась ошибка с '%s', получено: %v", tt.err, err)
			}

			if snapshot, _ := app.Manager.Current(); snapshot.Len() != 0 {
				t.Errorf("Каталог не должен измениться, получено %d областей", snapshot.Len())
			}
		})
	}
}

// TestCmdDelete проверяет, что команда `delete` удаляет указанную область
func TestCmdDelete(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestArea(t, app, "Область 1")
	addTestArea(t, app, "Область 2")

	deleteCmd := app.createDeleteCommand(context.Background())

	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{"1"})
		if err := deleteCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды delete: %v", err)
		}
	})

	if !strings.Contains(output, "🗑️  Удалена область: #1 \"Область 1\"") {
		t.Errorf("Команда delete не отобразила ожидаемый вывод: %s", output)
	}

	snapshot, _ := app.Manager.Current()
	if snapshot.Len() != 1 {
		t.Fatalf("Ожидалась 1 область после удаления, получено %d", snapshot.Len())
	}
	if snapshot.At(0).Name != "Область 2" {
		t.Errorf("Ожидалась область 'Область 2', получено: %s", snapshot.At(0).Name)
	}
}

// TestCmdDeleteInvalidID проверяет обработку неверного и несуществующего ID
func TestCmdDeleteInvalidID(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	deleteCmd := app.createDeleteCommand(context.Background())

	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{"invalid"})
		if err := deleteCmd.Execute(); err != nil {
			t.Errorf("Команда delete завершилась с ошибкой при неверном ID: %v", err)
		}
	})

	if !strings.Contains(output, "❌ Ошибка: неверный ID") {
		t.Errorf("Команда delete не отобразила ошибку для неверного ID: %s", output)
	}

	output = captureOutput(t, func() {
		deleteCmd.SetArgs([]string{"42"})
		if err := deleteCmd.Execute(); err != nil {
			t.Errorf("Команда delete завершилась с ошибкой: %v", err)
		}
	})

	if !strings.Contains(output, "❌ Ошибка:") {
		t.Errorf("Команда delete не отобразила ошибку для несуществующего ID: %s", output)
	}
}

// TestRootCommandHasSubcommands проверяет набор подкоманд
func TestRootCommandHasSubcommands(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	rootCmd := app.createRootCommand(context.Background())

	for _, name := range []string{"list", "add", "delete", "backup", "tui"} {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Подкоманда '%s' не найдена", name)
		}
	}
}

// TestNewApplication проверяет запуск с минимальной конфигурацией
func TestNewApplication(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "offlinemaps.yaml")
	content := "data_file: " + filepath.Join(tempDir, "areas.yaml") + "\nlog_dir: " + filepath.Join(tempDir, "logs") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи конфигурации: %v", err)
	}

	app, err := newApplication(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Ошибка создания приложения: %v", err)
	}
	defer app.Close()

	if app.Config.CatalogBackend != config.BackendFile {
		t.Errorf("Ожидался backend '%s', получено '%s'", config.BackendFile, app.Config.CatalogBackend)
	}
	if snapshot, ok := app.Manager.Current(); !ok || snapshot.Len() != 0 {
		t.Errorf("Ожидался загруженный пустой каталог")
	}
}

// fakeStore запоминает выгруженные копии
type fakeStore struct {
	keys []string
	err  error
}

func (f *fakeStore) Upload(_ context.Context, reader io.Reader, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(reader); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://s3.example.com/test-bucket/" + key, nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, key := range f.keys {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("нет объекта %s", key)
}

// TestCmdBackup проверяет выгрузку копии каталога
func TestCmdBackup(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestArea(t, app, "Москва")
	store := &fakeStore{}
	app.BackupStore = store

	backupCmd := app.createBackupCommand(context.Background())

	output := captureOutput(t, func() {
		backupCmd.SetArgs([]string{})
		if err := backupCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды backup: %v", err)
		}
	})

	if len(store.keys) != 1 || !strings.HasPrefix(store.keys[0], "backups/areas-") {
		t.Fatalf("Неверные ключи копий: %v", store.keys)
	}
	if !strings.Contains(output, "✅ Копия каталога выгружена!") || !strings.Contains(output, "Областей: 1") {
		t.Errorf("Команда backup не отобразила ожидаемый вывод: %s", output)
	}
}

// TestCmdBackupKeep проверяет удаление старых копий после выгрузки
func TestCmdBackupKeep(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	store := &fakeStore{keys: []string{
		"backups/areas-20200101-000000.yaml",
		"backups/areas-20200102-000000.yaml",
		"other/areas-20190101-000000.yaml",
	}}
	app.BackupStore = store

	backupCmd := app.createBackupCommand(context.Background())

	output := captureOutput(t, func() {
		backupCmd.SetArgs([]string{"--keep", "2"})
		if err := backupCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды backup: %v", err)
		}
	})

	if len(store.keys) != 3 {
		t.Fatalf("Ожидалось 3 объекта после очистки, получено: %v", store.keys)
	}
	for _, key := range store.keys {
		if key == "backups/areas-20200101-000000.yaml" {
			t.Errorf("Самая старая копия должна быть удалена: %v", store.keys)
		}
	}
	if !strings.Contains(output, "Удалена старая копия: backups/areas-20200101-000000.yaml") {
		t.Errorf("Команда backup не сообщила об удалении: %s", output)
	}
}

// TestCmdBackupError проверяет обработку ошибки хранилища
func TestCmdBackupError(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	app.BackupStore = &fakeStore{err: errors.New("access denied")}

	backupCmd := app.createBackupCommand(context.Background())
	backupCmd.SetOut(io.Discard)
	backupCmd.SetErr(io.Discard)

	output := captureOutput(t, func() {
		backupCmd.SetArgs([]string{})
		if err := backupCmd.Execute(); err == nil {
			t.Error("Ожидалась ошибка при выполнении команды backup")
		}
	})

	if !strings.Contains(output, "❌ Ошибка выгрузки") {
		t.Errorf("Команда backup не отобразила ошибку: %s", output)
	}
}
