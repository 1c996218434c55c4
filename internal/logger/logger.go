// Package logger настраивает logrus для записи в ротируемые файлы.
// TUI занимает stdout, поэтому журнал пишется только в файлы.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"

	"github.com/hazadus/go-offlinemaps/internal/config"
)

// lineFormatter короткий формат строк для файла ошибок
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *log.Entry) ([]byte, error) {
	msg := fmt.Sprintf("[%s] [%s] %s", entry.Time.Format("2006-01-02.15:04:05"), strings.ToUpper(entry.Level.String()), entry.Message)
	if err, ok := entry.Data[log.ErrorKey]; ok {
		msg += fmt.Sprintf(" error=%v", err)
	}
	return []byte(msg + "\n"), nil
}

// New создает логгер по настройкам приложения: все уровни пишутся в файл app,
// ошибки дополнительно дублируются в файл error.
func New(cfg *config.Config) (*log.Logger, error) {
	logger := log.New()

	formatter := &log.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "2006-01-02.15:04:05.000000"
	formatter.DisableColors = true
	logger.SetFormatter(formatter)
	logger.SetLevel(ParseLevel(cfg.LogLevel))

	maxAge := time.Duration(cfg.LogMaxAgeDays*24) * time.Hour

	appWriter, err := openWriter(cfg.LogDir, "app", maxAge)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(appWriter)

	errorWriter, err := openWriter(cfg.LogDir, "error", maxAge)
	if err != nil {
		appWriter.Close()
		return nil, err
	}
	logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
		log.ErrorLevel: errorWriter,
		log.FatalLevel: errorWriter,
		log.PanicLevel: errorWriter,
	}, &lineFormatter{}))

	return logger, nil
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ParseLevel переводит уровень из конфигурации, неизвестные значения дают info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	case "panic":
		return log.PanicLevel
	default:
		return log.InfoLevel
	}
}

// openWriter открывает файл журнала name, подменяется в тестах
var openWriter = func(logDir, name string, maxAge time.Duration) (io.WriteCloser, error) {
	return writer(logDir, name, maxAge)
}

func writer(logDir, name string, maxAge time.Duration) (*rotatelogs.RotateLogs, error) {
	// Создаем директорию, если ее нет
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории журнала: %w", err)
	}

	base := filepath.Join(logDir, name)
	w, err := rotatelogs.New(
		base+".%Y%m%d.log",
		rotatelogs.WithLinkName(base+".log"),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла журнала %s: %w", name, err)
	}
	return w, nil
}
