// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Поддерживаемые хранилища каталога областей
const (
	BackendFile = "file"
	BackendBolt = "bolt"
	BackendS3   = "s3"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`

	CatalogBackend string `yaml:"catalog_backend"`  // file, bolt или s3
	DataFile       string `yaml:"data_file"`        // YAML каталог для backend=file
	BoltFile       string `yaml:"bolt_file"`        // база bbolt для backend=bolt
	S3CatalogKey   string `yaml:"s3_catalog_key"`   // ключ объекта каталога для backend=s3
	S3BackupPrefix string `yaml:"s3_backup_prefix"` // префикс резервных копий каталога

	LogDir        string        `yaml:"log_dir"`
	LogLevel      string        `yaml:"log_level"`
	LogMaxAgeDays int           `yaml:"log_max_age_days"`
	WatchInterval time.Duration `yaml:"watch_interval"` // 0 отключает отслеживание изменений каталога
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		CatalogBackend: BackendFile,
		DataFile:       "~/.offlinemaps/areas.yaml",
		BoltFile:       "~/.offlinemaps/areas.db",
		S3CatalogKey:   "offline-areas.yaml",
		S3BackupPrefix: "backups",
		LogDir:         "~/.offlinemaps/logs",
		LogLevel:       "info",
		LogMaxAgeDays:  7,
		WatchInterval:  5 * time.Second,
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	// Устанавливаем значения по умолчанию, если они были затерты пустыми
	defaults := Default()
	if config.CatalogBackend == "" {
		config.CatalogBackend = defaults.CatalogBackend
	}
	if config.DataFile == "" {
		config.DataFile = defaults.DataFile
	}
	if config.BoltFile == "" {
		config.BoltFile = defaults.BoltFile
	}
	if config.S3CatalogKey == "" {
		config.S3CatalogKey = defaults.S3CatalogKey
	}
	if config.S3BackupPrefix == "" {
		config.S3BackupPrefix = defaults.S3BackupPrefix
	}
	if config.LogDir == "" {
		config.LogDir = defaults.LogDir
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.LogMaxAgeDays <= 0 {
		config.LogMaxAgeDays = defaults.LogMaxAgeDays
	}

	switch config.CatalogBackend {
	case BackendFile, BackendBolt, BackendS3:
	default:
		return nil, fmt.Errorf("неизвестное хранилище каталога: %q", config.CatalogBackend)
	}

	// Раскрываем тильду в путях
	config.DataFile = strings.Replace(config.DataFile, "~", home, 1)
	config.BoltFile = strings.Replace(config.BoltFile, "~", home, 1)
	config.LogDir = strings.Replace(config.LogDir, "~", home, 1)

	return config, nil
}
