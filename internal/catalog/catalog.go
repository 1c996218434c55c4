// Package catalog содержит хранилища каталога офлайн-областей
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hazadus/go-offlinemaps/internal/config"
	"github.com/hazadus/go-offlinemaps/internal/data"
	"github.com/hazadus/go-offlinemaps/internal/s3"
)

// Source хранилище записей об областях. Порядок записей является порядком отображения.
type Source interface {
	Load(ctx context.Context) ([]data.OfflineArea, error)
	Save(ctx context.Context, areas []data.OfflineArea) error
	Close() error
}

// Open создает хранилище по настройкам приложения
func Open(cfg *config.Config) (Source, error) {
	switch cfg.CatalogBackend {
	case config.BackendFile, "":
		return NewFileSource(cfg.DataFile), nil
	case config.BackendBolt:
		return NewBoltSource(cfg.BoltFile)
	case config.BackendS3:
		client, err := s3.NewClient(&s3.Config{
			Region:     cfg.AwsRegion,
			AccessKey:  cfg.AwsAccessKey,
			SecretKey:  cfg.AwsSecretKey,
			Endpoint:   cfg.AwsEndpoint,
			BucketName: cfg.AwsBucketName,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания S3 клиента: %w", err)
		}
		return NewS3Source(client, cfg.S3CatalogKey), nil
	default:
		return nil, fmt.Errorf("неизвестное хранилище каталога: %q", cfg.CatalogBackend)
	}
}

// FileSource хранит каталог в YAML файле
type FileSource struct {
	path string
}

// NewFileSource создает хранилище в YAML файле
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) ([]data.OfflineArea, error) {
	appData := data.NewAppData()
	if err := appData.LoadData(s.path); err != nil {
		return nil, err
	}
	return appData.Areas, nil
}

func (s *FileSource) Save(_ context.Context, areas []data.OfflineArea) error {
	appData := &data.AppData{Areas: areas}
	return appData.SaveData(s.path)
}

func (s *FileSource) Close() error { return nil }

// ObjectStore часть S3 клиента, нужная хранилищу каталога
type ObjectStore interface {
	Upload(ctx context.Context, body io.Reader, key string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// S3Source хранит YAML документ каталога одним объектом в бакете
type S3Source struct {
	store ObjectStore
	key   string
}

// NewS3Source создает хранилище поверх S3
func NewS3Source(store ObjectStore, key string) *S3Source {
	return &S3Source{store: store, key: key}
}

func (s *S3Source) Load(ctx context.Context) ([]data.OfflineArea, error) {
	body, err := s.store.Download(ctx, s.key)
	if err != nil {
		// Отсутствующий объект означает пустой каталог
		if errors.Is(err, s3.ErrNotFound) {
			return make([]data.OfflineArea, 0), nil
		}
		return nil, err
	}

	appData := data.NewAppData()
	if err := appData.Decode(body); err != nil {
		return nil, err
	}
	return appData.Areas, nil
}

func (s *S3Source) Save(ctx context.Context, areas []data.OfflineArea) error {
	appData := &data.AppData{Areas: areas}
	body, err := appData.Encode()
	if err != nil {
		return err
	}
	if _, err := s.store.Upload(ctx, bytes.NewReader(body), s.key); err != nil {
		return fmt.Errorf("ошибка сохранения каталога в S3: %w", err)
	}
	return nil
}

func (s *S3Source) Close() error { return nil }
