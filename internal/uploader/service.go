// Package uploader выгружает резервные копии каталога областей в S3
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/hazadus/go-offlinemaps/internal/area"
	"github.com/hazadus/go-offlinemaps/internal/data"
)

// ObjectUploader хранилище, в которое выгружается копия
type ObjectUploader interface {
	Upload(ctx context.Context, reader io.Reader, key string) (string, error)
}

// ObjectStore хранилище, в котором копии можно перечислить и удалить
type ObjectStore interface {
	ObjectUploader
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// Service управляет выгрузкой резервных копий
type Service struct {
	store  ObjectStore
	prefix string
	now    func() time.Time
}

// NewService создает сервис, который кладет копии под префикс prefix
func NewService(store ObjectStore, prefix string) *Service {
	return &Service{
		store:  store,
		prefix: prefix,
		now:    time.Now,
	}
}

// UploadResult содержит результат выгрузки
type UploadResult struct {
	URL   string
	Key   string
	Areas int
	Size  int64
}

// Backup выгружает снимок каталога. progressCallback получает число прочитанных байт.
func (s *Service) Backup(ctx context.Context, snapshot area.Snapshot, progressCallback func(int64)) (*UploadResult, error) {
	body, err := (&data.AppData{Areas: snapshot.Areas()}).Encode()
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации каталога: %w", err)
	}

	var reader io.Reader = bytes.NewReader(body)
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     reader,
			Size:       int64(len(body)),
			OnProgress: progressCallback,
		}
	}

	key := s.backupKey()
	url, err := s.store.Upload(ctx, reader, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	return &UploadResult{
		URL:   url,
		Key:   key,
		Areas: snapshot.Len(),
		Size:  int64(len(body)),
	}, nil
}

// backupKey формирует ключ копии по текущему времени в UTC
func (s *Service) backupKey() string {
	name := "areas-" + s.now().UTC().Format("20060102-150405") + ".yaml"
	return path.Join(s.prefix, name)
}

// Prune оставляет keep самых новых копий и удаляет остальные.
// Имена копий содержат время выгрузки, поэтому сортируются как строки.
func (s *Service) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("нужно оставить хотя бы одну копию, получено: %d", keep)
	}

	keys, err := s.store.List(ctx, s.listPrefix())
	if err != nil {
		return nil, err
	}

	var backups []string
	for _, key := range keys {
		if isBackupKey(key) {
			backups = append(backups, key)
		}
	}
	if len(backups) <= keep {
		return nil, nil
	}
	sort.Strings(backups)

	stale := backups[:len(backups)-keep]
	removed := make([]string, 0, len(stale))
	for _, key := range stale {
		if err := s.store.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed = append(removed, key)
	}
	return removed, nil
}

func (s *Service) listPrefix() string {
	if s.prefix == "" {
		return "areas-"
	}
	return path.Join(s.prefix, "areas-")
}

// isBackupKey проверяет, что ключ похож на areas-YYYYMMDD-HHMMSS.yaml
func isBackupKey(key string) bool {
	name := path.Base(key)
	if !strings.HasPrefix(name, "areas-") || !strings.HasSuffix(name, ".yaml") {
		return false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, "areas-"), ".yaml")
	_, err := time.Parse("20060102-150405", stamp)
	return err == nil
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}
