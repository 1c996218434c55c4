package catalog

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack"
	"go.etcd.io/bbolt"

	"github.com/hazadus/go-offlinemaps/internal/data"
)

var areasBucket = []byte("areas")

// BoltSource хранит каталог в базе bbolt: ключ - ID области (big-endian), значение - msgpack.
// Курсор обходит ключи по возрастанию ID, то есть в порядке добавления.
type BoltSource struct {
	db *bbolt.DB
}

// NewBoltSource открывает (или создает) базу каталога
func NewBoltSource(path string) (*BoltSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории базы: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы %s: %w", path, err)
	}

	// Создаем bucket
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(areasBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка создания bucket: %w", err)
	}

	return &BoltSource{db: db}, nil
}

func (s *BoltSource) Load(_ context.Context) ([]data.OfflineArea, error) {
	areas := make([]data.OfflineArea, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(areasBucket).ForEach(func(_, v []byte) error {
			var area data.OfflineArea
			if err := msgpack.Unmarshal(v, &area); err != nil {
				return err
			}
			areas = append(areas, area)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога из базы: %w", err)
	}
	return areas, nil
}

// Save заменяет содержимое bucket целиком
func (s *BoltSource) Save(_ context.Context, areas []data.OfflineArea) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(areasBucket); err != nil {
			return err
		}
		bkt, err := tx.CreateBucket(areasBucket)
		if err != nil {
			return err
		}
		for _, area := range areas {
			value, err := msgpack.Marshal(area)
			if err != nil {
				return err
			}
			if err := bkt.Put(idKey(area.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка записи каталога в базу: %w", err)
	}
	return nil
}

func (s *BoltSource) Close() error {
	return s.db.Close()
}

func idKey(id int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}
