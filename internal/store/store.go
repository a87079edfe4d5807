// internal/store/store.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Record is one namespaced key/value entry in the local store
type Record struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Record) TableName() string {
	return "records"
}

// Store is a durable, synchronous key/value layer over an embedded sqlite
// database. Values are JSON-encoded. Reads tolerate missing and corrupt
// entries by reporting absence; a corrupt entry is logged and discarded.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// Open opens (creating if needed) the local store at the given path
func Open(path string, logger *logrus.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get decodes the value stored under key into out. The boolean reports
// whether a usable value was present; corrupt values count as absent and
// are deleted so they cannot poison later reads.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	var record Record
	err := s.db.Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(record.Value), out); err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Discarding corrupt record in local store")
		s.delete(key)
		return false, nil
	}

	return true, nil
}

// Put JSON-encodes value and writes it under key, replacing any prior entry
func (s *Store) Put(key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	record := Record{Key: key, Value: string(encoded), UpdatedAt: time.Now().UTC()}
	err = s.db.Save(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry under key; deleting a missing key is not an error
func (s *Store) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&Record{}).Error
}

// Keys returns every stored key with the given prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&Record{}).
		Where(`key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %q: %w", prefix, err)
	}
	return keys, nil
}

func (s *Store) delete(key string) {
	if err := s.db.Where("key = ?", key).Delete(&Record{}).Error; err != nil {
		s.logger.WithField("key", key).Warn("Failed to delete record")
	}
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer("%", `\%`, "_", `\_`)
	return replacer.Replace(value)
}
