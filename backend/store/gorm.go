package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// KeyValue is one stored entry of the gorm-backed store.
type KeyValue struct {
	Key       string         `gorm:"primaryKey;size:191"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (KeyValue) TableName() string {
	return "skillnexis_kv"
}

// GormStore persists entries in a single key/value table. SetMany runs in one
// database transaction.
type GormStore struct {
	notifier

	db *gorm.DB
}

// OpenPostgres connects to postgres with SQL logging routed to logger.
func OpenPostgres(dsn string, logger *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormLogger.New(logger, gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&KeyValue{}); err != nil {
		return nil, fmt.Errorf("migrate key/value table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var kv KeyValue
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(kv.Value), nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.SetMany(ctx, map[string][]byte{key: nil})
}

func (s *GormStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entries))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			keys = append(keys, key)
			if value == nil {
				if err := tx.Where("key = ?", key).Delete(&KeyValue{}).Error; err != nil {
					return fmt.Errorf("delete %s: %w", key, err)
				}
				continue
			}

			kv := KeyValue{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&kv).Error
			if err != nil {
				return fmt.Errorf("upsert %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(keys...)
	return nil
}
