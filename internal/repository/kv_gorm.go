package repository

import (
	"context"
	"errors"
	"werise_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 一个键对应 kv_entries 表中的一行
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e model.KVEntry
	err := s.DB.WithContext(ctx).Where("entry_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(e.Value), true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	e := model.KVEntry{Key: key, Value: string(value)}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("entry_key = ?", key).Delete(&model.KVEntry{}).Error
}
