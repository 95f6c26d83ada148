package storage

import (
	"context"
	"errors"
	"time"

	"github.com/freshcart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage 基于 gorm 的存储（sqlite / postgres）
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage 创建 gorm 存储
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Get 读取
func (s *GormStorage) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := checkKey(key)
	if err != nil {
		return "", false, err
	}
	var entry models.SecureEntry
	err = s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set 写入（存在则覆盖）
func (s *GormStorage) Set(ctx context.Context, key, value string) error {
	key, err := checkKey(key)
	if err != nil {
		return err
	}
	entry := models.SecureEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 删除
func (s *GormStorage) Delete(ctx context.Context, key string) error {
	key, err := checkKey(key)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SecureEntry{}).Error
}
