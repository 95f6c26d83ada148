package models

import "time"

// SecureEntry 安全存储键值表
type SecureEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(128)" json:"key"` // 键
	Value     string    `gorm:"type:text;not null" json:"-"`             // 值（可能已加密）
	UpdatedAt time.Time `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (SecureEntry) TableName() string {
	return "secure_entries"
}
