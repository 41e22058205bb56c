package model

import "time"

// KVEntry SQL 存储后端的一行，对应浏览器存储中的一个键
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
