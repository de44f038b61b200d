package models

import "time"

// Translation 界面翻译条目
type Translation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	LangCode  string    `gorm:"size:8;not null;uniqueIndex:idx_translation_lang_key" json:"lang_code"`
	Key       string    `gorm:"column:translation_key;size:128;not null;uniqueIndex:idx_translation_lang_key" json:"key"`
	Value     string    `gorm:"column:translation_value;type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Translation) TableName() string {
	return "translations"
}
