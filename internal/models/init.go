package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

// InitDefaultAdmin 在没有任何后台账号时创建默认管理员
func InitDefaultAdmin(username, email, password string) error {
	var count int64
	if err := DB.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin"
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = username + "@localhost"
	}
	generated := false
	if password == "" {
		buf := make([]byte, 9)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = hex.EncodeToString(buf)
		generated = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if generated {
		logger.Warnw("default_admin_created_with_generated_password", "username", username, "password", password)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}

// SeedTranslations 写入缺失的翻译条目，已存在的键保持不变
func SeedTranslations(entries map[string]map[string]string) error {
	rows := make([]Translation, 0, len(entries)*8)
	for lang, values := range entries {
		for key, value := range values {
			rows = append(rows, Translation{LangCode: lang, Key: key, Value: value})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lang_code"}, {Name: "translation_key"}},
		DoNothing: true,
	}).CreateInBatches(rows, 200).Error
}
