package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptologowall/internal/models"
)

const (
	wallKeyPrefix     = "wall:"
	i18nKeyPrefix     = "i18n:"
	settingsKeyPrefix = "settings:"

	// WallTTL 徽标墙列表缓存时间
	WallTTL = 5 * time.Minute
	// I18nTTL 翻译包缓存时间
	I18nTTL = 30 * time.Minute
	// SettingsTTL 站点设置缓存时间
	SettingsTTL = 10 * time.Minute

	adminAuthStateTTL = 10 * time.Minute
)

// WallKey 徽标墙列表缓存键
func WallKey(sort string, limit, offset int) string {
	return fmt.Sprintf("%s%s:%d:%d", wallKeyPrefix, sort, limit, offset)
}

// InvalidateWall 清除全部徽标墙缓存
func InvalidateWall(ctx context.Context) error {
	return DelByPrefix(ctx, wallKeyPrefix)
}

// I18nKey 翻译包缓存键
func I18nKey(lang string) string {
	return i18nKeyPrefix + lang
}

// InvalidateI18n 清除全部翻译包缓存
func InvalidateI18n(ctx context.Context) error {
	return DelByPrefix(ctx, i18nKeyPrefix)
}

// SettingsKey 站点设置缓存键
func SettingsKey(key string) string {
	return settingsKeyPrefix + key
}

// AdminAuthState 后台账号鉴权快照
type AdminAuthState struct {
	AdminID   uint   `json:"admin_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt int64  `json:"updated_at"`
}

func adminAuthStateKey(adminID uint) string {
	return fmt.Sprintf("auth:admin:%d", adminID)
}

// BuildAdminAuthState 从后台账号模型构建鉴权快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:   admin.ID,
		Username:  admin.Username,
		Role:      admin.Role,
		IsActive:  admin.IsActive,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetAdminAuthState 读取鉴权快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, error) {
	var state AdminAuthState
	hit, err := GetJSON(ctx, adminAuthStateKey(adminID), &state)
	if err != nil || !hit {
		return nil, err
	}
	return &state, nil
}

// SetAdminAuthState 写入鉴权快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.AdminID), state, adminAuthStateTTL)
}

// DelAdminAuthState 删除鉴权快照（账号被修改或删除时调用）
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	return Del(ctx, adminAuthStateKey(adminID))
}
