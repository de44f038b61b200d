package admin

import (
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSettings 获取全部站点设置
func (h *Handler) GetSettings(c *gin.Context) {
	setting, err := h.SettingService.GetSiteSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// UpdateGeneralSettings 更新基础设置
func (h *Handler) UpdateGeneralSettings(c *gin.Context) {
	var req service.GeneralSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	setting, err := h.SettingService.UpdateGeneral(req)
	if err != nil {
		respondMappedError(c, err, settingErrorRules)
		return
	}
	h.ActivityService.Record(actorFromContext(c), constants.ActivityUpdateSettings, constants.EntityTypeSettings, constants.SettingKeyGeneral)
	response.Success(c, setting)
}

// UpdateSEOSettings 更新 SEO 设置
func (h *Handler) UpdateSEOSettings(c *gin.Context) {
	var req service.SEOSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	setting, err := h.SettingService.UpdateSEO(req)
	if err != nil {
		respondMappedError(c, err, settingErrorRules)
		return
	}
	h.ActivityService.Record(actorFromContext(c), constants.ActivityUpdateSettings, constants.EntityTypeSettings, constants.SettingKeySEO)
	response.Success(c, setting)
}

// UpdateIntegrationSettings 更新第三方集成设置
func (h *Handler) UpdateIntegrationSettings(c *gin.Context) {
	var req service.IntegrationSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	setting, err := h.SettingService.UpdateIntegrations(req)
	if err != nil {
		respondMappedError(c, err, settingErrorRules)
		return
	}
	h.ActivityService.Record(actorFromContext(c), constants.ActivityUpdateSettings, constants.EntityTypeSettings, constants.SettingKeyIntegrations)
	response.Success(c, setting)
}
