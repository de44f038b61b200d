package admin

import (
	"strings"

	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/repository"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

// UpsertTranslationRequest 新增或修改翻译
type UpsertTranslationRequest struct {
	LangCode string `json:"lang_code" binding:"required"`
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value"`
}

// GetTranslations 翻译列表
func (h *Handler) GetTranslations(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.TranslationService.List(repository.TranslationListFilter{
		Page:     page,
		PageSize: pageSize,
		LangCode: strings.TrimSpace(c.Query("lang")),
		Keyword:  strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondMappedError(c, err, translationErrorRules)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// UpsertTranslation 新增或修改翻译
func (h *Handler) UpsertTranslation(c *gin.Context) {
	var req UpsertTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	row, err := h.TranslationService.Upsert(c.Request.Context(), service.UpsertTranslationInput{
		LangCode: req.LangCode,
		Key:      req.Key,
		Value:    req.Value,
	}, actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, translationErrorRules)
		return
	}
	response.Success(c, row)
}

// DeleteTranslation 删除翻译
func (h *Handler) DeleteTranslation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.TranslationService.Delete(c.Request.Context(), id, actorFromContext(c)); err != nil {
		respondMappedError(c, err, translationErrorRules)
		return
	}
	response.Success(c, nil)
}
