package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminLogos 后台徽标列表
func (h *Handler) GetAdminLogos(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	projects, total, err := h.ProjectService.ListAdmin(repository.ProjectListFilter{
		Page:          page,
		PageSize:      pageSize,
		Keyword:       strings.TrimSpace(c.Query("search")),
		Active:        parseOptionalBool(c.Query("active")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, projects, response.NewPagination(page, pageSize, total))
}

// ToggleAdminLogo 切换徽标展示状态
func (h *Handler) ToggleAdminLogo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project, err := h.ProjectService.ToggleActive(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, moderationErrorRules)
		return
	}
	response.Success(c, project)
}

// DeleteAdminLogo 删除徽标及其评论、支付记录
func (h *Handler) DeleteAdminLogo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProjectService.Delete(c.Request.Context(), id, actorFromContext(c)); err != nil {
		respondMappedError(c, err, moderationErrorRules)
		return
	}
	response.Success(c, nil)
}

// GetAdminReviews 后台评论列表
func (h *Handler) GetAdminReviews(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	projectID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("project_id")), 10, 64)
	reviews, total, err := h.ReviewService.ListAdmin(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProjectID: uint(projectID),
		Approved:  parseOptionalBool(c.Query("approved")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// ApproveAdminReview 通过评论
func (h *Handler) ApproveAdminReview(c *gin.Context) {
	h.setReviewApproved(c, true)
}

// DisapproveAdminReview 撤回评论
func (h *Handler) DisapproveAdminReview(c *gin.Context) {
	h.setReviewApproved(c, false)
}

func (h *Handler) setReviewApproved(c *gin.Context, approved bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := h.ReviewService.SetApproved(c.Request.Context(), id, approved, actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, moderationErrorRules)
		return
	}
	response.Success(c, review)
}

// DeleteAdminReview 删除评论
func (h *Handler) DeleteAdminReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(c.Request.Context(), id, actorFromContext(c)); err != nil {
		respondMappedError(c, err, moderationErrorRules)
		return
	}
	response.Success(c, nil)
}
