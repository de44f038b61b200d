package public

import (
	"net/http"
	"strconv"

	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

// LogoSubmitResponse 提交徽标返回
type LogoSubmitResponse struct {
	ProjectID     uint   `json:"project_id"`
	PaymentID     string `json:"payment_id"`
	PayURL        string `json:"pay_url"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
}

// ReviewSubmitRequest 提交评论请求
type ReviewSubmitRequest struct {
	AuthorName string `json:"author_name" form:"author_name" binding:"required"`
	Rating     int    `json:"rating" form:"rating" binding:"required"`
	Comment    string `json:"comment" form:"comment"`
}

// ReviewSubmitResponse 提交评论返回
type ReviewSubmitResponse struct {
	ReviewID      uint   `json:"review_id"`
	ProjectID     uint   `json:"project_id"`
	PaymentID     string `json:"payment_id"`
	PayURL        string `json:"pay_url"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
}

// GetLogos 徽标墙列表
func (h *Handler) GetLogos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	listing, err := h.ProjectService.ListWall(c.Request.Context(), service.WallQuery{
		Limit:  limit,
		Offset: offset,
		Sort:   c.Query("sort"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, listing)
}

// GetProject 项目详情；待支付项目会先主动查单
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.ProjectService.Detail(c.Request.Context(), id)
	if err != nil {
		respondProjectLookupError(c, err)
		return
	}
	response.Success(c, detail)
}

// SubmitProject 提交徽标（multipart 表单）
func (h *Handler) SubmitProject(c *gin.Context) {
	logo, err := c.FormFile("logo")
	if err != nil && err != http.ErrMissingFile {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ProjectService.SubmitLogo(c.Request.Context(), service.SubmitLogoInput{
		Name:     c.PostForm("name"),
		Website:  c.PostForm("website"),
		Telegram: c.PostForm("telegram"),
		Logo:     logo,
	}, actorFromContext(c))
	if err != nil {
		respondProjectSubmitError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "payment.pending"), LogoSubmitResponse{
		ProjectID:     result.Project.ID,
		PaymentID:     result.Link.PaymentID,
		PayURL:        result.Link.URL,
		Amount:        result.Link.Amount.String(),
		Currency:      result.Link.Currency,
		PaymentStatus: result.Project.PaymentStatus,
	})
}

// SubmitReview 为已激活项目提交评论
func (h *Handler) SubmitReview(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewSubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ReviewService.Submit(c.Request.Context(), projectID, service.SubmitReviewInput{
		AuthorName: req.AuthorName,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}, actorFromContext(c))
	if err != nil {
		respondReviewSubmitError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "review.pending"), ReviewSubmitResponse{
		ReviewID:      result.Review.ID,
		ProjectID:     result.Review.ProjectID,
		PaymentID:     result.Link.PaymentID,
		PayURL:        result.Link.URL,
		Amount:        result.Link.Amount.String(),
		Currency:      result.Link.Currency,
		PaymentStatus: result.Review.PaymentStatus,
	})
}

// GetPaymentStatus 主动查单；网关异常时返回 pending
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	paymentID := c.Param("payment_id")
	result, err := h.PaymentService.Poll(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"payment_id": paymentID,
		"status":     result.String(),
	})
}

// GetSite 公开站点设置
func (h *Handler) GetSite(c *gin.Context) {
	site, err := h.SettingService.GetPublic()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, site)
}

// GetLanguages 支持的语言列表
func (h *Handler) GetLanguages(c *gin.Context) {
	response.Success(c, h.TranslationService.Languages())
}

// GetTranslations 某语言的完整翻译包
func (h *Handler) GetTranslations(c *gin.Context) {
	bundle, err := h.TranslationService.Bundle(c.Request.Context(), c.Param("lang"))
	if err != nil {
		respondTranslationError(c, err)
		return
	}
	response.Success(c, bundle)
}

// GetSitemap 输出站点地图
func (h *Handler) GetSitemap(c *gin.Context) {
	content, err := h.SitemapService.Load(c.Request.Context())
	if err != nil {
		requestLog(c).Errorw("sitemap_load_failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", content)
}
