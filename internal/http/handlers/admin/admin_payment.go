package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminPayments 支付记录列表
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	entityID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("entity_id")), 10, 64)
	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:        page,
		PageSize:    pageSize,
		Type:        strings.TrimSpace(c.Query("type")),
		Status:      strings.TrimSpace(c.Query("status")),
		EntityID:    uint(entityID),
		CreatedFrom: parseOptionalDate(c.Query("created_from"), false),
		CreatedTo:   parseOptionalDate(c.Query("created_to"), true),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, payments, response.NewPagination(page, pageSize, total))
}

// GetAdminPayment 支付记录详情
func (h *Handler) GetAdminPayment(c *gin.Context) {
	payment, err := h.PaymentService.GetPayment(c.Param("payment_id"))
	if err != nil {
		respondMappedError(c, err, paymentErrorRules)
		return
	}
	response.Success(c, payment)
}

// CheckAdminPayment 手动向 CryptoBot 查单
func (h *Handler) CheckAdminPayment(c *gin.Context) {
	view, err := h.PaymentService.CheckPayment(c.Request.Context(), c.Param("payment_id"), actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, paymentErrorRules)
		return
	}
	response.Success(c, view)
}
