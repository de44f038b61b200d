package public

import (
	"errors"
	"io"
	"net/http"

	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/payment/cryptobot"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

const webhookMaxBodyBytes = 64 << 10

// CryptoBotWebhook CryptoBot 支付推送
// 共享密钥校验在读取请求体之前完成，校验失败不产生任何写入
func (h *Handler) CryptoBotWebhook(c *gin.Context) {
	log := requestLog(c)
	locale := i18n.ResolveLocale(c)

	if err := h.PaymentService.AuthorizeWebhook(c.GetHeader(cryptobot.SecretHeader)); err != nil {
		log.Warnw("cryptobot_webhook_forbidden", "client_ip", c.ClientIP())
		response.ErrorStatus(c, http.StatusForbidden, response.CodeForbidden, i18n.T(locale, "error.webhook_forbidden"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, webhookMaxBodyBytes))
	if err != nil {
		log.Warnw("cryptobot_webhook_body_read_failed", "error", err)
		response.ErrorStatus(c, http.StatusBadRequest, response.CodeBadRequest, i18n.T(locale, "error.webhook_payload_invalid"))
		return
	}
	log.Infow("cryptobot_webhook_received", "client_ip", c.ClientIP(), "body_size", len(body))

	result, err := h.PaymentService.HandleWebhook(c.Request.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWebhookPayload):
			response.ErrorStatus(c, http.StatusBadRequest, response.CodeBadRequest, i18n.T(locale, "error.webhook_payload_invalid"))
		case errors.Is(err, service.ErrPaymentNotFound):
			log.Warnw("cryptobot_webhook_payment_not_found", "error", err)
			response.ErrorStatus(c, http.StatusNotFound, response.CodeNotFound, i18n.T(locale, "error.payment_not_found"))
		default:
			log.Errorw("cryptobot_webhook_handle_failed", "error", err)
			response.ErrorStatus(c, http.StatusInternalServerError, response.CodeInternal, i18n.T(locale, "error.payment_update_failed"))
		}
		return
	}

	if result.Ignored {
		response.SuccessStatus(c, http.StatusOK, gin.H{
			"ignored":     true,
			"update_type": result.UpdateType,
		})
		return
	}
	activation := result.Activation
	log.Infow("cryptobot_webhook_processed",
		"payment_id", activation.PaymentID,
		"entity", activation.Entity.String(),
		"already_completed", activation.AlreadyCompleted,
		"entity_missing", activation.EntityMissing,
	)
	response.SuccessStatus(c, http.StatusOK, gin.H{
		"ignored":           false,
		"payment_id":        activation.PaymentID,
		"already_completed": activation.AlreadyCompleted,
	})
}
