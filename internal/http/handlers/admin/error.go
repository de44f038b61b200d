package admin

import (
	"errors"

	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError = handlershared.MappedError

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

var loginErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrAccountLocked, Code: response.CodeTooManyRequests, Key: "error.account_locked"},
	{Target: service.ErrAccountInactive, Code: response.CodeForbidden, Key: "error.account_inactive"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
}

var moderationErrorRules = []mappedHandlerError{
	{Target: service.ErrProjectNotFound, Code: response.CodeNotFound, Key: "error.project_not_found"},
	{Target: service.ErrReviewNotFound, Code: response.CodeNotFound, Key: "error.review_not_found"},
	{Target: service.ErrEntityNotPaid, Code: response.CodeConflict, Key: "error.entity_not_paid"},
}

var paymentErrorRules = []mappedHandlerError{
	{Target: service.ErrPaymentNotFound, Code: response.CodeNotFound, Key: "error.payment_not_found"},
	{Target: service.ErrPaymentUpdateFailed, Code: response.CodeInternal, Key: "error.payment_update_failed"},
}

var adminUserErrorRules = []mappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrUsernameInvalid, Code: response.CodeBadRequest, Key: "error.username_invalid"},
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
	{Target: service.ErrEmailInvalid, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrCannotModifySelf, Code: response.CodeForbidden, Key: "error.cannot_modify_self"},
}

var settingErrorRules = []mappedHandlerError{
	{Target: service.ErrSiteNameRequired, Code: response.CodeBadRequest, Key: "error.site_name_required"},
	{Target: service.ErrAdminEmailInvalid, Code: response.CodeBadRequest, Key: "error.admin_email_invalid"},
	{Target: service.ErrPriceInvalid, Code: response.CodeBadRequest, Key: "error.price_invalid"},
	{Target: service.ErrLangInvalid, Code: response.CodeBadRequest, Key: "error.lang_invalid"},
}

var translationErrorRules = []mappedHandlerError{
	{Target: service.ErrLangInvalid, Code: response.CodeBadRequest, Key: "error.lang_invalid"},
	{Target: service.ErrTranslationInvalid, Code: response.CodeBadRequest, Key: "error.translation_invalid"},
	{Target: service.ErrTranslationNotFound, Code: response.CodeNotFound, Key: "error.translation_not_found"},
}

var backupErrorRules = []mappedHandlerError{
	{Target: service.ErrBackupNameInvalid, Code: response.CodeBadRequest, Key: "error.backup_name_invalid"},
	{Target: service.ErrBackupNotFound, Code: response.CodeNotFound, Key: "error.backup_not_found"},
	{Target: service.ErrQueueUnavailable, Code: response.CodeInternal, Key: "error.queue_unavailable"},
}

func respondMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	handlershared.RespondMapped(c, err, rules, response.CodeInternal, "error.internal")
}

// respondWeakPassword 密码策略错误带有最小长度参数
func respondWeakPassword(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	locale := i18n.ResolveLocale(c)
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, perr.Key(), perr.Args()...), nil)
		return true
	}
	respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, "error.password_weak", service.PasswordMinLength), nil)
	return true
}
