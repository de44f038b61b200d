package service

import "errors"

// 通用错误
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrQueueUnavailable = errors.New("queue unavailable")
)

// 支付相关错误
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentUpdateFailed  = errors.New("payment update failed")
	ErrEntityNotPending     = errors.New("entity is not awaiting payment")
	ErrEntityNotPaid        = errors.New("entity payment not completed")
	ErrEntityKindInvalid    = errors.New("entity kind invalid")
	ErrPriceInvalid         = errors.New("price invalid")
	ErrWebhookForbidden     = errors.New("webhook secret mismatch")
	ErrWebhookPayload       = errors.New("webhook payload invalid")
	ErrPaymentProviderError = errors.New("payment provider unavailable")
)

// 项目与评论错误
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectInactive    = errors.New("project inactive")
	ErrReviewNotFound     = errors.New("review not found")
	ErrNameInvalid        = errors.New("name invalid")
	ErrWebsiteInvalid     = errors.New("website invalid")
	ErrTelegramInvalid    = errors.New("telegram invalid")
	ErrLogoRequired       = errors.New("logo required")
	ErrLogoTooLarge       = errors.New("logo too large")
	ErrLogoTypeInvalid    = errors.New("logo type invalid")
	ErrLogoDimension      = errors.New("logo dimension invalid")
	ErrAuthorInvalid      = errors.New("author invalid")
	ErrRatingInvalid      = errors.New("rating invalid")
	ErrCommentTooLong     = errors.New("comment too long")
	ErrWallSortInvalid    = errors.New("wall sort invalid")
	ErrUploadSaveFailed   = errors.New("upload save failed")
	ErrSitemapWriteFailed = errors.New("sitemap write failed")
)

// 后台认证与用户错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameInvalid    = errors.New("username invalid")
	ErrUsernameExists     = errors.New("username exists")
	ErrEmailInvalid       = errors.New("email invalid")
	ErrEmailExists        = errors.New("email exists")
	ErrWeakPassword       = errors.New("password too weak")
	ErrRoleInvalid        = errors.New("role invalid")
	ErrCannotModifySelf   = errors.New("cannot modify own account")
)

// 设置、翻译与备份错误
var (
	ErrSiteNameRequired    = errors.New("site name required")
	ErrAdminEmailInvalid   = errors.New("admin email invalid")
	ErrLangInvalid         = errors.New("language invalid")
	ErrTranslationInvalid  = errors.New("translation invalid")
	ErrTranslationNotFound = errors.New("translation not found")
	ErrBackupNotFound      = errors.New("backup not found")
	ErrBackupNameInvalid   = errors.New("backup name invalid")
)
