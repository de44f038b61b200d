package public

import (
	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

var projectLookupErrorRules = []mappedHandlerError{
	{Target: service.ErrProjectNotFound, Code: response.CodeNotFound, Key: "error.project_not_found"},
	{Target: service.ErrProjectInactive, Code: response.CodeBadRequest, Key: "error.project_inactive"},
}

var paymentIssueErrorRules = []mappedHandlerError{
	{Target: service.ErrEntityNotPending, Code: response.CodeConflict, Key: "error.entity_not_pending"},
	{Target: service.ErrPriceInvalid, Code: response.CodeInternal, Key: "error.price_invalid"},
}

var projectSubmitErrorRules = []mappedHandlerError{
	{Target: service.ErrNameInvalid, Code: response.CodeBadRequest, Key: "error.name_invalid"},
	{Target: service.ErrWebsiteInvalid, Code: response.CodeBadRequest, Key: "error.website_invalid"},
	{Target: service.ErrTelegramInvalid, Code: response.CodeBadRequest, Key: "error.telegram_invalid"},
	{Target: service.ErrLogoRequired, Code: response.CodeBadRequest, Key: "error.logo_required"},
	{Target: service.ErrLogoTooLarge, Code: response.CodeBadRequest, Key: "error.logo_too_large"},
	{Target: service.ErrLogoTypeInvalid, Code: response.CodeBadRequest, Key: "error.logo_type_invalid"},
	{Target: service.ErrLogoDimension, Code: response.CodeBadRequest, Key: "error.logo_dimension_invalid"},
}

var reviewSubmitErrorRules = []mappedHandlerError{
	{Target: service.ErrAuthorInvalid, Code: response.CodeBadRequest, Key: "error.author_invalid"},
	{Target: service.ErrRatingInvalid, Code: response.CodeBadRequest, Key: "error.rating_invalid"},
	{Target: service.ErrCommentTooLong, Code: response.CodeBadRequest, Key: "error.comment_too_long"},
}

var translationErrorRules = []mappedHandlerError{
	{Target: service.ErrLangInvalid, Code: response.CodeNotFound, Key: "error.lang_invalid"},
}

func respondProjectSubmitError(c *gin.Context, err error) {
	handlershared.RespondMapped(c, err, handlershared.ConcatMapped(projectSubmitErrorRules, paymentIssueErrorRules), response.CodeInternal, "error.internal")
}

func respondReviewSubmitError(c *gin.Context, err error) {
	handlershared.RespondMapped(c, err, handlershared.ConcatMapped(reviewSubmitErrorRules, projectLookupErrorRules, paymentIssueErrorRules), response.CodeInternal, "error.internal")
}

func respondProjectLookupError(c *gin.Context, err error) {
	handlershared.RespondMapped(c, err, projectLookupErrorRules, response.CodeInternal, "error.internal")
}

func respondTranslationError(c *gin.Context, err error) {
	handlershared.RespondMapped(c, err, translationErrorRules, response.CodeInternal, "error.internal")
}
