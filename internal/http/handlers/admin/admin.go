package admin

import (
	"time"

	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/models"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string       `json:"token"`
	User      AdminProfile `json:"user"`
	ExpiresAt string       `json:"expires_at"`
}

// AdminProfile 当前后台账号信息
type AdminProfile struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func newAdminProfile(admin *models.Admin) AdminProfile {
	return AdminProfile{
		ID:          admin.ID,
		Username:    admin.Username,
		Email:       admin.Email,
		Role:        admin.Role,
		LastLoginAt: admin.LastLoginAt,
	}
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CaptchaService.Verify(req.CaptchaPayload.ToServicePayload()); err != nil {
		respondMappedError(c, err, loginErrorRules)
		return
	}

	result, err := h.AuthService.Login(req.Username, req.Password, actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, loginErrorRules)
		return
	}
	response.Success(c, LoginResponse{
		Token:     result.Token,
		User:      newAdminProfile(result.Admin),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// GetCaptcha 获取后台登录图片验证码
func (h *Handler) GetCaptcha(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// GetMe 当前登录账号
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.GetAdmin(id)
	if err != nil {
		respondMappedError(c, err, adminUserErrorRules)
		return
	}
	profile := newAdminProfile(admin)
	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		requestLog(c).Warnw("admin_me_roles_failed", "admin_id", id, "error", err)
	}
	response.Success(c, gin.H{
		"profile": profile,
		"roles":   roles,
	})
}
