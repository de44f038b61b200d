package admin

import (
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUserRequest 创建/更新后台账号请求
type AdminUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

func (r AdminUserRequest) toInput() service.AdminUserInput {
	return service.AdminUserInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

// GetAdminUsers 后台账号列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	admins, err := h.AdminUserService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, admins)
}

// CreateAdminUser 创建后台账号
func (h *Handler) CreateAdminUser(c *gin.Context) {
	var req AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, err := h.AdminUserService.Create(req.toInput(), actorFromContext(c))
	if err != nil {
		if respondWeakPassword(c, err) {
			return
		}
		respondMappedError(c, err, adminUserErrorRules)
		return
	}
	response.Success(c, admin)
}

// UpdateAdminUser 更新后台账号，密码留空表示不修改
func (h *Handler) UpdateAdminUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, err := h.AdminUserService.Update(id, req.toInput(), actorFromContext(c))
	if err != nil {
		if respondWeakPassword(c, err) {
			return
		}
		respondMappedError(c, err, adminUserErrorRules)
		return
	}
	response.Success(c, admin)
}

// ToggleAdminUser 启用/停用后台账号
func (h *Handler) ToggleAdminUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	admin, err := h.AdminUserService.ToggleActive(id, actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, adminUserErrorRules)
		return
	}
	response.Success(c, admin)
}

// DeleteAdminUser 删除后台账号
func (h *Handler) DeleteAdminUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AdminUserService.Delete(id, actorFromContext(c)); err != nil {
		respondMappedError(c, err, adminUserErrorRules)
		return
	}
	response.Success(c, nil)
}
