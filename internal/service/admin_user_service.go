package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"
)

// AdminRoleSyncer 将后台账号角色同步到授权策略
type AdminRoleSyncer interface {
	SyncAdmin(adminID uint, role string, active bool) error
}

// AdminUserService 后台账号管理服务
type AdminUserService struct {
	adminRepo   repository.AdminRepository
	authSvc     *AuthService
	activitySvc *ActivityService
	roles       AdminRoleSyncer
}

// NewAdminUserService 创建后台账号管理服务
func NewAdminUserService(adminRepo repository.AdminRepository, authSvc *AuthService, activitySvc *ActivityService, roles AdminRoleSyncer) *AdminUserService {
	return &AdminUserService{
		adminRepo:   adminRepo,
		authSvc:     authSvc,
		activitySvc: activitySvc,
		roles:       roles,
	}
}

// SyncAllRoles 启动时按账号表重建授权角色
func (s *AdminUserService) SyncAllRoles() error {
	admins, err := s.adminRepo.List()
	if err != nil {
		return err
	}
	for idx := range admins {
		if err := s.syncRole(&admins[idx], true); err != nil {
			return err
		}
	}
	return nil
}

func (s *AdminUserService) syncRole(admin *models.Admin, active bool) error {
	if s.roles == nil || admin == nil {
		return nil
	}
	if err := s.roles.SyncAdmin(admin.ID, admin.Role, active && admin.IsActive); err != nil {
		logger.Errorw("admin_role_sync_failed", "admin_id", admin.ID, "role", admin.Role, "error", err)
		return err
	}
	return nil
}

// AdminUserInput 创建或更新后台账号
// 更新时 Password 为空表示不修改密码
type AdminUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	IsActive *bool
}

// List 后台账号列表
func (s *AdminUserService) List() ([]models.Admin, error) {
	return s.adminRepo.List()
}

// Create 创建后台账号
func (s *AdminUserService) Create(input AdminUserInput, actor ActorContext) (*models.Admin, error) {
	username, email, role, err := s.validate(input, 0)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.authSvc.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if input.IsActive != nil {
		admin.IsActive = *input.IsActive
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	if err := s.syncRole(admin, true); err != nil {
		return nil, err
	}
	s.activitySvc.Record(actor, constants.ActivityCreateUser, constants.EntityTypeUser, admin.ID)
	return admin, nil
}

// Update 更新后台账号
func (s *AdminUserService) Update(id uint, input AdminUserInput, actor ActorContext) (*models.Admin, error) {
	admin, err := s.get(id)
	if err != nil {
		return nil, err
	}
	username, email, role, err := s.validate(input, id)
	if err != nil {
		return nil, err
	}
	if id == actor.UserID {
		if role != admin.Role || (input.IsActive != nil && !*input.IsActive) {
			return nil, ErrCannotModifySelf
		}
	}
	admin.Username = username
	admin.Email = email
	admin.Role = role
	if input.IsActive != nil {
		admin.IsActive = *input.IsActive
	}
	if input.Password != "" {
		if err := validatePassword(input.Password); err != nil {
			return nil, err
		}
		hash, err := s.authSvc.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	if err := s.syncRole(admin, true); err != nil {
		return nil, err
	}
	_ = cache.DelAdminAuthState(context.Background(), id)
	s.activitySvc.Record(actor, constants.ActivityUpdateUser, constants.EntityTypeUser, id)
	return admin, nil
}

// ToggleActive 启用或停用后台账号，不能停用自己
func (s *AdminUserService) ToggleActive(id uint, actor ActorContext) (*models.Admin, error) {
	if id == actor.UserID {
		return nil, ErrCannotModifySelf
	}
	admin, err := s.get(id)
	if err != nil {
		return nil, err
	}
	admin.IsActive = !admin.IsActive
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	if err := s.syncRole(admin, true); err != nil {
		return nil, err
	}
	_ = cache.DelAdminAuthState(context.Background(), id)
	s.activitySvc.Record(actor, constants.ActivityToggleUser, constants.EntityTypeUser, id)
	return admin, nil
}

// Delete 删除后台账号，不能删除自己
func (s *AdminUserService) Delete(id uint, actor ActorContext) error {
	if id == actor.UserID {
		return ErrCannotModifySelf
	}
	admin, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.adminRepo.Delete(id); err != nil {
		return err
	}
	if err := s.syncRole(admin, false); err != nil {
		return err
	}
	_ = cache.DelAdminAuthState(context.Background(), id)
	s.activitySvc.Record(actor, constants.ActivityDeleteUser, constants.EntityTypeUser, id)
	return nil
}

func (s *AdminUserService) get(id uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrUserNotFound
	}
	return admin, nil
}

func (s *AdminUserService) validate(input AdminUserInput, excludeID uint) (string, string, string, error) {
	username := strings.TrimSpace(input.Username)
	if !usernamePattern.MatchString(username) {
		return "", "", "", ErrUsernameInvalid
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if parsed, err := mail.ParseAddress(email); err != nil || parsed.Address != email {
		return "", "", "", ErrEmailInvalid
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role != constants.RoleAdmin && role != constants.RoleModerator {
		return "", "", "", ErrRoleInvalid
	}
	exists, err := s.adminRepo.ExistsUsername(username, excludeID)
	if err != nil {
		return "", "", "", err
	}
	if exists {
		return "", "", "", ErrUsernameExists
	}
	exists, err = s.adminRepo.ExistsEmail(email, excludeID)
	if err != nil {
		return "", "", "", err
	}
	if exists {
		return "", "", "", ErrEmailExists
	}
	return username, email, role, nil
}
