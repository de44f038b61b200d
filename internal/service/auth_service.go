package service

import (
	"context"
	"strings"
	"time"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultLockoutAttempts = 5
	defaultLockoutSeconds  = 900
)

// AuthService 认证服务
type AuthService struct {
	cfg         *config.Config
	adminRepo   repository.AdminRepository
	activitySvc *ActivityService
	now         func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository, activitySvc *ActivityService) *AuthService {
	return &AuthService{
		cfg:         cfg,
		adminRepo:   adminRepo,
		activitySvc: activitySvc,
		now:         time.Now,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	now := s.now()
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 12
	}
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)

	claims := JWTClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// LoginResult 登录结果
type LoginResult struct {
	Admin     *models.Admin
	Token     string
	ExpiresAt time.Time
}

// Login 后台登录，连续失败达到阈值后锁定账号
func (s *AuthService) Login(username, password string, actor ActorContext) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if admin.LockedUntil != nil && admin.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.VerifyPassword(admin.PasswordHash, password); err != nil {
		if recordErr := s.recordFailure(admin, now); recordErr != nil {
			return nil, recordErr
		}
		if admin.LockedUntil != nil && admin.LockedUntil.After(now) {
			logger.Warnw("admin_login_locked", "admin_id", admin.ID, "username", admin.Username, "ip", actor.IP)
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, err
	}
	if err := s.adminRepo.RecordLoginSuccess(admin.ID, now); err != nil {
		return nil, err
	}
	admin.LoginAttempts = 0
	admin.LockedUntil = nil
	admin.LastLoginAt = &now
	_ = cache.SetAdminAuthState(context.Background(), cache.BuildAdminAuthState(admin))

	actor.UserID = admin.ID
	s.activitySvc.Record(actor, constants.ActivityLogin, constants.EntityTypeUser, admin.ID)
	return &LoginResult{Admin: admin, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolveAuthState 获取后台账号鉴权快照（优先缓存）
func (s *AuthService) ResolveAuthState(ctx context.Context, adminID uint) (*cache.AdminAuthState, error) {
	if state, err := cache.GetAdminAuthState(ctx, adminID); err == nil && state != nil {
		return state, nil
	}
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrUserNotFound
	}
	state := cache.BuildAdminAuthState(admin)
	_ = cache.SetAdminAuthState(ctx, state)
	return state, nil
}

// GetAdmin 获取后台账号
func (s *AuthService) GetAdmin(adminID uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrUserNotFound
	}
	return admin, nil
}

func (s *AuthService) recordFailure(admin *models.Admin, now time.Time) error {
	maxAttempts, lockSeconds := s.lockoutPolicy()
	admin.LoginAttempts++
	var lockedUntil *time.Time
	if admin.LoginAttempts >= maxAttempts {
		until := now.Add(time.Duration(lockSeconds) * time.Second)
		lockedUntil = &until
		admin.LoginAttempts = 0
	}
	admin.LockedUntil = lockedUntil
	return s.adminRepo.RecordLoginFailure(admin.ID, admin.LoginAttempts, lockedUntil)
}

func (s *AuthService) lockoutPolicy() (int, int) {
	attempts := defaultLockoutAttempts
	seconds := defaultLockoutSeconds
	if s.cfg != nil {
		if v := s.cfg.Security.LoginLockout.MaxAttempts; v > 0 {
			attempts = v
		}
		if v := s.cfg.Security.LoginLockout.LockoutSecond; v > 0 {
			seconds = v
		}
	}
	return attempts, seconds
}
