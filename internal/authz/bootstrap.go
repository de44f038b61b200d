package authz

import (
	"fmt"

	"github.com/cryptologowall/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 后台预置角色：版主处理日常审核，管理员拥有全部后台权限
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleModerator,
			Policies: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/dashboard", Action: "GET"},
				{Object: "/admin/logos", Action: "GET"},
				{Object: "/admin/logos/:id/toggle", Action: "POST"},
				{Object: "/admin/reviews", Action: "GET"},
				{Object: "/admin/reviews/:id/approve", Action: "POST"},
				{Object: "/admin/reviews/:id/disapprove", Action: "POST"},
				{Object: "/admin/payments", Action: "GET"},
				{Object: "/admin/payments/:payment_id", Action: "GET"},
				{Object: "/admin/payments/:payment_id/check", Action: "POST"},
				{Object: "/admin/activity-logs", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleModerator},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，重复执行不会产生重复策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.ensureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
