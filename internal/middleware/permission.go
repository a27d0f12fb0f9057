// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// PermissionChecker 权限检查器接口
type PermissionChecker interface {
	HasPermission(roleCode, permissionCode string) bool
	HasAnyPermission(roleCode string, permissionCodes []string) bool
}

// RequirePermission 要求指定权限
func RequirePermission(checker PermissionChecker, permissionCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !checker.HasPermission(role, permissionCode) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyPermission 要求任一权限
func RequireAnyPermission(checker PermissionChecker, permissionCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !checker.HasAnyPermission(role, permissionCodes) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoles 要求指定角色
func RequireRoles(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if _, ok := roleSet[role]; !ok {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin 要求管理员角色
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// PermissionCodes 预定义权限码
const (
	// 房间管理
	PermissionRoomList   = "room:list"
	PermissionRoomCreate = "room:create"
	PermissionRoomUpdate = "room:update"
	PermissionRoomDelete = "room:delete"

	// 预订管理
	PermissionReservationList   = "reservation:list"
	PermissionReservationView   = "reservation:view"
	PermissionReservationUpdate = "reservation:update"
	PermissionReservationDelete = "reservation:delete"

	// 附加服务管理
	PermissionServiceList   = "service:list"
	PermissionServiceCreate = "service:create"
	PermissionServiceUpdate = "service:update"
	PermissionServiceDelete = "service:delete"

	// 用户管理
	PermissionUserList   = "user:list"
	PermissionUserUpdate = "user:update"

	// 支付管理
	PermissionPaymentView   = "payment:view"
	PermissionPaymentRefund = "payment:refund"

	// 系统管理
	PermissionSystemLog = "system:log"
)

// StaticPermissionChecker 基于角色的静态权限表
type StaticPermissionChecker struct {
	rolePermissions map[string]map[string]struct{}
}

// NewStaticPermissionChecker 创建静态权限检查器
// 管理员拥有全部权限，顾客仅有查询类权限
func NewStaticPermissionChecker() *StaticPermissionChecker {
	all := []string{
		PermissionRoomList, PermissionRoomCreate, PermissionRoomUpdate, PermissionRoomDelete,
		PermissionReservationList, PermissionReservationView, PermissionReservationUpdate, PermissionReservationDelete,
		PermissionServiceList, PermissionServiceCreate, PermissionServiceUpdate, PermissionServiceDelete,
		PermissionUserList, PermissionUserUpdate,
		PermissionPaymentView, PermissionPaymentRefund,
		PermissionSystemLog,
	}
	customer := []string{
		PermissionRoomList,
		PermissionServiceList,
		PermissionReservationView,
	}

	checker := &StaticPermissionChecker{rolePermissions: map[string]map[string]struct{}{}}
	checker.grant(models.RoleAdmin, all)
	checker.grant(models.RoleCustomer, customer)
	return checker
}

func (p *StaticPermissionChecker) grant(role string, codes []string) {
	set, ok := p.rolePermissions[role]
	if !ok {
		set = map[string]struct{}{}
		p.rolePermissions[role] = set
	}
	for _, code := range codes {
		set[code] = struct{}{}
	}
}

// HasPermission 判断角色是否拥有指定权限
func (p *StaticPermissionChecker) HasPermission(roleCode, permissionCode string) bool {
	set, ok := p.rolePermissions[roleCode]
	if !ok {
		return false
	}
	_, ok = set[permissionCode]
	return ok
}

// HasAnyPermission 判断角色是否拥有任一权限
func (p *StaticPermissionChecker) HasAnyPermission(roleCode string, permissionCodes []string) bool {
	for _, code := range permissionCodes {
		if p.HasPermission(roleCode, code) {
			return true
		}
	}
	return false
}
