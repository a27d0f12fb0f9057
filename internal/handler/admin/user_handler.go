package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	adminService "github.com/hotelflamingo/reservation-backend/internal/service/admin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	userAdminService *adminService.UserAdminService
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(userAdminSvc *adminService.UserAdminService) *UserHandler {
	return &UserHandler{userAdminService: userAdminSvc}
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 管理端-用户
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param email query string false "邮箱"
// @Param name query string false "姓名"
// @Param role query string false "角色"
// @Param status query int false "状态"
// @Success 200 {object} response.Response{data=[]adminService.UserDetail}
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page := handler.BindPagination(c)

	filters := &adminService.UserListFilters{
		Email: c.Query("email"),
		Name:  c.Query("name"),
		Role:  c.Query("role"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, err := strconv.Atoi(statusStr)
		if err != nil {
			response.BadRequest(c, "无效的用户状态")
			return
		}
		s := int8(status)
		filters.Status = &s
	}

	list, total, err := h.userAdminService.List(c.Request.Context(), page.Page, page.PageSize, filters)
	handler.MustSucceedPage(c, err, list, total, page.Page, page.PageSize)
}

// GetUser 获取用户详情
// @Summary 获取用户详情
// @Tags 管理端-用户
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=adminService.UserDetail}
// @Router /api/admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	result, err := h.userAdminService.Get(c.Request.Context(), userID)
	handler.MustSucceed(c, err, result)
}

// SetUserStatusRequest 设置用户状态请求
type SetUserStatusRequest struct {
	Status *int8 `json:"status" binding:"required"`
}

// SetUserStatus 启用或禁用用户
// @Summary 启用或禁用用户
// @Tags 管理端-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param request body SetUserStatusRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/users/{id}/status [put]
func (h *UserHandler) SetUserStatus(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.userAdminService.SetStatus(c.Request.Context(), userID, *req.Status), nil)
}

// SetUserRoleRequest 设置用户角色请求
type SetUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetUserRole 设置用户角色
// @Summary 设置用户角色
// @Tags 管理端-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param request body SetUserRoleRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/users/{id}/role [put]
func (h *UserHandler) SetUserRole(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	var req SetUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.userAdminService.SetRole(c.Request.Context(), userID, req.Role), nil)
}

// RegisterRoutes 注册路由
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id/status", h.SetUserStatus)
		users.PUT("/:id/role", h.SetUserRole)
	}
}
