package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	adminService "github.com/hotelflamingo/reservation-backend/internal/service/admin"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	dashboardService *adminService.DashboardService
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(dashboardSvc *adminService.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardSvc}
}

// GetOverview 获取运营概览
// @Summary 获取运营概览
// @Tags 管理端-仪表盘
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=adminService.Overview}
// @Router /api/admin/dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.GetOverview(c.Request.Context())
	handler.MustSucceed(c, err, overview)
}

// RegisterRoutes 注册路由
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/overview", h.GetOverview)
	}
}
