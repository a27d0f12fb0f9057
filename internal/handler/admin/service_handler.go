package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	hotelService "github.com/hotelflamingo/reservation-backend/internal/service/hotel"
)

// ServiceHandler 附加服务管理处理器
type ServiceHandler struct {
	addonService *hotelService.AddonService
}

// NewServiceHandler 创建附加服务管理处理器
func NewServiceHandler(addonSvc *hotelService.AddonService) *ServiceHandler {
	return &ServiceHandler{addonService: addonSvc}
}

// CreateService 创建附加服务
// @Summary 创建附加服务
// @Tags 管理端-附加服务
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateAddonRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.AddonInfo}
// @Router /api/admin/services [post]
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req hotelService.CreateAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.addonService.CreateAddon(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// ListServices 获取附加服务列表
// @Summary 获取附加服务列表
// @Tags 管理端-附加服务
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param name query string false "名称"
// @Param status query string false "状态"
// @Success 200 {object} response.Response{data=[]hotelService.AddonInfo}
// @Router /api/admin/services [get]
func (h *ServiceHandler) ListServices(c *gin.Context) {
	page := handler.BindPagination(c)

	list, total, err := h.addonService.ListAddons(c.Request.Context(), page.Page, page.PageSize, c.Query("name"), c.Query("status"))
	handler.MustSucceedPage(c, err, list, total, page.Page, page.PageSize)
}

// UpdateService 更新附加服务
// @Summary 更新附加服务
// @Tags 管理端-附加服务
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "服务ID"
// @Param request body hotelService.UpdateAddonRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.AddonInfo}
// @Router /api/admin/services/{id} [put]
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	serviceID, ok := handler.ParseID(c, "附加服务")
	if !ok {
		return
	}

	var req hotelService.UpdateAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.addonService.UpdateAddon(c.Request.Context(), serviceID, &req)
	handler.MustSucceed(c, err, result)
}

// DeleteService 删除附加服务
// @Summary 删除附加服务
// @Tags 管理端-附加服务
// @Produce json
// @Security Bearer
// @Param id path int true "服务ID"
// @Success 200 {object} response.Response
// @Router /api/admin/services/{id} [delete]
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	serviceID, ok := handler.ParseID(c, "附加服务")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.addonService.DeleteAddon(c.Request.Context(), serviceID), nil)
}

// RegisterRoutes 注册路由
func (h *ServiceHandler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.POST("", h.CreateService)
		services.GET("", h.ListServices)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
}
