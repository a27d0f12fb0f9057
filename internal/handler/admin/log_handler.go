package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// LogHandler 操作日志处理器
type LogHandler struct {
	logRepo *repository.OperationLogRepository
}

// NewLogHandler 创建操作日志处理器
func NewLogHandler(logRepo *repository.OperationLogRepository) *LogHandler {
	return &LogHandler{logRepo: logRepo}
}

// ListLogs 查询操作日志
// @Summary 查询操作日志
// @Tags 管理端-日志
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param admin_id query int false "管理员ID"
// @Param module query string false "模块"
// @Param action query string false "操作"
// @Param target_type query string false "目标类型"
// @Success 200 {object} response.Response
// @Router /api/admin/logs [get]
func (h *LogHandler) ListLogs(c *gin.Context) {
	page := handler.BindPagination(c)

	adminID, ok := handler.ParseQueryID(c, "admin_id", "管理员")
	if !ok {
		return
	}

	filters := map[string]interface{}{
		"module":      c.Query("module"),
		"action":      c.Query("action"),
		"target_type": c.Query("target_type"),
	}
	if adminID != nil {
		filters["admin_id"] = *adminID
	}

	logs, total, err := h.logRepo.List(c.Request.Context(), page.GetOffset(), page.PageSize, filters)
	handler.MustSucceedPage(c, err, logs, total, page.Page, page.PageSize)
}

// RegisterRoutes 注册路由
func (h *LogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/logs", h.ListLogs)
}
