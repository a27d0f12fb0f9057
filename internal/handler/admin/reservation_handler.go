package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	paymentService "github.com/hotelflamingo/reservation-backend/internal/service/payment"
	reservationService "github.com/hotelflamingo/reservation-backend/internal/service/reservation"
)

// ReservationHandler 预订管理处理器
type ReservationHandler struct {
	reservationService *reservationService.ReservationService
	paymentService     *paymentService.PaymentService
}

// NewReservationHandler 创建预订管理处理器
func NewReservationHandler(
	reservationSvc *reservationService.ReservationService,
	paymentSvc *paymentService.PaymentService,
) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationSvc,
		paymentService:     paymentSvc,
	}
}

// ListReservations 查询预订列表
// @Summary 查询预订列表
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param user_id query int false "用户ID"
// @Param room_id query int false "房间ID"
// @Param status query string false "预订状态"
// @Param reservation_no query string false "预订单号"
// @Param start_date query string false "入住开始日期"
// @Param end_date query string false "入住结束日期"
// @Success 200 {object} response.Response{data=[]reservationService.ReservationInfo}
// @Router /api/admin/reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	page := handler.BindPagination(c)

	userID, ok := handler.ParseQueryID(c, "user_id", "用户")
	if !ok {
		return
	}
	roomID, ok := handler.ParseQueryID(c, "room_id", "房间")
	if !ok {
		return
	}
	startDate, endDate, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	filters := &reservationService.ListFilters{
		Status:        c.Query("status"),
		ReservationNo: c.Query("reservation_no"),
		StartDate:     startDate,
		EndDate:       endDate,
	}
	if userID != nil {
		filters.UserID = *userID
	}
	if roomID != nil {
		filters.RoomID = *roomID
	}

	list, total, err := h.reservationService.ListReservations(c.Request.Context(), page.Page, page.PageSize, filters)
	handler.MustSucceedPage(c, err, list, total, page.Page, page.PageSize)
}

// GetReservation 查询预订详情
// @Summary 查询预订详情
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/admin/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	reservationID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	result, err := h.reservationService.GetReservation(c.Request.Context(), reservationID, 0, true)
	handler.MustSucceed(c, err, result)
}

// GetReservationByNo 按预订号查询预订
// @Summary 按预订号查询预订
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param reservation_no path string true "预订单号"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/admin/reservations/no/{reservation_no} [get]
func (h *ReservationHandler) GetReservationByNo(c *gin.Context) {
	reservationNo := c.Param("reservation_no")
	if reservationNo == "" {
		response.BadRequest(c, "预订单号不能为空")
		return
	}

	result, err := h.reservationService.GetReservationByNo(c.Request.Context(), reservationNo)
	handler.MustSucceed(c, err, result)
}

// SetStatus 修改预订状态
// @Summary 修改预订状态
// @Tags 管理端-预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body reservationService.SetStatusRequest true "请求参数"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/admin/reservations/{id}/status [put]
func (h *ReservationHandler) SetStatus(c *gin.Context) {
	reservationID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	var req reservationService.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.reservationService.SetStatus(c.Request.Context(), reservationID, req.Status)
	handler.MustSucceed(c, err, result)
}

// DeleteReservation 删除预订
// @Summary 删除预订
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	reservationID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.reservationService.DeleteReservation(c.Request.Context(), reservationID, 0, true), nil)
}

// RefundReservation 预订退款
// @Summary 预订退款
// @Tags 管理端-预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]paymentService.PaymentInfo}
// @Router /api/admin/reservations/{id}/refund [post]
func (h *ReservationHandler) RefundReservation(c *gin.Context) {
	reservationID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	result, err := h.paymentService.RefundReservation(c.Request.Context(), reservationID)
	handler.MustSucceed(c, err, result)
}

// RegisterRoutes 注册路由
func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.GET("", h.ListReservations)
		reservations.GET("/no/:reservation_no", h.GetReservationByNo)
		reservations.GET("/:id", h.GetReservation)
		reservations.PUT("/:id/status", h.SetStatus)
		reservations.DELETE("/:id", h.DeleteReservation)
		reservations.POST("/:id/refund", h.RefundReservation)
	}
}
