// Package reservation 提供预订相关的 HTTP Handler
package reservation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	"github.com/hotelflamingo/reservation-backend/internal/common/jwt"
	"github.com/hotelflamingo/reservation-backend/internal/common/qrcode"
	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	"github.com/hotelflamingo/reservation-backend/internal/middleware"
	paymentService "github.com/hotelflamingo/reservation-backend/internal/service/payment"
	reservationService "github.com/hotelflamingo/reservation-backend/internal/service/reservation"
)

// Handler 预订处理器
type Handler struct {
	reservationService *reservationService.ReservationService
	paymentService     *paymentService.PaymentService
	qrGenerator        *qrcode.Generator
}

// NewHandler 创建预订处理器
func NewHandler(
	reservationSvc *reservationService.ReservationService,
	paymentSvc *paymentService.PaymentService,
) *Handler {
	return &Handler{
		reservationService: reservationSvc,
		paymentService:     paymentSvc,
		qrGenerator:        qrcode.NewGenerator(qrcode.WithSize(320)),
	}
}

func isAdmin(c *gin.Context) bool {
	return middleware.GetUserType(c) == jwt.UserTypeAdmin
}

// CreateReservation 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reservationService.CreateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/v1/reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req reservationService.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.reservationService.CreateReservation(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, result)
}

// ListMyReservations 查询我的预订列表
// @Summary 查询我的预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param status query string false "预订状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]reservationService.ReservationInfo}
// @Router /api/v1/reservations [get]
func (h *Handler) ListMyReservations(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	page := handler.BindPagination(c)

	list, total, err := h.reservationService.ListMyReservations(c.Request.Context(), userID, c.Query("status"), page.Page, page.PageSize)
	handler.MustSucceedPage(c, err, list, total, page.Page, page.PageSize)
}

// GetReservation 查询预订详情
// @Summary 查询预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/v1/reservations/{id} [get]
func (h *Handler) GetReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	result, err := h.reservationService.GetReservation(c.Request.Context(), reservationID, userID, isAdmin(c))
	handler.MustSucceed(c, err, result)
}

// UpdateReservation 修改预订
// @Summary 修改预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body reservationService.UpdateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/v1/reservations/{id} [put]
func (h *Handler) UpdateReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	var req reservationService.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.reservationService.UpdateReservation(c.Request.Context(), reservationID, userID, isAdmin(c), &req)
	handler.MustSucceed(c, err, result)
}

// CancelReservation 取消预订
// @Summary 取消预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body reservationService.CancelReservationRequest false "请求参数"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /api/v1/reservations/{id}/cancel [post]
func (h *Handler) CancelReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	var req reservationService.CancelReservationRequest
	// 取消原因可选
	_ = c.ShouldBindJSON(&req)

	result, err := h.reservationService.CancelReservation(c.Request.Context(), reservationID, userID, isAdmin(c), &req)
	handler.MustSucceed(c, err, result)
}

// DeleteReservation 删除预订
// @Summary 删除预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reservations/{id} [delete]
func (h *Handler) DeleteReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.reservationService.DeleteReservation(c.Request.Context(), reservationID, userID, isAdmin(c)), nil)
}

// PayReservation 支付预订
// @Summary 支付预订
// @Tags 支付
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body paymentService.PayRequest true "请求参数"
// @Success 200 {object} response.Response{data=paymentService.PaymentInfo}
// @Router /api/v1/reservations/{id}/payments [post]
func (h *Handler) PayReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	var req paymentService.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.paymentService.PayReservation(c.Request.Context(), reservationID, userID, isAdmin(c), &req)
	handler.MustSucceed(c, err, result)
}

// GetReservationQRCode 获取预订入住二维码
// @Summary 获取预订入住二维码
// @Tags 预订
// @Produce png
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {file} png
// @Router /api/v1/reservations/{id}/qrcode [get]
func (h *Handler) GetReservationQRCode(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	result, err := h.reservationService.GetReservation(c.Request.Context(), reservationID, userID, isAdmin(c))
	if err != nil {
		handler.HandleError(c, err)
		return
	}

	// 前台扫码核销时按预订号检索
	data, err := h.qrGenerator.GeneratePNG(result.ReservationNo)
	if err != nil {
		response.BadRequest(c, "生成二维码失败")
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// ListReservationPayments 查询预订支付记录
// @Summary 查询预订支付记录
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]paymentService.PaymentInfo}
// @Router /api/v1/reservations/{id}/payments [get]
func (h *Handler) ListReservationPayments(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	result, err := h.paymentService.ListReservationPayments(c.Request.Context(), reservationID, userID, isAdmin(c))
	handler.MustSucceed(c, err, result)
}

// RegisterProtectedRoutes 注册需要认证的路由
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("", h.ListMyReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.PUT("/:id", h.UpdateReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.DELETE("/:id", h.DeleteReservation)
		reservations.GET("/:id/qrcode", h.GetReservationQRCode)
		reservations.POST("/:id/payments", h.PayReservation)
		reservations.GET("/:id/payments", h.ListReservationPayments)
	}
}
