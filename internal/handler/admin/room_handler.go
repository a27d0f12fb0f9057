// Package admin 提供管理端的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	hotelService "github.com/hotelflamingo/reservation-backend/internal/service/hotel"
)

// RoomHandler 房间管理处理器
type RoomHandler struct {
	roomService *hotelService.RoomService
}

// NewRoomHandler 创建房间管理处理器
func NewRoomHandler(roomSvc *hotelService.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomSvc}
}

// CreateRoom 创建房间
// @Summary 创建房间
// @Tags 管理端-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/admin/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req hotelService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// ListRooms 获取房间列表
// @Summary 获取房间列表
// @Tags 管理端-房间
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param type query string false "房型"
// @Param status query string false "状态"
// @Param room_no query string false "房间号"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/admin/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	page := handler.BindPagination(c)

	filters := &hotelService.ListFilters{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		RoomNo: c.Query("room_no"),
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), page.Page, page.PageSize, filters)
	handler.MustSucceedPage(c, err, rooms, total, page.Page, page.PageSize)
}

// UpdateRoom 更新房间
// @Summary 更新房间
// @Tags 管理端-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body hotelService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/admin/rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, &req)
	handler.MustSucceed(c, err, result)
}

// SetRoomStatusRequest 设置房间状态请求
type SetRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus 设置房间状态
// @Summary 设置房间状态
// @Tags 管理端-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body SetRoomStatusRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id}/status [put]
func (h *RoomHandler) SetRoomStatus(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req SetRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.roomService.SetRoomStatus(c.Request.Context(), roomID, req.Status), nil)
}

// DeleteRoom 删除房间
// @Summary 删除房间
// @Tags 管理端-房间
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.roomService.DeleteRoom(c.Request.Context(), roomID), nil)
}

// RegisterRoutes 注册路由
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.POST("", h.CreateRoom)
		rooms.GET("", h.ListRooms)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.PUT("/:id/status", h.SetRoomStatus)
		rooms.DELETE("/:id", h.DeleteRoom)
	}
}
