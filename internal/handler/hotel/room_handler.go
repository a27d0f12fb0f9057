// Package hotel 提供房间与附加服务相关的 HTTP Handler
package hotel

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hotelflamingo/reservation-backend/internal/common/handler"
	hotelService "github.com/hotelflamingo/reservation-backend/internal/service/hotel"
)

// Handler 房间处理器
type Handler struct {
	roomService  *hotelService.RoomService
	addonService *hotelService.AddonService
}

// NewHandler 创建房间处理器
func NewHandler(roomSvc *hotelService.RoomService, addonSvc *hotelService.AddonService) *Handler {
	return &Handler{
		roomService:  roomSvc,
		addonService: addonSvc,
	}
}

// ListRooms 获取房间列表
// @Summary 获取房间列表
// @Tags 房间
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param type query string false "房型"
// @Param min_price query number false "最低价格"
// @Param max_price query number false "最高价格"
// @Param capacity query int false "最少容量"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/v1/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	page := handler.BindPagination(c)

	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	capacity, _ := strconv.Atoi(c.Query("capacity"))

	filters := &hotelService.ListFilters{
		Type:     c.Query("type"),
		RoomNo:   c.Query("room_no"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Capacity: capacity,
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), page.Page, page.PageSize, filters)
	handler.MustSucceedPage(c, err, rooms, total, page.Page, page.PageSize)
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms/{id} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	handler.MustSucceed(c, err, room)
}

// SearchAvailable 按日期查询可预订的房间
// @Summary 按日期查询可预订的房间
// @Tags 房间
// @Produce json
// @Param check_in query string true "入住日期 YYYY-MM-DD"
// @Param check_out query string true "退房日期 YYYY-MM-DD"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/v1/rooms/available [get]
func (h *Handler) SearchAvailable(c *gin.Context) {
	checkIn, checkOut, ok := handler.ParseRequiredQueryDateRange(c)
	if !ok {
		return
	}
	page := handler.BindPagination(c)

	rooms, total, err := h.roomService.SearchAvailable(c.Request.Context(), checkIn, checkOut, page.Page, page.PageSize)
	handler.MustSucceedPage(c, err, rooms, total, page.Page, page.PageSize)
}

// CheckAvailability 查询房间在指定日期是否可预订
// @Summary 查询房间是否可预订
// @Tags 房间
// @Produce json
// @Param id path int true "房间ID"
// @Param check_in query string true "入住日期 YYYY-MM-DD"
// @Param check_out query string true "退房日期 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=hotelService.AvailabilityInfo}
// @Router /api/v1/rooms/{id}/availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	roomID, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}
	checkIn, checkOut, ok := handler.ParseRequiredQueryDateRange(c)
	if !ok {
		return
	}

	info, err := h.roomService.CheckAvailability(c.Request.Context(), roomID, checkIn, checkOut)
	handler.MustSucceed(c, err, info)
}

// ListServices 获取上架的附加服务
// @Summary 获取附加服务列表
// @Tags 附加服务
// @Produce json
// @Success 200 {object} response.Response{data=[]hotelService.AddonInfo}
// @Router /api/v1/services [get]
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.addonService.ListActiveAddons(c.Request.Context())
	handler.MustSucceed(c, err, services)
}

// GetService 获取附加服务详情
// @Summary 获取附加服务详情
// @Tags 附加服务
// @Produce json
// @Param id path int true "服务ID"
// @Success 200 {object} response.Response{data=hotelService.AddonInfo}
// @Router /api/v1/services/{id} [get]
func (h *Handler) GetService(c *gin.Context) {
	serviceID, ok := handler.ParseID(c, "附加服务")
	if !ok {
		return
	}

	service, err := h.addonService.GetAddon(c.Request.Context(), serviceID)
	handler.MustSucceed(c, err, service)
}

// RegisterRoutes 注册公开路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/available", h.SearchAvailable)
		rooms.GET("/:id", h.GetRoom)
		rooms.GET("/:id/availability", h.CheckAvailability)
	}

	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}
}
