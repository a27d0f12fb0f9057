// Package hotel 提供房间与附加服务管理
package hotel

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// RoomService 房间服务
type RoomService struct {
	roomRepo        *repository.RoomRepository
	reservationRepo *repository.ReservationRepository
}

// NewRoomService 创建房间服务
func NewRoomService(
	roomRepo *repository.RoomRepository,
	reservationRepo *repository.ReservationRepository,
) *RoomService {
	return &RoomService{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNo       string   `json:"room_no" binding:"required"`
	Type         string   `json:"type" binding:"required"`
	Floor        *int     `json:"floor,omitempty"`
	Capacity     int      `json:"capacity" binding:"required,min=1"`
	Description  *string  `json:"description,omitempty"`
	Images       []string `json:"images,omitempty"`
	NightlyPrice float64  `json:"nightly_price" binding:"required,gt=0"`
}

// UpdateRoomRequest 更新房间请求（仅更新非空字段）
type UpdateRoomRequest struct {
	Type         *string  `json:"type,omitempty"`
	Floor        *int     `json:"floor,omitempty"`
	Capacity     *int     `json:"capacity,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Images       []string `json:"images,omitempty"`
	NightlyPrice *float64 `json:"nightly_price,omitempty"`
}

// RoomInfo 房间信息
type RoomInfo struct {
	ID           int64    `json:"id"`
	RoomNo       string   `json:"room_no"`
	Type         string   `json:"type"`
	Floor        *int     `json:"floor,omitempty"`
	Capacity     int      `json:"capacity"`
	Description  *string  `json:"description,omitempty"`
	Images       []string `json:"images,omitempty"`
	NightlyPrice float64  `json:"nightly_price"`
	Status       string   `json:"status"`
}

// OccupiedRange 已被占用的日期区间
type OccupiedRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// AvailabilityInfo 房间可用性信息
type AvailabilityInfo struct {
	RoomID    int64           `json:"room_id"`
	CheckIn   time.Time       `json:"check_in"`
	CheckOut  time.Time       `json:"check_out"`
	Available bool            `json:"available"`
	Occupied  []OccupiedRange `json:"occupied,omitempty"`
}

// ListFilters 房间列表过滤条件
type ListFilters struct {
	Type     string
	Status   string
	RoomNo   string
	MinPrice float64
	MaxPrice float64
	Capacity int
}

// CreateRoom 创建房间
func (s *RoomService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*RoomInfo, error) {
	if !utils.ValidateRoomNo(req.RoomNo) {
		return nil, errors.ErrInvalidParams.WithMessage("房间号格式不正确")
	}
	if !models.ValidRoomType(req.Type) {
		return nil, errors.ErrRoomTypeInvalid
	}

	exists, err := s.roomRepo.ExistsByRoomNo(ctx, req.RoomNo)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomExists
	}

	room := &models.Room{
		RoomNo:       req.RoomNo,
		Type:         req.Type,
		Floor:        req.Floor,
		Capacity:     req.Capacity,
		Description:  req.Description,
		Images:       req.Images,
		NightlyPrice: utils.RoundMoney(req.NightlyPrice),
		Status:       models.RoomStatusAvailable,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.convertRoomInfo(room), nil
}

// GetRoom 获取房间详情
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*RoomInfo, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertRoomInfo(room), nil
}

// ListRooms 获取房间列表
func (s *RoomService) ListRooms(ctx context.Context, page, pageSize int, filters *ListFilters) ([]*RoomInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	repoFilters := map[string]interface{}{}
	if filters != nil {
		repoFilters["type"] = filters.Type
		repoFilters["status"] = filters.Status
		repoFilters["room_no"] = filters.RoomNo
		repoFilters["min_price"] = filters.MinPrice
		repoFilters["max_price"] = filters.MaxPrice
		repoFilters["capacity"] = filters.Capacity
	}

	rooms, total, err := s.roomRepo.List(ctx, offset, pageSize, repoFilters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	result := make([]*RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, s.convertRoomInfo(room))
	}
	return result, total, nil
}

// SearchAvailable 按日期区间查询可预订的房间
func (s *RoomService) SearchAvailable(ctx context.Context, checkIn, checkOut time.Time, page, pageSize int) ([]*RoomInfo, int64, error) {
	if !checkIn.Before(checkOut) {
		return nil, 0, errors.ErrDateRangeInvalid
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	rooms, total, err := s.roomRepo.ListAvailableBetween(ctx, checkIn, checkOut, offset, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	result := make([]*RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, s.convertRoomInfo(room))
	}
	return result, total, nil
}

// CheckAvailability 查询单个房间在日期区间内是否可预订
func (s *RoomService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (*AvailabilityInfo, error) {
	if !checkIn.Before(checkOut) {
		return nil, errors.ErrDateRangeInvalid
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	info := &AvailabilityInfo{
		RoomID:   room.ID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}

	if room.Status != models.RoomStatusAvailable {
		return info, nil
	}

	occupying, err := s.reservationRepo.ListOccupyingByRoom(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	info.Available = len(occupying) == 0
	for _, r := range occupying {
		info.Occupied = append(info.Occupied, OccupiedRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut})
	}
	return info, nil
}

// UpdateRoom 更新房间
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, req *UpdateRoomRequest) (*RoomInfo, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := map[string]interface{}{}
	if req.Type != nil {
		if !models.ValidRoomType(*req.Type) {
			return nil, errors.ErrRoomTypeInvalid
		}
		fields["type"] = *req.Type
	}
	if req.Floor != nil {
		fields["floor"] = *req.Floor
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, errors.ErrInvalidParams.WithMessage("容量必须大于 0")
		}
		fields["capacity"] = *req.Capacity
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Images != nil {
		fields["images"] = models.StringList(req.Images)
	}
	if req.NightlyPrice != nil {
		if *req.NightlyPrice <= 0 {
			return nil, errors.ErrAmountInvalid
		}
		fields["nightly_price"] = utils.RoundMoney(*req.NightlyPrice)
	}

	if len(fields) > 0 {
		if err := s.roomRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		room, err = s.roomRepo.GetByID(ctx, id)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	return s.convertRoomInfo(room), nil
}

// SetRoomStatus 设置房间状态
func (s *RoomService) SetRoomStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidRoomStatus(status) {
		return errors.ErrInvalidParams.WithMessage("无效的房间状态")
	}

	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.roomRepo.UpdateStatus(ctx, id, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// DeleteRoom 删除房间
// 存在未完结预订的房间不允许删除
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	// 今天之后仍占用房间的预订
	today := utils.TruncateToDay(time.Now())
	active, err := s.reservationRepo.ExistsByRoomAndDateRange(ctx, id, today, today.AddDate(100, 0, 0), 0)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if active {
		return errors.ErrRoomHasReservations
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// convertRoomInfo 转换房间信息
func (s *RoomService) convertRoomInfo(room *models.Room) *RoomInfo {
	return &RoomInfo{
		ID:           room.ID,
		RoomNo:       room.RoomNo,
		Type:         room.Type,
		Floor:        room.Floor,
		Capacity:     room.Capacity,
		Description:  room.Description,
		Images:       room.Images,
		NightlyPrice: room.NightlyPrice,
		Status:       room.Status,
	}
}
