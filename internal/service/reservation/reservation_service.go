package reservation

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/common/config"
	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// ReservationService 预订服务
type ReservationService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	roomRepo        *repository.RoomRepository
	serviceRepo     *repository.ServiceRepository
	cfg             *config.ReservationConfig
}

// NewReservationService 创建预订服务
func NewReservationService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	roomRepo *repository.RoomRepository,
	serviceRepo *repository.ServiceRepository,
	cfg *config.ReservationConfig,
) *ReservationService {
	return &ReservationService{
		db:              db,
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		serviceRepo:     serviceRepo,
		cfg:             cfg,
	}
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	RoomID     int64         `json:"room_id" binding:"required,min=1"`
	CheckIn    string        `json:"check_in" binding:"required"`
	CheckOut   string        `json:"check_out" binding:"required"`
	GuestCount int           `json:"guest_count" binding:"omitempty,min=1"`
	Items      []ItemRequest `json:"items" binding:"omitempty,dive"`
	Remark     string        `json:"remark" binding:"omitempty,max=500"`
}

// UpdateReservationRequest 修改预订请求（仅限待确认状态）
type UpdateReservationRequest struct {
	RoomID     *int64  `json:"room_id" binding:"omitempty,min=1"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	GuestCount *int    `json:"guest_count" binding:"omitempty,min=1"`
	Remark     *string `json:"remark" binding:"omitempty,max=500"`
}

// CancelReservationRequest 取消预订请求
type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

// SetStatusRequest 管理端修改预订状态请求
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ItemInfo 附加服务明细
type ItemInfo struct {
	ID          int64   `json:"id"`
	ServiceID   int64   `json:"service_id"`
	ServiceName string  `json:"service_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
}

// ReservationInfo 预订信息
type ReservationInfo struct {
	ID            int64      `json:"id"`
	ReservationNo string     `json:"reservation_no"`
	UserID        int64      `json:"user_id"`
	RoomID        int64      `json:"room_id"`
	RoomNo        string     `json:"room_no,omitempty"`
	RoomType      string     `json:"room_type,omitempty"`
	CheckIn       string     `json:"check_in"`
	CheckOut      string     `json:"check_out"`
	Nights        int        `json:"nights"`
	GuestCount    int        `json:"guest_count"`
	RoomAmount    float64    `json:"room_amount"`
	ServiceAmount float64    `json:"service_amount"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `json:"status"`
	Remark        string     `json:"remark,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	Items         []ItemInfo `json:"items,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListFilters 预订列表过滤条件
type ListFilters struct {
	UserID        int64
	RoomID        int64
	Status        string
	ReservationNo string
	StartDate     *time.Time
	EndDate       *time.Time
}

const dateLayout = "2006-01-02"

// parseDateRange 解析并校验入离日期
func (s *ReservationService) parseDateRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := time.ParseInLocation(dateLayout, checkInStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrDateRangeInvalid.WithError(err)
	}
	checkOut, err := time.ParseInLocation(dateLayout, checkOutStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrDateRangeInvalid.WithError(err)
	}
	return s.validateDateRange(checkIn, checkOut)
}

// validateDateRange 校验日期区间：退房日晚于入住日，入住日不早于今天，晚数不超上限
func (s *ReservationService) validateDateRange(checkIn, checkOut time.Time) (time.Time, time.Time, error) {
	checkIn = utils.TruncateToDay(checkIn)
	checkOut = utils.TruncateToDay(checkOut)
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, errors.ErrDateRangeInvalid
	}

	today := utils.TruncateToDay(time.Now())
	if s.cfg.AllowSameDay {
		if checkIn.Before(today) {
			return time.Time{}, time.Time{}, errors.ErrDateInPast
		}
	} else if !checkIn.After(today) {
		return time.Time{}, time.Time{}, errors.ErrDateInPast.WithMessage("入住日期必须晚于今天")
	}

	if CalcNights(checkIn, checkOut) > s.cfg.MaxNights {
		return time.Time{}, time.Time{}, errors.ErrDateRangeInvalid.WithMessage("超出单次预订最长晚数")
	}
	return checkIn, checkOut, nil
}

// CreateReservation 创建预订
// 在事务内对房间行加锁后做重叠检查，防止并发请求同时占用同一日期区间
func (s *ReservationService) CreateReservation(ctx context.Context, userID int64, req *CreateReservationRequest) (*ReservationInfo, error) {
	checkIn, checkOut, err := s.parseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if room.Status != models.RoomStatusAvailable {
		return nil, errors.ErrRoomNotAvailable
	}

	guestCount := req.GuestCount
	if guestCount == 0 {
		guestCount = 1
	}
	if guestCount > room.Capacity {
		return nil, errors.ErrInvalidParams.WithMessage("入住人数超出房间容量")
	}

	quote, err := s.computeQuote(ctx, room, checkIn, checkOut, req.Items)
	if err != nil {
		return nil, err
	}

	var remark *string
	if req.Remark != "" {
		remark = &req.Remark
	}

	reservation := &models.Reservation{
		ReservationNo: utils.GenerateSerialNo("RSV"),
		UserID:        userID,
		RoomID:        room.ID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        quote.Nights,
		GuestCount:    guestCount,
		RoomAmount:    quote.RoomAmount,
		ServiceAmount: quote.ServiceAmount,
		TotalAmount:   quote.TotalAmount,
		Status:        models.ReservationStatusPending,
		Remark:        remark,
		Items:         quote.Items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.roomRepo.GetByIDForUpdate(ctx, tx, room.ID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		exists, err := s.reservationRepo.ExistsByRoomAndDateRangeTx(ctx, tx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return errors.ErrReservationConflict
		}
		if err := s.reservationRepo.CreateTx(ctx, tx, reservation); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	reservation.Room = room
	return convertReservationInfo(reservation), nil
}

// GetReservation 查询预订详情（非管理员仅可查看本人预订）
func (s *ReservationService) GetReservation(ctx context.Context, id int64, userID int64, isAdmin bool) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, errors.ErrReservationNotOwner
	}
	return convertReservationInfo(reservation), nil
}

// ListMyReservations 查询当前用户的预订列表
func (s *ReservationService) ListMyReservations(ctx context.Context, userID int64, status string, page, pageSize int) ([]*ReservationInfo, int64, error) {
	var statusFilter *string
	if status != "" {
		if !models.ValidReservationStatus(status) {
			return nil, 0, errors.ErrInvalidParams.WithMessage("无效的预订状态")
		}
		statusFilter = &status
	}
	offset := (page - 1) * pageSize
	reservations, total, err := s.reservationRepo.ListByUser(ctx, userID, offset, pageSize, statusFilter)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return convertReservationList(reservations), total, nil
}

// GetReservationByNo 管理端按预订号查询预订（前台扫码核销入口）
func (s *ReservationService) GetReservationByNo(ctx context.Context, reservationNo string) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByReservationNo(ctx, reservationNo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	detailed, err := s.reservationRepo.GetByIDWithDetails(ctx, reservation.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertReservationInfo(detailed), nil
}

// ListReservations 管理端查询预订列表
func (s *ReservationService) ListReservations(ctx context.Context, page, pageSize int, f *ListFilters) ([]*ReservationInfo, int64, error) {
	filters := map[string]interface{}{}
	if f != nil {
		if f.UserID > 0 {
			filters["user_id"] = f.UserID
		}
		if f.RoomID > 0 {
			filters["room_id"] = f.RoomID
		}
		if f.Status != "" {
			filters["status"] = f.Status
		}
		if f.ReservationNo != "" {
			filters["reservation_no"] = f.ReservationNo
		}
		if f.StartDate != nil {
			filters["start_date"] = *f.StartDate
		}
		if f.EndDate != nil {
			filters["end_date"] = *f.EndDate
		}
	}
	offset := (page - 1) * pageSize
	reservations, total, err := s.reservationRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return convertReservationList(reservations), total, nil
}

// UpdateReservation 修改预订（仅待确认状态可改，改期或换房需重新检查日期冲突）
func (s *ReservationService) UpdateReservation(ctx context.Context, id int64, userID int64, isAdmin bool, req *UpdateReservationRequest) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, errors.ErrReservationNotOwner
	}
	if reservation.Status != models.ReservationStatusPending {
		return nil, errors.ErrReservationStatusError.WithMessage("仅待确认的预订可以修改")
	}

	targetRoomID := reservation.RoomID
	roomChanged := req.RoomID != nil && *req.RoomID != reservation.RoomID
	if roomChanged {
		targetRoomID = *req.RoomID
	}

	guestCount := reservation.GuestCount
	if guestCount == 0 {
		guestCount = 1
	}

	fields := map[string]interface{}{}
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
		fields["guest_count"] = guestCount
	}
	if req.Remark != nil {
		fields["remark"] = *req.Remark
	}

	room, err := s.roomRepo.GetByID(ctx, targetRoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if roomChanged && room.Status != models.RoomStatusAvailable {
		return nil, errors.ErrRoomNotAvailable
	}
	if guestCount > room.Capacity {
		return nil, errors.ErrInvalidParams.WithMessage("入住人数超出房间容量")
	}

	// 改期或换房需要重新校验、重新计价并在锁内检查冲突
	if roomChanged || req.CheckIn != nil || req.CheckOut != nil {
		checkInStr := reservation.CheckIn.Format(dateLayout)
		checkOutStr := reservation.CheckOut.Format(dateLayout)
		if req.CheckIn != nil {
			checkInStr = *req.CheckIn
		}
		if req.CheckOut != nil {
			checkOutStr = *req.CheckOut
		}
		checkIn, checkOut, err := s.parseDateRange(checkInStr, checkOutStr)
		if err != nil {
			return nil, err
		}

		nights := CalcNights(checkIn, checkOut)
		roomAmount := utils.RoundMoney(room.NightlyPrice * float64(nights))
		if roomChanged {
			fields["room_id"] = room.ID
		}
		fields["check_in"] = checkIn
		fields["check_out"] = checkOut
		fields["nights"] = nights
		fields["room_amount"] = roomAmount
		fields["total_amount"] = utils.RoundMoney(roomAmount + reservation.ServiceAmount)

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := s.roomRepo.GetByIDForUpdate(ctx, tx, room.ID); err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			exists, err := s.reservationRepo.ExistsByRoomAndDateRangeTx(ctx, tx, room.ID, checkIn, checkOut, reservation.ID)
			if err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			if exists {
				return errors.ErrReservationConflict
			}
			return s.reservationRepo.UpdateFieldsTx(ctx, tx, reservation.ID, fields)
		})
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				return nil, appErr
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	} else if len(fields) > 0 {
		if err := s.reservationRepo.UpdateFields(ctx, reservation.ID, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	updated, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertReservationInfo(updated), nil
}

// CancelReservation 取消预订（待确认或已确认的预订可取消）
func (s *ReservationService) CancelReservation(ctx context.Context, id int64, userID int64, isAdmin bool, req *CancelReservationRequest) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, errors.ErrReservationNotOwner
	}
	if !reservation.CanCancel() {
		return nil, errors.ErrReservationStatusError.WithMessage("当前状态不可取消")
	}

	var reason *string
	if req != nil && req.Reason != "" {
		reason = &req.Reason
	}
	if err := s.reservationRepo.Cancel(ctx, id, reason); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	updated, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertReservationInfo(updated), nil
}

// SetStatus 管理端修改预订状态（终态不可再变更）
func (s *ReservationService) SetStatus(ctx context.Context, id int64, status string) (*ReservationInfo, error) {
	if !models.ValidReservationStatus(status) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的预订状态")
	}

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	// 重复提交同一状态按幂等处理，直接返回当前预订
	if reservation.Status == status {
		detailed, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		return convertReservationInfo(detailed), nil
	}
	if reservation.IsTerminal() {
		return nil, errors.ErrReservationStatusError.WithMessage("预订已处于终态")
	}

	switch status {
	case models.ReservationStatusConfirmed:
		if reservation.Status != models.ReservationStatusPending {
			return nil, errors.ErrReservationStatusError
		}
		err = s.reservationRepo.Confirm(ctx, id)
	case models.ReservationStatusFinalized:
		if reservation.Status != models.ReservationStatusConfirmed {
			return nil, errors.ErrReservationStatusError.WithMessage("仅已确认的预订可以完成")
		}
		err = s.reservationRepo.Finalize(ctx, id)
	case models.ReservationStatusCancelled:
		err = s.reservationRepo.Cancel(ctx, id, nil)
	default:
		return nil, errors.ErrReservationStatusError
	}
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	updated, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertReservationInfo(updated), nil
}

// DeleteReservation 删除预订，仅本人或管理员可删，且仅终态预订可删除
func (s *ReservationService) DeleteReservation(ctx context.Context, id int64, userID int64, isAdmin bool) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrReservationNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && reservation.UserID != userID {
		return errors.ErrReservationNotOwner
	}
	if !reservation.IsTerminal() {
		return errors.ErrReservationNotDeletable
	}
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// convertReservationInfo 转换预订信息
func convertReservationInfo(r *models.Reservation) *ReservationInfo {
	info := &ReservationInfo{
		ID:            r.ID,
		ReservationNo: r.ReservationNo,
		UserID:        r.UserID,
		RoomID:        r.RoomID,
		CheckIn:       r.CheckIn.Format(dateLayout),
		CheckOut:      r.CheckOut.Format(dateLayout),
		Nights:        r.Nights,
		GuestCount:    r.GuestCount,
		RoomAmount:    r.RoomAmount,
		ServiceAmount: r.ServiceAmount,
		TotalAmount:   r.TotalAmount,
		Status:        r.Status,
		ConfirmedAt:   r.ConfirmedAt,
		FinalizedAt:   r.FinalizedAt,
		CancelledAt:   r.CancelledAt,
		CreatedAt:     r.CreatedAt,
	}
	if r.Remark != nil {
		info.Remark = *r.Remark
	}
	if r.CancelReason != nil {
		info.CancelReason = *r.CancelReason
	}
	if r.Room != nil {
		info.RoomNo = r.Room.RoomNo
		info.RoomType = r.Room.Type
	}
	for _, item := range r.Items {
		info.Items = append(info.Items, ItemInfo{
			ID:          item.ID,
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		})
	}
	return info
}

func convertReservationList(reservations []*models.Reservation) []*ReservationInfo {
	infos := make([]*ReservationInfo, 0, len(reservations))
	for _, r := range reservations {
		infos = append(infos, convertReservationInfo(r))
	}
	return infos
}
