package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// ReservationRepository 预订仓储
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓储
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create 创建预订（含附加服务明细）
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// CreateTx 在指定事务内创建预订
func (r *ReservationRepository) CreateTx(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Create(reservation).Error
}

// GetByID 根据 ID 获取预订
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByIDWithDetails 根据 ID 获取预订（包含关联信息）
func (r *ReservationRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Preload("Items").
		Preload("Payments").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByReservationNo 根据预订号获取预订
func (r *ReservationRepository) GetByReservationNo(ctx context.Context, reservationNo string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_no = ?", reservationNo).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update 更新预订
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// UpdateFields 更新指定字段
func (r *ReservationRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateFieldsTx 在指定事务内更新指定字段
func (r *ReservationRepository) UpdateFieldsTx(ctx context.Context, tx *gorm.DB, id int64, fields map[string]interface{}) error {
	return tx.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(fields).Error
}

// Confirm 确认预订
func (r *ReservationRepository) Confirm(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.ReservationStatusConfirmed,
			"confirmed_at": now,
		}).Error
}

// Finalize 标记完成
func (r *ReservationRepository) Finalize(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.ReservationStatusFinalized,
			"finalized_at": now,
		}).Error
}

// Cancel 取消预订
func (r *ReservationRepository) Cancel(ctx context.Context, id int64, reason *string) error {
	now := time.Now()
	fields := map[string]interface{}{
		"status":       models.ReservationStatusCancelled,
		"cancelled_at": now,
	}
	if reason != nil {
		fields["cancel_reason"] = *reason
	}
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 删除预订（连同支付记录与明细）
func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", id).Delete(&models.ReservationItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reservation{}, id).Error
	})
}

// List 获取预订列表
func (r *ReservationRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	// 应用过滤条件
	if userID, ok := filters["user_id"].(int64); ok && userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if roomID, ok := filters["room_id"].(int64); ok && roomID > 0 {
		query = query.Where("room_id = ?", roomID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if statuses, ok := filters["statuses"].([]string); ok && len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if reservationNo, ok := filters["reservation_no"].(string); ok && reservationNo != "" {
		query = query.Where("reservation_no LIKE ?", "%"+reservationNo+"%")
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("check_in >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("check_in <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Room").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ListByUser 获取用户的预订列表
func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, offset, limit int, status *string) ([]*models.Reservation, int64, error) {
	filters := map[string]interface{}{
		"user_id": userID,
	}
	if status != nil {
		filters["status"] = *status
	}
	return r.List(ctx, offset, limit, filters)
}

// ListOccupyingByRoom 获取房间在指定日期区间内的占用预订（左闭右开区间重叠）
func (r *ReservationRepository) ListOccupyingByRoom(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingReservationStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Order("check_in ASC").
		Find(&reservations).Error
	return reservations, err
}

// ExistsByRoomAndDateRange 检查房间在指定日期区间内是否有占用预订
// excludeID 用于修改日期时排除预订自身
func (r *ReservationRepository) ExistsByRoomAndDateRange(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	return r.existsByRoomAndDateRange(ctx, r.db, roomID, checkIn, checkOut, excludeID)
}

// ExistsByRoomAndDateRangeTx 在指定事务内检查日期冲突
func (r *ReservationRepository) ExistsByRoomAndDateRangeTx(ctx context.Context, tx *gorm.DB, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	return r.existsByRoomAndDateRange(ctx, tx, roomID, checkIn, checkOut, excludeID)
}

func (r *ReservationRepository) existsByRoomAndDateRange(ctx context.Context, db *gorm.DB, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingReservationStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountByUserAndStatus 统计用户指定状态的预订数量
func (r *ReservationRepository) CountByUserAndStatus(ctx context.Context, userID int64, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("user_id = ?", userID).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

// Count 统计预订总数
func (r *ReservationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).Count(&count).Error
	return count, err
}

// GetStatusStats 按状态统计预订数量
func (r *ReservationRepository) GetStatusStats(ctx context.Context) (map[string]int64, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64)
	for _, row := range results {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// CountCheckInsOn 统计指定日期入住的占用预订数量
func (r *ReservationRepository) CountCheckInsOn(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("check_in = ?", date).
		Where("status IN ?", models.ActiveReservationStatuses).
		Count(&count).Error
	return count, err
}

// CountCheckOutsOn 统计指定日期离店的预订数量
func (r *ReservationRepository) CountCheckOutsOn(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("check_out = ?", date).
		Where("status IN ?", []string{
			models.ReservationStatusConfirmed,
			models.ReservationStatusFinalized,
		}).
		Count(&count).Error
	return count, err
}

// SumRevenueSince 统计自指定时间起已完成预订的总金额
func (r *ReservationRepository) SumRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", models.ReservationStatusFinalized).
		Where("updated_at >= ?", since).
		Scan(&total).Error
	return total, err
}

// CountItemsByService 统计引用某附加服务的预订明细数量
func (r *ReservationRepository) CountItemsByService(ctx context.Context, serviceID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReservationItem{}).
		Where("service_id = ?", serviceID).
		Count(&count).Error
	return count, err
}
