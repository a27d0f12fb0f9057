package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDForUpdate 在事务内按 ID 加行锁获取房间
// 同一房间的并发预订通过该行锁串行化
func (r *RoomRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*models.Room, error) {
	var room models.Room
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByRoomNo 根据房间号获取房间
func (r *RoomRepository) GetByRoomNo(ctx context.Context, roomNo string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("room_no = ?", roomNo).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Update 更新房间
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateFields 更新指定字段
func (r *RoomRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus 更新房间状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除房间
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}

// List 获取房间列表
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{})

	// 应用过滤条件
	if roomType, ok := filters["type"].(string); ok && roomType != "" {
		query = query.Where("type = ?", roomType)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if roomNo, ok := filters["room_no"].(string); ok && roomNo != "" {
		query = query.Where("room_no LIKE ?", "%"+roomNo+"%")
	}
	if minPrice, ok := filters["min_price"].(float64); ok && minPrice > 0 {
		query = query.Where("nightly_price >= ?", minPrice)
	}
	if maxPrice, ok := filters["max_price"].(float64); ok && maxPrice > 0 {
		query = query.Where("nightly_price <= ?", maxPrice)
	}
	if capacity, ok := filters["capacity"].(int); ok && capacity > 0 {
		query = query.Where("capacity >= ?", capacity)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.Order("room_no ASC").Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ListAvailableBetween 获取指定日期区间内可预订的房间
// 排除维护中的房间，以及区间内存在占用预订的房间（左闭右开区间重叠）
func (r *RoomRepository) ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time, offset, limit int) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	sub := r.db.Model(&models.Reservation{}).
		Select("room_id").
		Where("status IN ?", models.BlockingReservationStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)

	query := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("status = ?", models.RoomStatusAvailable).
		Where("id NOT IN (?)", sub)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("room_no ASC").Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ExistsByRoomNo 检查房间号是否存在
func (r *RoomRepository) ExistsByRoomNo(ctx context.Context, roomNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Where("room_no = ?", roomNo).Count(&count).Error
	return count > 0, err
}

// CountByStatus 按状态统计房间数量
func (r *RoomRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Count 统计房间总数
func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&count).Error
	return count, err
}
