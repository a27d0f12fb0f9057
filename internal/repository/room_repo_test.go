// Package repository 房间仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

func setupRoomTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Room{}, &models.Reservation{}, &models.ReservationItem{})
	require.NoError(t, err)

	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRoomRepository_Create(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := &models.Room{
		RoomNo:       "101",
		Type:         models.RoomTypeStandard,
		NightlyPrice: 300,
		Capacity:     2,
		Status:       models.RoomStatusAvailable,
	}

	err := repo.Create(ctx, room)
	require.NoError(t, err)
	assert.NotZero(t, room.ID)
}

func TestRoomRepository_GetByRoomNo(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := &models.Room{
		RoomNo:       "202",
		Type:         models.RoomTypeDeluxe,
		NightlyPrice: 500,
		Status:       models.RoomStatusAvailable,
	}
	db.Create(room)

	found, err := repo.GetByRoomNo(ctx, "202")
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)
	assert.Equal(t, models.RoomTypeDeluxe, found.Type)
}

func TestRoomRepository_UpdateStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := &models.Room{
		RoomNo:       "101",
		Type:         models.RoomTypeStandard,
		NightlyPrice: 300,
		Status:       models.RoomStatusAvailable,
	}
	db.Create(room)

	err := repo.UpdateStatus(ctx, room.ID, models.RoomStatusMaintenance)
	require.NoError(t, err)

	var found models.Room
	db.First(&found, room.ID)
	assert.Equal(t, models.RoomStatusMaintenance, found.Status)
}

func TestRoomRepository_List(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	rooms := []*models.Room{
		{RoomNo: "101", Type: models.RoomTypeStandard, NightlyPrice: 300, Status: models.RoomStatusAvailable},
		{RoomNo: "102", Type: models.RoomTypeStandard, NightlyPrice: 320, Status: models.RoomStatusMaintenance},
		{RoomNo: "201", Type: models.RoomTypeSuite, NightlyPrice: 900, Status: models.RoomStatusAvailable},
	}
	for _, r := range rooms {
		db.Create(r)
	}

	// 获取全部
	list, total, err := repo.List(ctx, 0, 10, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, 3, len(list))

	// 按类型过滤
	list, total, err = repo.List(ctx, 0, 10, map[string]interface{}{
		"type": models.RoomTypeSuite,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "201", list[0].RoomNo)

	// 按价格区间过滤
	list, total, err = repo.List(ctx, 0, 10, map[string]interface{}{
		"min_price": float64(310),
		"max_price": float64(400),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "102", list[0].RoomNo)

	// 按状态过滤
	list, total, err = repo.List(ctx, 0, 10, map[string]interface{}{
		"status": models.RoomStatusAvailable,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 2, len(list))
}

func TestRoomRepository_ListAvailableBetween(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	roomA := &models.Room{RoomNo: "101", Type: models.RoomTypeStandard, NightlyPrice: 300, Status: models.RoomStatusAvailable}
	roomB := &models.Room{RoomNo: "102", Type: models.RoomTypeStandard, NightlyPrice: 300, Status: models.RoomStatusAvailable}
	roomC := &models.Room{RoomNo: "103", Type: models.RoomTypeStandard, NightlyPrice: 300, Status: models.RoomStatusMaintenance}
	for _, r := range []*models.Room{roomA, roomB, roomC} {
		db.Create(r)
	}

	// roomA 在 10-12 有占用预订
	db.Create(&models.Reservation{
		ReservationNo: "RSV001", UserID: 1, RoomID: roomA.ID,
		CheckIn: date(2026, 9, 10), CheckOut: date(2026, 9, 12), Nights: 2,
		RoomAmount: 600, TotalAmount: 600,
		Status: models.ReservationStatusConfirmed,
	})

	// 与占用区间重叠：只剩 roomB
	list, total, err := repo.ListAvailableBetween(ctx, date(2026, 9, 11), date(2026, 9, 13), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, roomB.ID, list[0].ID)

	// 退房日等于入住日不算重叠：roomA 也可预订
	list, total, err = repo.ListAvailableBetween(ctx, date(2026, 9, 12), date(2026, 9, 14), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 2, len(list))
}

func TestRoomRepository_Delete(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := &models.Room{RoomNo: "101", Type: models.RoomTypeStandard, NightlyPrice: 300, Status: models.RoomStatusAvailable}
	db.Create(room)

	err := repo.Delete(ctx, room.ID)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Room{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRoomRepository_ExistsByRoomNo(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	db.Create(&models.Room{RoomNo: "101", Type: models.RoomTypeStandard, NightlyPrice: 300, Status: models.RoomStatusAvailable})

	exists, err := repo.ExistsByRoomNo(ctx, "101")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByRoomNo(ctx, "999")
	require.NoError(t, err)
	assert.False(t, exists)
}
