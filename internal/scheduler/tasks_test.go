// Package scheduler 定时任务单元测试
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.ServiceAddon{},
		&models.Reservation{}, &models.ReservationItem{}, &models.Payment{},
		&models.OperationLog{},
	)
	require.NoError(t, err)

	return db
}

func newTaskHandler(t *testing.T, db *gorm.DB) *TaskHandler {
	t.Helper()
	return NewTaskHandler(db, repository.NewReservationRepository(db), zap.NewNop())
}

func seedTaskReservation(t *testing.T, db *gorm.DB, no string, status string, checkIn, checkOut time.Time) *models.Reservation {
	t.Helper()
	reservation := &models.Reservation{
		ReservationNo: no,
		UserID:        1,
		RoomID:        1,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        int(checkOut.Sub(checkIn).Hours() / 24),
		RoomAmount:    300,
		TotalAmount:   300,
		Status:        status,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}

func TestTaskHandler_FinalizeDepartedReservations(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTaskHandler(t, db)
	ctx := context.Background()

	now := time.Now()
	// 已确认且退房日已过，应被完结
	departed := seedTaskReservation(t, db, "RSV001", models.ReservationStatusConfirmed,
		now.AddDate(0, 0, -5), now.AddDate(0, 0, -2))
	// 已确认但尚未退房，不应被处理
	staying := seedTaskReservation(t, db, "RSV002", models.ReservationStatusConfirmed,
		now.AddDate(0, 0, -1), now.AddDate(0, 0, 2))
	// 待支付的过期预订不归此任务管
	pending := seedTaskReservation(t, db, "RSV003", models.ReservationStatusPending,
		now.AddDate(0, 0, -5), now.AddDate(0, 0, -2))

	err := handler.FinalizeDepartedReservations(ctx)
	require.NoError(t, err)

	var gotDeparted models.Reservation
	db.First(&gotDeparted, departed.ID)
	assert.Equal(t, models.ReservationStatusFinalized, gotDeparted.Status)
	assert.NotNil(t, gotDeparted.FinalizedAt)

	var gotStaying models.Reservation
	db.First(&gotStaying, staying.ID)
	assert.Equal(t, models.ReservationStatusConfirmed, gotStaying.Status)

	var gotPending models.Reservation
	db.First(&gotPending, pending.ID)
	assert.Equal(t, models.ReservationStatusPending, gotPending.Status)
}

func TestTaskHandler_FinalizeDepartedReservations_Empty(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTaskHandler(t, db)

	err := handler.FinalizeDepartedReservations(context.Background())
	assert.NoError(t, err)
}

func TestTaskHandler_CancelStaleUnpaidReservations(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTaskHandler(t, db)
	ctx := context.Background()

	now := time.Now()
	checkIn := now.AddDate(0, 0, 7)
	checkOut := now.AddDate(0, 0, 9)

	// 超过2小时未支付，应被取消
	stale := seedTaskReservation(t, db, "RSV001", models.ReservationStatusPending, checkIn, checkOut)
	db.Model(stale).Update("created_at", now.Add(-3*time.Hour))

	// 超时但已支付，不应被取消
	paid := seedTaskReservation(t, db, "RSV002", models.ReservationStatusPending, checkIn, checkOut)
	db.Model(paid).Update("created_at", now.Add(-3*time.Hour))
	require.NoError(t, db.Create(&models.Payment{
		PaymentNo: "PAY001", ReservationID: paid.ID, UserID: 1,
		Amount: 300, Method: models.PaymentMethodCard, Status: models.PaymentStatusPaid,
	}).Error)

	// 刚创建的待支付预订仍在支付窗口内
	fresh := seedTaskReservation(t, db, "RSV003", models.ReservationStatusPending, checkIn, checkOut)

	err := handler.CancelStaleUnpaidReservations(ctx)
	require.NoError(t, err)

	var gotStale models.Reservation
	db.First(&gotStale, stale.ID)
	assert.Equal(t, models.ReservationStatusCancelled, gotStale.Status)
	require.NotNil(t, gotStale.CancelReason)
	assert.Equal(t, "支付超时自动取消", *gotStale.CancelReason)
	assert.NotNil(t, gotStale.CancelledAt)

	var gotPaid models.Reservation
	db.First(&gotPaid, paid.ID)
	assert.Equal(t, models.ReservationStatusPending, gotPaid.Status)

	var gotFresh models.Reservation
	db.First(&gotFresh, fresh.ID)
	assert.Equal(t, models.ReservationStatusPending, gotFresh.Status)
}

func TestTaskHandler_PurgeOldOperationLogs(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTaskHandler(t, db)
	ctx := context.Background()

	old := &models.OperationLog{AdminID: 1, Module: "room", Action: "update", IP: "127.0.0.1"}
	require.NoError(t, db.Create(old).Error)
	db.Model(old).Update("created_at", time.Now().AddDate(0, 0, -120))

	recent := &models.OperationLog{AdminID: 1, Module: "reservation", Action: "cancel", IP: "127.0.0.1"}
	require.NoError(t, db.Create(recent).Error)

	err := handler.PurgeOldOperationLogs(ctx)
	require.NoError(t, err)

	var count int64
	db.Model(&models.OperationLog{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var kept models.OperationLog
	require.NoError(t, db.First(&kept).Error)
	assert.Equal(t, recent.ID, kept.ID)
}

func TestSetupTasks(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTaskHandler(t, db)
	scheduler := NewScheduler(zap.NewNop())

	SetupTasks(scheduler, handler)

	assert.Equal(t, 3, len(scheduler.tasks))
}
