// Package payment 支付服务单元测试
package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Reservation{},
		&models.ReservationItem{},
		&models.Payment{},
	)
	require.NoError(t, err)

	return db
}

func newTestPaymentService(t *testing.T) (*PaymentService, *gorm.DB) {
	db := setupTestDB(t)
	svc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewReservationRepository(db))
	return svc, db
}

func seedReservation(t *testing.T, db *gorm.DB, userID int64, total float64, status string) *models.Reservation {
	checkIn := time.Now().AddDate(0, 0, 7)
	reservation := &models.Reservation{
		ReservationNo: "RSV" + time.Now().Format("20060102150405.000000000"),
		UserID:        userID,
		RoomID:        1,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 2),
		Nights:        2,
		GuestCount:    1,
		RoomAmount:    total,
		TotalAmount:   total,
		Status:        status,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}

func TestPaymentService_PayReservation(t *testing.T) {
	svc, db := newTestPaymentService(t)
	ctx := context.Background()

	t.Run("支付成功", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusConfirmed)

		info, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{
			Method: models.PaymentMethodCard,
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, info.Status)
		assert.InDelta(t, 600.0, info.Amount, 0.001)
		assert.NotNil(t, info.PaidAt)
		assert.Contains(t, info.PaymentNo, "PAY")
	})

	t.Run("重复支付", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusConfirmed)
		_, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{Method: models.PaymentMethodCash})
		require.NoError(t, err)

		_, err = svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{Method: models.PaymentMethodCard})
		require.Error(t, err)
		assert.Equal(t, errors.ErrPaymentExists.Code, errors.GetAppError(err).Code)
	})

	t.Run("金额与总价不一致", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusPending)
		badAmount := 500.0
		_, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{
			Method: models.PaymentMethodCard,
			Amount: &badAmount,
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrAmountInvalid.Code, errors.GetAppError(err).Code)
	})

	t.Run("已完结的预订不可支付", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusCancelled)
		_, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{Method: models.PaymentMethodCard})
		require.Error(t, err)
		assert.Equal(t, errors.ErrReservationStatusError.Code, errors.GetAppError(err).Code)
	})

	t.Run("他人不可支付", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusPending)
		_, err := svc.PayReservation(ctx, reservation.ID, 2, false, &PayRequest{Method: models.PaymentMethodCard})
		require.Error(t, err)
		assert.Equal(t, errors.ErrReservationNotOwner.Code, errors.GetAppError(err).Code)
	})

	t.Run("无效的支付方式", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusPending)
		_, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{Method: "bitcoin"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrInvalidParams.Code, errors.GetAppError(err).Code)
	})
}

func TestPaymentService_RefundReservation(t *testing.T) {
	svc, db := newTestPaymentService(t)
	ctx := context.Background()

	t.Run("退款成功", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusConfirmed)
		_, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{Method: models.PaymentMethodCard})
		require.NoError(t, err)

		// 取消后才可退款
		require.NoError(t, db.Model(reservation).Update("status", models.ReservationStatusCancelled).Error)

		refunded, err := svc.RefundReservation(ctx, reservation.ID)
		require.NoError(t, err)
		require.Len(t, refunded, 1)
		assert.Equal(t, models.PaymentStatusRefunded, refunded[0].Status)
		assert.NotNil(t, refunded[0].RefundedAt)
	})

	t.Run("未取消的预订不可退款", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusConfirmed)
		_, err := svc.RefundReservation(ctx, reservation.ID)
		require.Error(t, err)
		assert.Equal(t, errors.ErrReservationStatusError.Code, errors.GetAppError(err).Code)
	})

	t.Run("没有可退款的支付记录", func(t *testing.T) {
		reservation := seedReservation(t, db, 1, 600, models.ReservationStatusCancelled)
		_, err := svc.RefundReservation(ctx, reservation.ID)
		require.Error(t, err)
		assert.Equal(t, errors.ErrPaymentNotFound.Code, errors.GetAppError(err).Code)
	})
}

func TestPaymentService_ListReservationPayments(t *testing.T) {
	svc, db := newTestPaymentService(t)
	ctx := context.Background()

	reservation := seedReservation(t, db, 1, 600, models.ReservationStatusConfirmed)
	payment, err := svc.PayReservation(ctx, reservation.ID, 1, false, &PayRequest{Method: models.PaymentMethodCash})
	require.NoError(t, err)

	list, err := svc.ListReservationPayments(ctx, reservation.ID, 1, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, payment.PaymentNo, list[0].PaymentNo)

	_, err = svc.ListReservationPayments(ctx, reservation.ID, 2, false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrReservationNotOwner.Code, errors.GetAppError(err).Code)

	got, err := svc.GetPayment(ctx, list[0].ID, 1, false)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentNo, got.PaymentNo)

	_, err = svc.GetPayment(ctx, list[0].ID, 2, false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrPermissionDenied.Code, errors.GetAppError(err).Code)
}
