// Package repository 支付仓储单元测试
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

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Reservation{}, &models.Payment{})
	require.NoError(t, err)

	return db
}

func TestPaymentRepository_Create(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payment := &models.Payment{
		PaymentNo:     "PAY001",
		ReservationID: 1,
		UserID:        1,
		Amount:        650,
		Method:        models.PaymentMethodCard,
		Status:        models.PaymentStatusPending,
	}

	err := repo.Create(ctx, payment)
	require.NoError(t, err)
	assert.NotZero(t, payment.ID)
}

func TestPaymentRepository_GetByPaymentNo(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	db.Create(&models.Payment{
		PaymentNo: "PAY123", ReservationID: 1, UserID: 1,
		Amount: 650, Method: models.PaymentMethodCash, Status: models.PaymentStatusPending,
	})

	found, err := repo.GetByPaymentNo(ctx, "PAY123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCash, found.Method)

	_, err = repo.GetByPaymentNo(ctx, "PAY999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentRepository_MarkPaid(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payment := &models.Payment{
		PaymentNo: "PAY001", ReservationID: 1, UserID: 1,
		Amount: 650, Method: models.PaymentMethodCard, Status: models.PaymentStatusPending,
	}
	db.Create(payment)

	require.NoError(t, repo.MarkPaid(ctx, payment.ID))

	var found models.Payment
	db.First(&found, payment.ID)
	assert.Equal(t, models.PaymentStatusPaid, found.Status)
	assert.NotNil(t, found.PaidAt)
}

func TestPaymentRepository_MarkRefunded(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payment := &models.Payment{
		PaymentNo: "PAY001", ReservationID: 1, UserID: 1,
		Amount: 650, Method: models.PaymentMethodCard, Status: models.PaymentStatusPaid,
	}
	db.Create(payment)

	require.NoError(t, repo.MarkRefunded(ctx, payment.ID))

	var found models.Payment
	db.First(&found, payment.ID)
	assert.Equal(t, models.PaymentStatusRefunded, found.Status)
	assert.NotNil(t, found.RefundedAt)
}

func TestPaymentRepository_ListByReservation(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	db.Create(&models.Payment{
		PaymentNo: "PAY001", ReservationID: 1, UserID: 1,
		Amount: 300, Method: models.PaymentMethodCard, Status: models.PaymentStatusPaid,
	})
	db.Create(&models.Payment{
		PaymentNo: "PAY002", ReservationID: 1, UserID: 1,
		Amount: 350, Method: models.PaymentMethodCash, Status: models.PaymentStatusPaid,
	})
	db.Create(&models.Payment{
		PaymentNo: "PAY003", ReservationID: 2, UserID: 1,
		Amount: 500, Method: models.PaymentMethodCard, Status: models.PaymentStatusPending,
	})

	list, err := repo.ListByReservation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, len(list))
}

func TestPaymentRepository_SumByMethodSince(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	now := time.Now()
	payments := []*models.Payment{
		{PaymentNo: "PAY001", ReservationID: 1, UserID: 1, Amount: 300, Method: models.PaymentMethodCard, Status: models.PaymentStatusPaid, PaidAt: &now},
		{PaymentNo: "PAY002", ReservationID: 2, UserID: 1, Amount: 200, Method: models.PaymentMethodCard, Status: models.PaymentStatusPaid, PaidAt: &now},
		{PaymentNo: "PAY003", ReservationID: 3, UserID: 1, Amount: 150, Method: models.PaymentMethodCash, Status: models.PaymentStatusPaid, PaidAt: &now},
		{PaymentNo: "PAY004", ReservationID: 4, UserID: 1, Amount: 999, Method: models.PaymentMethodCard, Status: models.PaymentStatusPending},
	}
	for _, p := range payments {
		db.Create(p)
	}

	sums, err := repo.SumByMethodSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, float64(500), sums[models.PaymentMethodCard])
	assert.Equal(t, float64(150), sums[models.PaymentMethodCash])
}
