package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// PaymentRepository 支付仓储
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓储
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create 创建支付记录
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateTx 在指定事务内创建支付记录
func (r *PaymentRepository) CreateTx(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByPaymentNo 根据支付单号获取支付记录
func (r *PaymentRepository) GetByPaymentNo(ctx context.Context, paymentNo string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("payment_no = ?", paymentNo).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByReservation 获取预订的支付记录
func (r *PaymentRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&payments).Error
	return payments, err
}

// MarkPaid 标记已支付
func (r *PaymentRepository) MarkPaid(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": now,
		}).Error
}

// MarkRefunded 标记已退款
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusRefunded,
			"refunded_at": now,
		}).Error
}

// SumByMethodSince 自指定时间起按支付方式统计已支付金额
func (r *PaymentRepository) SumByMethodSince(ctx context.Context, since time.Time) (map[string]float64, error) {
	var results []struct {
		Method string
		Total  float64
	}

	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) as total").
		Where("status = ?", models.PaymentStatusPaid).
		Where("paid_at >= ?", since).
		Group("method").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, row := range results {
		sums[row.Method] = row.Total
	}
	return sums, nil
}
