// Package payment 提供预订支付记录服务
package payment

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo     *repository.PaymentRepository
	reservationRepo *repository.ReservationRepository
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	reservationRepo *repository.ReservationRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo:     paymentRepo,
		reservationRepo: reservationRepo,
	}
}

// PayRequest 支付请求
type PayRequest struct {
	Method string   `json:"method" binding:"required"`
	Amount *float64 `json:"amount"`
}

// PaymentInfo 支付记录信息
type PaymentInfo struct {
	ID            int64      `json:"id"`
	PaymentNo     string     `json:"payment_no"`
	ReservationID int64      `json:"reservation_id"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PayReservation 为预订记录一笔支付
// 仅未完结的预订可支付，金额默认为预订总价，指定金额时必须与总价一致
func (s *PaymentService) PayReservation(ctx context.Context, reservationID int64, userID int64, isAdmin bool, req *PayRequest) (*PaymentInfo, error) {
	if !models.ValidPaymentMethod(req.Method) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的支付方式")
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, errors.ErrReservationNotOwner
	}
	if reservation.IsTerminal() {
		return nil, errors.ErrReservationStatusError.WithMessage("已完结的预订不可支付")
	}

	amount := reservation.TotalAmount
	if req.Amount != nil {
		amount = utils.RoundMoney(*req.Amount)
		if amount != reservation.TotalAmount {
			return nil, errors.ErrAmountInvalid.WithMessage("支付金额与预订总价不一致")
		}
	}

	existing, err := s.paymentRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	for _, p := range existing {
		if p.Status == models.PaymentStatusPaid {
			return nil, errors.ErrPaymentExists
		}
	}

	now := time.Now()
	payment := &models.Payment{
		PaymentNo:     utils.GenerateSerialNo("PAY"),
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Amount:        amount,
		Method:        req.Method,
		Status:        models.PaymentStatusPaid,
		PaidAt:        &now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return convertPaymentInfo(payment), nil
}

// RefundReservation 退款
// 仅已取消的预订可退款，将该预订下已支付的记录标记为已退款
func (s *PaymentService) RefundReservation(ctx context.Context, reservationID int64) ([]*PaymentInfo, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if reservation.Status != models.ReservationStatusCancelled {
		return nil, errors.ErrReservationStatusError.WithMessage("仅已取消的预订可退款")
	}

	payments, err := s.paymentRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	refunded := make([]*PaymentInfo, 0, len(payments))
	for _, p := range payments {
		if p.Status != models.PaymentStatusPaid {
			continue
		}
		if err := s.paymentRepo.MarkRefunded(ctx, p.ID); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		updated, err := s.paymentRepo.GetByID(ctx, p.ID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		refunded = append(refunded, convertPaymentInfo(updated))
	}
	if len(refunded) == 0 {
		return nil, errors.ErrPaymentNotFound.WithMessage("该预订没有可退款的支付记录")
	}
	return refunded, nil
}

// GetPayment 查询支付记录（非管理员仅可查看本人记录）
func (s *PaymentService) GetPayment(ctx context.Context, id int64, userID int64, isAdmin bool) (*PaymentInfo, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && payment.UserID != userID {
		return nil, errors.ErrPermissionDenied
	}
	return convertPaymentInfo(payment), nil
}

// ListReservationPayments 查询预订下的支付记录
func (s *PaymentService) ListReservationPayments(ctx context.Context, reservationID int64, userID int64, isAdmin bool) ([]*PaymentInfo, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, errors.ErrReservationNotOwner
	}

	payments, err := s.paymentRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	result := make([]*PaymentInfo, 0, len(payments))
	for _, p := range payments {
		result = append(result, convertPaymentInfo(p))
	}
	return result, nil
}

// convertPaymentInfo 转换支付记录信息
func convertPaymentInfo(p *models.Payment) *PaymentInfo {
	return &PaymentInfo{
		ID:            p.ID,
		PaymentNo:     p.PaymentNo,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
	}
}
