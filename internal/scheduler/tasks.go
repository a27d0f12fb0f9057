// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	logger          *zap.Logger
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		db:              db,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// FinalizeDepartedReservations 完结已过退房日的预订
func (h *TaskHandler) FinalizeDepartedReservations(ctx context.Context) error {
	today := time.Now().Truncate(24 * time.Hour)

	var reservations []*models.Reservation
	err := h.db.WithContext(ctx).
		Where("status = ?", models.ReservationStatusConfirmed).
		Where("check_out <= ?", today).
		Limit(100).
		Find(&reservations).Error
	if err != nil {
		return err
	}

	if len(reservations) == 0 {
		return nil
	}

	h.logger.Info("Finalizing departed reservations", zap.Int("count", len(reservations)))

	for _, reservation := range reservations {
		if err := h.reservationRepo.Finalize(ctx, reservation.ID); err != nil {
			h.logger.Error("Failed to finalize reservation",
				zap.Int64("reservation_id", reservation.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// CancelStaleUnpaidReservations 取消长时间未支付的待确认预订
func (h *TaskHandler) CancelStaleUnpaidReservations(ctx context.Context) error {
	staleBefore := time.Now().Add(-2 * time.Hour) // 2小时未支付自动取消

	var reservations []*models.Reservation
	err := h.db.WithContext(ctx).
		Where("status = ?", models.ReservationStatusPending).
		Where("created_at < ?", staleBefore).
		Where("NOT EXISTS (SELECT 1 FROM payments WHERE payments.reservation_id = reservations.id AND payments.status = ?)",
			models.PaymentStatusPaid).
		Limit(100).
		Find(&reservations).Error
	if err != nil {
		return err
	}

	if len(reservations) == 0 {
		return nil
	}

	h.logger.Info("Cancelling stale unpaid reservations", zap.Int("count", len(reservations)))

	reason := "支付超时自动取消"
	for _, reservation := range reservations {
		if err := h.reservationRepo.Cancel(ctx, reservation.ID, &reason); err != nil {
			h.logger.Error("Failed to cancel reservation",
				zap.Int64("reservation_id", reservation.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// PurgeOldOperationLogs 清理过期的操作日志
func (h *TaskHandler) PurgeOldOperationLogs(ctx context.Context) error {
	purgeBefore := time.Now().AddDate(0, 0, -90) // 保留90天

	result := h.db.WithContext(ctx).
		Where("created_at < ?", purgeBefore).
		Delete(&models.OperationLog{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		h.logger.Info("Purged old operation logs", zap.Int64("count", result.RowsAffected))
	}

	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 每小时完结已过退房日的预订
	scheduler.AddTask("FinalizeDepartedReservations", 1*time.Hour, handler.FinalizeDepartedReservations)

	// 每5分钟取消未支付的过期预订
	scheduler.AddTask("CancelStaleUnpaidReservations", 5*time.Minute, handler.CancelStaleUnpaidReservations)

	// 每天清理过期操作日志
	scheduler.AddTask("PurgeOldOperationLogs", 24*time.Hour, handler.PurgeOldOperationLogs)
}
