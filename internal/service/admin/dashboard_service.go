// Package admin 管理端服务
package admin

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hotelflamingo/reservation-backend/internal/common/cache"
	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/logger"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// DashboardService 管理端仪表盘服务
type DashboardService struct {
	userRepo        *repository.UserRepository
	roomRepo        *repository.RoomRepository
	reservationRepo *repository.ReservationRepository
	paymentRepo     *repository.PaymentRepository
	rdb             *redis.Client
}

// NewDashboardService 创建仪表盘服务，rdb 为空时不启用缓存
func NewDashboardService(
	userRepo *repository.UserRepository,
	roomRepo *repository.RoomRepository,
	reservationRepo *repository.ReservationRepository,
	paymentRepo *repository.PaymentRepository,
	rdb *redis.Client,
) *DashboardService {
	return &DashboardService{
		userRepo:        userRepo,
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		rdb:             rdb,
	}
}

// overviewCacheTTL 概览数据缓存时长
const overviewCacheTTL = time.Minute

// Overview 运营概览数据
type Overview struct {
	// 房态统计
	TotalRooms       int64 `json:"total_rooms"`
	AvailableRooms   int64 `json:"available_rooms"`
	MaintenanceRooms int64 `json:"maintenance_rooms"`

	// 预订统计
	TotalReservations     int64 `json:"total_reservations"`
	PendingReservations   int64 `json:"pending_reservations"`
	ConfirmedReservations int64 `json:"confirmed_reservations"`
	TodayCheckIns         int64 `json:"today_check_ins"`
	TodayCheckOuts        int64 `json:"today_check_outs"`

	// 顾客统计
	TotalCustomers int64 `json:"total_customers"`

	// 营收统计（已完成预订）
	MonthRevenue float64 `json:"month_revenue"`

	// 本月收款方式分布
	MonthPaymentsByMethod map[string]float64 `json:"month_payments_by_method"`

	GeneratedAt time.Time `json:"generated_at"`
}

func (o *Overview) marshal() ([]byte, error) {
	return json.Marshal(o)
}

func (o *Overview) unmarshal(data []byte) error {
	return json.Unmarshal(data, o)
}

// GetOverview 获取运营概览
func (s *DashboardService) GetOverview(ctx context.Context) (*Overview, error) {
	cacheKey := cache.BuildKey(cache.KeyPrefixDashboard, "overview")
	if s.rdb != nil {
		var cached Overview
		data, err := s.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			if err := cached.unmarshal(data); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Warn("read dashboard cache failed", logger.Err(err))
		}
	}

	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := overview.marshal(); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, overviewCacheTTL).Err(); err != nil {
				logger.Warn("write dashboard cache failed", logger.Err(err))
			}
		}
	}
	return overview, nil
}

func (s *DashboardService) buildOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{GeneratedAt: time.Now()}

	var err error
	if overview.TotalRooms, err = s.roomRepo.Count(ctx); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.AvailableRooms, err = s.roomRepo.CountByStatus(ctx, models.RoomStatusAvailable); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.MaintenanceRooms, err = s.roomRepo.CountByStatus(ctx, models.RoomStatusMaintenance); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	stats, err := s.reservationRepo.GetStatusStats(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	for status, count := range stats {
		overview.TotalReservations += count
		switch status {
		case models.ReservationStatusPending:
			overview.PendingReservations = count
		case models.ReservationStatusConfirmed:
			overview.ConfirmedReservations = count
		}
	}

	today := utils.TruncateToDay(time.Now())
	if overview.TodayCheckIns, err = s.reservationRepo.CountCheckInsOn(ctx, today); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.TodayCheckOuts, err = s.reservationRepo.CountCheckOutsOn(ctx, today); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if overview.TotalCustomers, err = s.userRepo.CountByRole(ctx, models.RoleCustomer); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	if overview.MonthRevenue, err = s.reservationRepo.SumRevenueSince(ctx, monthStart); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.MonthPaymentsByMethod, err = s.paymentRepo.SumByMethodSince(ctx, monthStart); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return overview, nil
}
