// Package reservation 提供预订服务
package reservation

import (
	"context"
	"math"
	"time"

	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// Quote 预订报价
type Quote struct {
	Nights        int
	RoomAmount    float64
	ServiceAmount float64
	TotalAmount   float64
	Items         []models.ReservationItem
}

// ItemRequest 附加服务请求项
type ItemRequest struct {
	ServiceID int64 `json:"service_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CalcNights 计算住宿晚数（不足一晚按一晚计）
func CalcNights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

// computeQuote 计算预订总价：房费按晚数计，附加服务按下单时单价快照计
func (s *ReservationService) computeQuote(ctx context.Context, room *models.Room, checkIn, checkOut time.Time, items []ItemRequest) (*Quote, error) {
	nights := CalcNights(checkIn, checkOut)
	if nights <= 0 {
		return nil, errors.ErrDateRangeInvalid
	}

	quote := &Quote{
		Nights:     nights,
		RoomAmount: utils.RoundMoney(room.NightlyPrice * float64(nights)),
	}

	if len(items) == 0 {
		quote.TotalAmount = quote.RoomAmount
		return quote, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 || item.Quantity > s.cfg.MaxAddonQuantity {
			return nil, errors.ErrInvalidParams.WithMessage("附加服务数量超出限制")
		}
		ids = append(ids, item.ServiceID)
	}

	services, err := s.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	byID := make(map[int64]*models.ServiceAddon, len(services))
	for _, service := range services {
		byID[service.ID] = service
	}

	for _, item := range items {
		service, ok := byID[item.ServiceID]
		if !ok {
			return nil, errors.ErrServiceNotFound
		}
		if service.Status != models.ServiceStatusActive {
			return nil, errors.ErrServiceNotFound.WithMessage("附加服务已下架")
		}
		amount := utils.RoundMoney(service.Price * float64(item.Quantity))
		quote.ServiceAmount = utils.RoundMoney(quote.ServiceAmount + amount)
		quote.Items = append(quote.Items, models.ReservationItem{
			ServiceID:   service.ID,
			ServiceName: service.Name,
			UnitPrice:   service.Price,
			Quantity:    item.Quantity,
			Amount:      amount,
		})
	}

	quote.TotalAmount = utils.RoundMoney(quote.RoomAmount + quote.ServiceAmount)
	return quote, nil
}
