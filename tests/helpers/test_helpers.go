// Package helpers 提供测试辅助工具
package helpers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// RandomString 生成随机字符串
func RandomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// RandomEmail 生成随机邮箱
func RandomEmail() string {
	return fmt.Sprintf("%s@test.com", RandomString(10))
}

// RandomInt 生成随机整数
func RandomInt(min, max int) int {
	return rand.Intn(max-min+1) + min
}

// RandomFloat 生成随机浮点数
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// NewTestUser 创建测试用户
func NewTestUser() *models.User {
	return &models.User{
		Email:  RandomEmail(),
		Name:   "测试用户" + RandomString(4),
		Role:   models.RoleCustomer,
		Status: models.UserStatusActive,
	}
}

// NewTestAdmin 创建测试管理员
func NewTestAdmin() *models.User {
	return &models.User{
		Email:  RandomEmail(),
		Name:   "测试管理员" + RandomString(4),
		Role:   models.RoleAdmin,
		Status: models.UserStatusActive,
	}
}

// NewTestRoom 创建测试房间
func NewTestRoom() *models.Room {
	floor := RandomInt(1, 20)
	return &models.Room{
		RoomNo:       fmt.Sprintf("%d%02d", floor, RandomInt(1, 99)),
		Type:         models.RoomTypeStandard,
		Floor:        &floor,
		Capacity:     2,
		NightlyPrice: 300,
		Status:       models.RoomStatusAvailable,
	}
}

// NewTestAddon 创建测试附加服务
func NewTestAddon() *models.ServiceAddon {
	return &models.ServiceAddon{
		Name:   "测试服务" + RandomString(4),
		Price:  RandomFloat(10, 100),
		Status: models.ServiceStatusActive,
	}
}

// NewTestReservation 创建测试预订
func NewTestReservation(userID, roomID int64, checkIn, checkOut time.Time, status string) *models.Reservation {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return &models.Reservation{
		ReservationNo: fmt.Sprintf("RSV%s%06d", time.Now().Format("20060102150405"), rand.Intn(1000000)),
		UserID:        userID,
		RoomID:        roomID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        nights,
		GuestCount:    1,
		RoomAmount:    float64(nights) * 300,
		TotalAmount:   float64(nights) * 300,
		Status:        status,
	}
}

// NewTestPayment 创建测试支付记录
func NewTestPayment(userID, reservationID int64, amount float64, status string) *models.Payment {
	p := &models.Payment{
		PaymentNo:     fmt.Sprintf("PAY%s%06d", time.Now().Format("20060102150405"), rand.Intn(1000000)),
		ReservationID: reservationID,
		UserID:        userID,
		Amount:        amount,
		Method:        models.PaymentMethodCard,
		Status:        status,
	}
	if status == models.PaymentStatusPaid {
		now := time.Now()
		p.PaidAt = &now
	}
	return p
}
