package models

import (
	"time"
)

// Payment 支付记录模型
type Payment struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentNo     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"payment_no"`
	ReservationID int64      `gorm:"index;not null" json:"reservation_id"`
	UserID        int64      `gorm:"index;not null" json:"user_id"`
	Amount        float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        string     `gorm:"type:varchar(20);not null" json:"method"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
}

// TableName 表名
func (Payment) TableName() string {
	return "payments"
}

// PaymentMethod 支付方式
const (
	PaymentMethodCard = "card" // 银行卡
	PaymentMethodCash = "cash" // 现金
)

// PaymentStatus 支付状态
const (
	PaymentStatusPending  = "pending"  // 待支付
	PaymentStatusPaid     = "paid"     // 已支付
	PaymentStatusRefunded = "refunded" // 已退款
)

// ValidPaymentMethod 校验支付方式
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}
