package models

import (
	"time"
)

// Reservation 预订模型
type Reservation struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"reservation_no"`
	UserID        int64      `gorm:"index;not null" json:"user_id"`
	RoomID        int64      `gorm:"index;not null" json:"room_id"`
	CheckIn       time.Time  `gorm:"type:date;not null;index" json:"check_in"`
	CheckOut      time.Time  `gorm:"type:date;not null" json:"check_out"`
	Nights        int        `gorm:"not null" json:"nights"`
	GuestCount    int        `gorm:"not null;default:1" json:"guest_count"`
	RoomAmount    float64    `gorm:"type:decimal(10,2);not null" json:"room_amount"`
	ServiceAmount float64    `gorm:"type:decimal(10,2);not null;default:0" json:"service_amount"`
	TotalAmount   float64    `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Remark        *string    `gorm:"type:varchar(255)" json:"remark,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CancelReason  *string    `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User     *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Room     *Room             `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Items    []ReservationItem `gorm:"foreignKey:ReservationID" json:"items,omitempty"`
	Payments []Payment         `gorm:"foreignKey:ReservationID" json:"payments,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
const (
	ReservationStatusPending   = "pending"   // 待确认
	ReservationStatusConfirmed = "confirmed" // 已确认
	ReservationStatusFinalized = "finalized" // 已完成
	ReservationStatusCancelled = "cancelled" // 已取消
)

// ActiveReservationStatuses 进行中的状态（用户占用统计、房间删除保护）
var ActiveReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

// BlockingReservationStatuses 占用房间日期的状态（参与冲突检测）
// 除已取消外均占用日期：已完成的预订其日期区间同样不可再被预订
var BlockingReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusFinalized,
}

// IsTerminal 是否终态（终态预订不可再变更）
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusFinalized || r.Status == ReservationStatusCancelled
}

// CanCancel 是否可取消
func (r *Reservation) CanCancel() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// ValidReservationStatus 校验预订状态
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusFinalized, ReservationStatusCancelled:
		return true
	}
	return false
}

// ReservationItem 预订附加服务明细（价格为下单时快照）
type ReservationItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64     `gorm:"index;not null" json:"reservation_id"`
	ServiceID     int64     `gorm:"not null" json:"service_id"`
	ServiceName   string    `gorm:"type:varchar(100);not null" json:"service_name"`
	UnitPrice     float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Service *ServiceAddon `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

// TableName 表名
func (ReservationItem) TableName() string {
	return "reservation_items"
}
