package models

import (
	"time"
)

// Room 房间模型
type Room struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomNo       string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"room_no"`
	Type         string     `gorm:"type:varchar(50);not null" json:"type"`
	Floor        *int       `json:"floor,omitempty"`
	Capacity     int        `gorm:"not null;default:2" json:"capacity"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	Images       StringList `gorm:"type:jsonb" json:"images,omitempty"`
	NightlyPrice float64    `gorm:"type:decimal(10,2);not null" json:"nightly_price"`
	Status       string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservations []Reservation `gorm:"foreignKey:RoomID" json:"reservations,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomType 房间类型
const (
	RoomTypeStandard = "standard" // 标准间
	RoomTypeBusiness = "business" // 商务间
	RoomTypeDeluxe   = "deluxe"   // 豪华间
	RoomTypeSuite    = "suite"    // 套房
)

// RoomStatus 房间状态
const (
	RoomStatusAvailable   = "available"   // 可预订
	RoomStatusMaintenance = "maintenance" // 维护中
)

// ValidRoomType 校验房间类型
func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeStandard, RoomTypeBusiness, RoomTypeDeluxe, RoomTypeSuite:
		return true
	}
	return false
}

// ValidRoomStatus 校验房间状态
func ValidRoomStatus(s string) bool {
	return s == RoomStatusAvailable || s == RoomStatusMaintenance
}

// ServiceAddon 附加服务模型（早餐、接送机等）
type ServiceAddon struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (ServiceAddon) TableName() string {
	return "service_addons"
}

// ServiceStatus 附加服务状态
const (
	ServiceStatusActive   = "active"   // 上架
	ServiceStatusInactive = "inactive" // 下架
)
