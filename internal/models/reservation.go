package models

import "time"

// Reservation is a scheduled or past appointment. Customer, menu and
// stylist names are denormalized at save time; they are not re-synced
// when the referenced entity changes later.
type Reservation struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	CustomerID    uint   `gorm:"index;not null" json:"customer_id"`
	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	// Date-only; time-of-day kept separately as "15:04".
	Date time.Time `gorm:"index;not null" json:"date"`
	Time string    `gorm:"size:5;not null" json:"time"`

	MenuID   *uint  `json:"menu_id"`
	MenuName string `gorm:"size:100" json:"menu_name"`

	StylistID   *uint  `json:"stylist_id"`
	StylistName string `gorm:"size:100" json:"stylist_name"`

	Memo string `gorm:"size:500" json:"memo"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
