package models

import "time"

type Customer struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;not null" json:"phone"`
	Memo  string `gorm:"size:500" json:"memo"`

	// Denormalized: overwritten on every service-record creation.
	LastVisitDate *time.Time `json:"last_visit_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
