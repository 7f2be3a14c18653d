package models

import "time"

// ServiceRecord is one completed service event. Menu name and price are
// captured at creation time and never re-synced with the menu.
type ServiceRecord struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	MenuID   uint   `json:"menu_id"`
	MenuName string `gorm:"size:100;not null" json:"menu_name"`
	Price    int64  `gorm:"not null" json:"price"`

	// Date-only semantics: stored at midnight in the salon's timezone.
	Date time.Time `gorm:"index;not null" json:"date"`

	Memo string `gorm:"size:500" json:"memo"`

	// Set when the record was generated by completing a reservation.
	// Uniqueness is enforced by the reconciliation rule, not the schema.
	ReservationID *uint `gorm:"index" json:"reservation_id"`

	StylistID   *uint  `json:"stylist_id"`
	StylistName string `gorm:"size:100" json:"stylist_name"`

	Photos []RecordPhoto `gorm:"constraint:OnDelete:CASCADE;" json:"photos"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RecordPhoto struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ServiceRecordID uint   `gorm:"index;not null" json:"service_record_id"`
	URL             string `gorm:"size:500;not null" json:"url"`

	CreatedAt time.Time `json:"created_at"`
}
