package models

import "time"

type ServiceMenu struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Price int64  `gorm:"not null" json:"price"`

	// Stylists allowed to perform this menu. Empty set means any stylist.
	Stylists []Stylist `gorm:"many2many:menu_stylists;" json:"stylists"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllowsStylist reports whether the menu may be performed by the given
// stylist. An empty restriction set allows everyone.
func (m *ServiceMenu) AllowsStylist(stylistID uint) bool {
	if len(m.Stylists) == 0 {
		return true
	}
	for _, s := range m.Stylists {
		if s.ID == stylistID {
			return true
		}
	}
	return false
}
