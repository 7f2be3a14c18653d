package dto

import "time"

type ReservationListDTO struct {
	ID            uint      `json:"id"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	CustomerID    uint      `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	MenuName      string    `json:"menu_name"`
	StylistName   string    `json:"stylist_name"`
	StylistColor  string    `json:"stylist_color"`
}
