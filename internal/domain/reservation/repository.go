package reservation

import (
	"context"

	"github.com/pocketsalon/salon-manager/internal/models"
)

type Repository interface {
	// -------- Reservation --------
	GetReservation(
		ctx context.Context,
		userID uint,
		reservationID uint,
	) (*models.Reservation, error)

	CreateReservation(
		ctx context.Context,
		res *models.Reservation,
	) error

	UpdateReservation(
		ctx context.Context,
		res *models.Reservation,
	) error

	// -------- Referenced entities --------
	GetCustomer(
		ctx context.Context,
		userID uint,
		customerID uint,
	) (*models.Customer, error)

	GetMenu(
		ctx context.Context,
		userID uint,
		menuID uint,
	) (*models.ServiceMenu, error)

	GetStylist(
		ctx context.Context,
		userID uint,
		stylistID uint,
	) (*models.Stylist, error)

	// -------- Linked service record --------
	FindRecordByReservation(
		ctx context.Context,
		reservationID uint,
	) (*models.ServiceRecord, error)

	// CreateRecord also overwrites the customer's last-visit date with
	// the record's own date, matching direct staff entry.
	CreateRecord(
		ctx context.Context,
		rec *models.ServiceRecord,
	) error

	DeleteRecord(
		ctx context.Context,
		recordID uint,
	) error
}
