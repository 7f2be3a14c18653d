package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/pocketsalon/salon-manager/internal/domain/reservation"
	"github.com/pocketsalon/salon-manager/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	userID uint,
	reservationID uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reservationID, userID).
		First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// --------------------------------------------------
// Referenced entities
// --------------------------------------------------

func (r *ReservationGormRepository) GetCustomer(
	ctx context.Context,
	userID uint,
	customerID uint,
) (*models.Customer, error) {

	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", customerID, userID).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *ReservationGormRepository) GetMenu(
	ctx context.Context,
	userID uint,
	menuID uint,
) (*models.ServiceMenu, error) {

	var menu models.ServiceMenu
	if err := r.db.WithContext(ctx).
		Preload("Stylists").
		Where("id = ? AND user_id = ?", menuID, userID).
		First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *ReservationGormRepository) GetStylist(
	ctx context.Context,
	userID uint,
	stylistID uint,
) (*models.Stylist, error) {

	var stylist models.Stylist
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", stylistID, userID).
		First(&stylist).Error; err != nil {
		return nil, err
	}
	return &stylist, nil
}

// --------------------------------------------------
// Linked service record
// --------------------------------------------------

func (r *ReservationGormRepository) FindRecordByReservation(
	ctx context.Context,
	reservationID uint,
) (*models.ServiceRecord, error) {

	var rec models.ServiceRecord
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRecord writes the record and unconditionally overwrites the
// customer's last_visit_date with the record's date. A backfilled older
// record therefore becomes the "last visit"; long-standing behavior the
// rest of the app works around.
func (r *ReservationGormRepository) CreateRecord(
	ctx context.Context,
	rec *models.ServiceRecord,
) error {

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", rec.CustomerID).
		Update("last_visit_date", rec.Date).Error
}

func (r *ReservationGormRepository) DeleteRecord(
	ctx context.Context,
	recordID uint,
) error {
	return r.db.WithContext(ctx).
		Delete(&models.ServiceRecord{}, recordID).Error
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
