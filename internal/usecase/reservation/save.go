package reservation

import (
	"context"

	"github.com/pocketsalon/salon-manager/internal/audit"
	domain "github.com/pocketsalon/salon-manager/internal/domain/reservation"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/models"
)

type SaveReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSaveReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SaveReservation {
	return &SaveReservation{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies a reservation edit and reconciles the linked service
// record. The reservation update is persisted before any record work; a
// crash in between leaves a completed reservation without a record,
// which the next completed save repairs (the ensure step is idempotent).
func (uc *SaveReservation) Execute(
	ctx context.Context,
	userID uint,
	reservationID uint,
	input Input,
) (*models.Reservation, error) {

	next, err := domain.Parse(input.Status)
	if err != nil {
		return nil, err
	}

	res, err := uc.repo.GetReservation(ctx, userID, reservationID)
	if err != nil {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}
	prev := domain.Status(res.Status)

	res.Date = input.Date
	res.Time = input.Time
	res.Memo = input.Memo
	res.Status = string(next)

	if err := denormalize(ctx, uc.repo, userID, input, res); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	if domain.ShouldDeleteRecord(prev, next) {
		if err := uc.deleteLinkedRecord(ctx, userID, res); err != nil {
			return nil, err
		}
	}

	if domain.ShouldEnsureRecord(next) && res.MenuID != nil {
		if err := uc.ensureLinkedRecord(ctx, userID, res); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "reservation_updated",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"from": prev, "to": next},
	})

	return res, nil
}

// deleteLinkedRecord removes the record generated by this reservation,
// if any. At most one is expected.
func (uc *SaveReservation) deleteLinkedRecord(
	ctx context.Context,
	userID uint,
	res *models.Reservation,
) error {

	rec, err := uc.repo.FindRecordByReservation(ctx, res.ID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	if err := uc.repo.DeleteRecord(ctx, rec.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "record_deleted",
		Entity:   "service_record",
		EntityID: &rec.ID,
		Metadata: map[string]any{"reservation_id": res.ID},
	})

	return nil
}

// ensureLinkedRecord creates the service record for a completed
// reservation unless one already exists. The price is taken from the
// menu as it stands now, not from when the reservation was made.
func (uc *SaveReservation) ensureLinkedRecord(
	ctx context.Context,
	userID uint,
	res *models.Reservation,
) error {

	existing, err := uc.repo.FindRecordByReservation(ctx, res.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	menu, err := uc.repo.GetMenu(ctx, userID, *res.MenuID)
	if err != nil {
		// Menu deleted since the reservation was made; skip the record.
		return nil
	}

	rec := &models.ServiceRecord{
		UserID:        userID,
		CustomerID:    res.CustomerID,
		MenuID:        menu.ID,
		MenuName:      res.MenuName,
		Price:         menu.Price,
		Date:          res.Date,
		Memo:          res.Memo,
		ReservationID: &res.ID,
		StylistID:     res.StylistID,
		StylistName:   res.StylistName,
	}

	if err := uc.repo.CreateRecord(ctx, rec); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "record_created",
		Entity:   "service_record",
		EntityID: &rec.ID,
		Metadata: map[string]any{"reservation_id": res.ID},
	})

	return nil
}
