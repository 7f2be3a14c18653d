package reservation

import (
	"context"

	"github.com/pocketsalon/salon-manager/internal/audit"
	domain "github.com/pocketsalon/salon-manager/internal/domain/reservation"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/models"
)

type CreateReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateReservation {
	return &CreateReservation{
		repo:  repo,
		audit: audit,
	}
}

// Execute stores a new reservation with names denormalized from the
// referenced entities. Creation never generates a service record, even
// when the form submits status "completed"; records only appear through
// the reconciliation that runs on updates.
func (uc *CreateReservation) Execute(
	ctx context.Context,
	userID uint,
	input Input,
) (*models.Reservation, error) {

	if input.Status == "" {
		input.Status = string(domain.InitialStatus())
	}
	status, err := domain.Parse(input.Status)
	if err != nil {
		return nil, err
	}

	res := &models.Reservation{
		UserID: userID,
		Date:   input.Date,
		Time:   input.Time,
		Memo:   input.Memo,
		Status: string(status),
	}

	if err := denormalize(ctx, uc.repo, userID, input, res); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}

// denormalize captures customer/menu/stylist names onto the reservation.
// The names reflect the referents at save time only; later edits to the
// referenced entities never propagate back.
func denormalize(
	ctx context.Context,
	repo domain.Repository,
	userID uint,
	input Input,
	res *models.Reservation,
) error {

	customer, err := repo.GetCustomer(ctx, userID, input.CustomerID)
	if err != nil {
		return httperr.ErrBusiness("customer_not_found")
	}
	res.CustomerID = customer.ID
	res.CustomerName = customer.Name
	res.CustomerPhone = customer.Phone

	res.MenuID = nil
	res.MenuName = ""
	if input.MenuID != nil {
		menu, err := repo.GetMenu(ctx, userID, *input.MenuID)
		if err != nil {
			return httperr.ErrBusiness("menu_not_found")
		}
		res.MenuID = &menu.ID
		res.MenuName = menu.Name
	}

	res.StylistID = nil
	res.StylistName = ""
	if input.StylistID != nil {
		stylist, err := repo.GetStylist(ctx, userID, *input.StylistID)
		if err != nil {
			return httperr.ErrBusiness("stylist_not_found")
		}
		res.StylistID = &stylist.ID
		res.StylistName = stylist.Name
	}

	return nil
}
