package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/models"
	uc "github.com/pocketsalon/salon-manager/internal/usecase/reservation"
)

// =============================================================================
// FAKE REPOSITORY
// =============================================================================

type fakeRepo struct {
	reservations map[uint]models.Reservation
	customers    map[uint]models.Customer
	menus        map[uint]models.ServiceMenu
	stylists     map[uint]models.Stylist
	records      map[uint]models.ServiceRecord
	nextRecordID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reservations: map[uint]models.Reservation{},
		customers:    map[uint]models.Customer{},
		menus:        map[uint]models.ServiceMenu{},
		stylists:     map[uint]models.Stylist{},
		records:      map[uint]models.ServiceRecord{},
		nextRecordID: 1,
	}
}

func (f *fakeRepo) GetReservation(_ context.Context, userID, id uint) (*models.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok || res.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := res
	return &copy, nil
}

func (f *fakeRepo) CreateReservation(_ context.Context, res *models.Reservation) error {
	if res.ID == 0 {
		res.ID = uint(len(f.reservations) + 1)
	}
	f.reservations[res.ID] = *res
	return nil
}

func (f *fakeRepo) UpdateReservation(_ context.Context, res *models.Reservation) error {
	f.reservations[res.ID] = *res
	return nil
}

func (f *fakeRepo) GetCustomer(_ context.Context, userID, id uint) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := c
	return &copy, nil
}

func (f *fakeRepo) GetMenu(_ context.Context, userID, id uint) (*models.ServiceMenu, error) {
	m, ok := f.menus[id]
	if !ok || m.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := m
	return &copy, nil
}

func (f *fakeRepo) GetStylist(_ context.Context, userID, id uint) (*models.Stylist, error) {
	s, ok := f.stylists[id]
	if !ok || s.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := s
	return &copy, nil
}

func (f *fakeRepo) FindRecordByReservation(_ context.Context, reservationID uint) (*models.ServiceRecord, error) {
	for _, rec := range f.records {
		if rec.ReservationID != nil && *rec.ReservationID == reservationID {
			copy := rec
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateRecord(_ context.Context, rec *models.ServiceRecord) error {
	rec.ID = f.nextRecordID
	f.nextRecordID++
	f.records[rec.ID] = *rec

	// Mirrors the gorm repository: last visit is overwritten wholesale.
	if c, ok := f.customers[rec.CustomerID]; ok {
		d := rec.Date
		c.LastVisitDate = &d
		f.customers[rec.CustomerID] = c
	}
	return nil
}

func (f *fakeRepo) DeleteRecord(_ context.Context, recordID uint) error {
	delete(f.records, recordID)
	return nil
}

func (f *fakeRepo) recordsForReservation(reservationID uint) []models.ServiceRecord {
	var out []models.ServiceRecord
	for _, rec := range f.records {
		if rec.ReservationID != nil && *rec.ReservationID == reservationID {
			out = append(out, rec)
		}
	}
	return out
}

// =============================================================================
// TEST HELPERS
// =============================================================================

const testUserID = uint(7)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint { return &v }

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.customers[1] = models.Customer{ID: 1, UserID: testUserID, Name: "Yuna Kim", Phone: "010-1234-5678"}
	repo.menus[10] = models.ServiceMenu{ID: 10, UserID: testUserID, Name: "Perm", Price: 120000}
	repo.stylists[3] = models.Stylist{ID: 3, UserID: testUserID, Name: "Mina", Color: "#8b5cf6"}
	repo.reservations[100] = models.Reservation{
		ID: 100, UserID: testUserID,
		CustomerID: 1, CustomerName: "Yuna Kim", CustomerPhone: "010-1234-5678",
		Date: date(2026, time.April, 2), Time: "14:30",
		MenuID: uintPtr(10), MenuName: "Perm",
		StylistID: uintPtr(3), StylistName: "Mina",
		Status: "scheduled",
	}
	return repo
}

func newSaveUsecase(repo *fakeRepo) *uc.SaveReservation {
	// Audit sink backed by nil db is fine: dispatch drops into a
	// buffered channel and the tests never drain it synchronously.
	return uc.NewSaveReservation(repo, audit.NewDispatcher(audit.New(nil)))
}

func baseInput(status string) uc.Input {
	return uc.Input{
		CustomerID: 1,
		Date:       date(2026, time.April, 2),
		Time:       "14:30",
		MenuID:     uintPtr(10),
		StylistID:  uintPtr(3),
		Memo:       "root touch-up",
		Status:     status,
	}
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestComplete_CreatesExactlyOneLinkedRecord(t *testing.T) {
	repo := seededRepo()
	save := newSaveUsecase(repo)

	_, err := save.Execute(context.Background(), testUserID, 100, baseInput("completed"))
	require.NoError(t, err)

	records := repo.recordsForReservation(100)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, uint(1), rec.CustomerID)
	assert.Equal(t, uint(10), rec.MenuID)
	assert.Equal(t, "Perm", rec.MenuName)
	assert.Equal(t, int64(120000), rec.Price)
	assert.Equal(t, date(2026, time.April, 2), rec.Date)
	assert.Equal(t, "root touch-up", rec.Memo)
	require.NotNil(t, rec.StylistID)
	assert.Equal(t, uint(3), *rec.StylistID)
	assert.Equal(t, "Mina", rec.StylistName)
}

func TestComplete_IsIdempotent(t *testing.T) {
	// Saving the same reservation as completed twice must not duplicate
	// the record.
	repo := seededRepo()
	save := newSaveUsecase(repo)
	ctx := context.Background()

	_, err := save.Execute(ctx, testUserID, 100, baseInput("completed"))
	require.NoError(t, err)
	_, err = save.Execute(ctx, testUserID, 100, baseInput("completed"))
	require.NoError(t, err)

	assert.Len(t, repo.recordsForReservation(100), 1)
}

func TestCompleteThenCancel_RemovesRecord(t *testing.T) {
	repo := seededRepo()
	save := newSaveUsecase(repo)
	ctx := context.Background()

	_, err := save.Execute(ctx, testUserID, 100, baseInput("completed"))
	require.NoError(t, err)
	_, err = save.Execute(ctx, testUserID, 100, baseInput("cancelled"))
	require.NoError(t, err)

	assert.Empty(t, repo.recordsForReservation(100))
	assert.Equal(t, "cancelled", repo.reservations[100].Status)
}

func TestCompleteThenReschedule_KeepsRecord(t *testing.T) {
	// Editing a completed reservation back to scheduled is allowed by
	// the form, and the generated record stays; only the cancelled edge
	// deletes it.
	repo := seededRepo()
	save := newSaveUsecase(repo)
	ctx := context.Background()

	_, err := save.Execute(ctx, testUserID, 100, baseInput("completed"))
	require.NoError(t, err)
	_, err = save.Execute(ctx, testUserID, 100, baseInput("scheduled"))
	require.NoError(t, err)

	assert.Len(t, repo.recordsForReservation(100), 1)
}

func TestComplete_WithoutMenuCreatesNothing(t *testing.T) {
	repo := seededRepo()
	save := newSaveUsecase(repo)

	input := baseInput("completed")
	input.MenuID = nil

	_, err := save.Execute(context.Background(), testUserID, 100, input)
	require.NoError(t, err)

	assert.Empty(t, repo.recordsForReservation(100))
}

func TestComplete_CapturesCurrentMenuPrice(t *testing.T) {
	// The menu price changed after the reservation was booked; the
	// record takes the price as of completion.
	repo := seededRepo()
	menu := repo.menus[10]
	menu.Price = 150000
	repo.menus[10] = menu

	save := newSaveUsecase(repo)
	_, err := save.Execute(context.Background(), testUserID, 100, baseInput("completed"))
	require.NoError(t, err)

	records := repo.recordsForReservation(100)
	require.Len(t, records, 1)
	assert.Equal(t, int64(150000), records[0].Price)
}

func TestComplete_OverwritesLastVisitDate(t *testing.T) {
	// The customer already has a later visit on file; completing an
	// older reservation still overwrites last_visit_date with the
	// older date. Reproduces the known backfill quirk.
	repo := seededRepo()
	later := date(2026, time.May, 20)
	customer := repo.customers[1]
	customer.LastVisitDate = &later
	repo.customers[1] = customer

	save := newSaveUsecase(repo)
	_, err := save.Execute(context.Background(), testUserID, 100, baseInput("completed"))
	require.NoError(t, err)

	got := repo.customers[1].LastVisitDate
	require.NotNil(t, got)
	assert.Equal(t, date(2026, time.April, 2), *got)
}

func TestCancel_WithoutRecordIsNoop(t *testing.T) {
	repo := seededRepo()
	save := newSaveUsecase(repo)

	_, err := save.Execute(context.Background(), testUserID, 100, baseInput("cancelled"))
	require.NoError(t, err)

	assert.Empty(t, repo.recordsForReservation(100))
	assert.Equal(t, "cancelled", repo.reservations[100].Status)
}

func TestSave_RejectsUnknownStatus(t *testing.T) {
	repo := seededRepo()
	save := newSaveUsecase(repo)

	_, err := save.Execute(context.Background(), testUserID, 100, baseInput("done"))
	require.Error(t, err)
}

func TestSave_UnknownReservation(t *testing.T) {
	repo := seededRepo()
	save := newSaveUsecase(repo)

	_, err := save.Execute(context.Background(), testUserID, 999, baseInput("completed"))
	require.Error(t, err)
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreate_DenormalizesNamesAndNeverCreatesRecords(t *testing.T) {
	repo := seededRepo()
	create := uc.NewCreateReservation(repo, audit.NewDispatcher(audit.New(nil)))

	input := baseInput("completed")
	res, err := create.Execute(context.Background(), testUserID, input)
	require.NoError(t, err)

	assert.Equal(t, "Yuna Kim", res.CustomerName)
	assert.Equal(t, "010-1234-5678", res.CustomerPhone)
	assert.Equal(t, "Perm", res.MenuName)
	assert.Equal(t, "Mina", res.StylistName)

	// Even a reservation created directly as completed produces no
	// record; reconciliation only runs on updates.
	assert.Empty(t, repo.recordsForReservation(res.ID))
}

func TestCreate_EmptyStatusDefaultsToScheduled(t *testing.T) {
	repo := seededRepo()
	create := uc.NewCreateReservation(repo, audit.NewDispatcher(audit.New(nil)))

	res, err := create.Execute(context.Background(), testUserID, baseInput(""))
	require.NoError(t, err)

	assert.Equal(t, "scheduled", res.Status)
}
