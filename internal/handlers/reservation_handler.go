package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/cache"
	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/dto"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/httpresp"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/timezone"
	reservationuc "github.com/pocketsalon/salon-manager/internal/usecase/reservation"
)

type ReservationHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
	cache  *cache.Cache
	create *reservationuc.CreateReservation
	save   *reservationuc.SaveReservation
}

func NewReservationHandler(
	db *gorm.DB,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
	c *cache.Cache,
	create *reservationuc.CreateReservation,
	save *reservationuc.SaveReservation,
) *ReservationHandler {
	return &ReservationHandler{
		db:     db,
		config: cfg,
		audit:  dispatcher,
		cache:  c,
		create: create,
		save:   save,
	}
}

// --------- Requests ---------

type ReservationRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	MenuID     *uint  `json:"menu_id"`
	StylistID  *uint  `json:"stylist_id"`
	Memo       string `json:"memo"`
	Status     string `json:"status"`
}

func (r *ReservationRequest) toInput(loc *time.Location) (reservationuc.Input, error) {
	date, err := time.ParseInLocation("2006-01-02", r.Date, loc)
	if err != nil {
		return reservationuc.Input{}, err
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return reservationuc.Input{}, err
	}

	return reservationuc.Input{
		CustomerID: r.CustomerID,
		Date:       timezone.StartOfDay(date),
		Time:       r.Time,
		MenuID:     r.MenuID,
		StylistID:  r.StylistID,
		Memo:       r.Memo,
		Status:     r.Status,
	}, nil
}

// --------- Handlers ---------

// ListByDay returns reservations for one date, ordered by time slot,
// with the stylist's calendar color attached.
func (h *ReservationHandler) ListByDay(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	loc := timezone.Location(h.config.Timezone)
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}
	day := timezone.StartOfDay(date)

	var reservations []models.Reservation
	if err := h.db.
		Where("user_id = ? AND date = ?", userID, day).
		Order("time ASC").
		Find(&reservations).Error; err != nil {
		httperr.Internal(c, "list_failed", "failed to list reservations")
		return
	}

	httpresp.List(c, reservationListDTOs(h.db, userID, reservations))
}

// ListByMonth returns all reservations inside one calendar month for
// the calendar grid.
func (h *ReservationHandler) ListByMonth(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	loc := timezone.Location(h.config.Timezone)
	month, err := time.ParseInLocation("2006-01", c.Query("month"), loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "month must be YYYY-MM")
		return
	}
	start := month
	end := month.AddDate(0, 1, 0)

	var reservations []models.Reservation
	if err := h.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC, time ASC").
		Find(&reservations).Error; err != nil {
		httperr.Internal(c, "list_failed", "failed to list reservations")
		return
	}

	httpresp.List(c, reservationListDTOs(h.db, userID, reservations))
}

func (h *ReservationHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "customer_id, date and time are required")
		return
	}

	input, err := req.toInput(timezone.Location(h.config.Timezone))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD and time HH:MM")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), userID, input)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	h.cache.InvalidateDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusCreated, res)
}

// Update runs the reconciliation: completing a reservation materializes
// a service record, un-completing to cancelled removes it.
func (h *ReservationHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid reservation id")
		return
	}

	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "customer_id, date and time are required")
		return
	}

	input, err := req.toInput(timezone.Location(h.config.Timezone))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD and time HH:MM")
		return
	}

	res, err := h.save.Execute(c.Request.Context(), userID, uint(id), input)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	h.cache.InvalidateDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusOK, res)
}

// Delete removes the reservation only. A service record created by a
// past completion stays.
func (h *ReservationHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid reservation id")
		return
	}

	var res models.Reservation
	if err := h.db.Where("user_id = ?", userID).First(&res, id).Error; err != nil {
		httperr.NotFound(c, "reservation_not_found", "reservation not found")
		return
	}

	if err := h.db.Delete(&res).Error; err != nil {
		httperr.Internal(c, "delete_failed", "failed to delete reservation")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "reservation_deleted",
		Entity:   "reservation",
		EntityID: &res.ID,
	})
	h.cache.InvalidateDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------- Helpers ---------

// reservationListDTOs attaches the stylists' current calendar colors.
func reservationListDTOs(db *gorm.DB, userID uint, reservations []models.Reservation) []dto.ReservationListDTO {
	colors := map[uint]string{}
	var stylists []models.Stylist
	if err := db.Where("user_id = ?", userID).Find(&stylists).Error; err == nil {
		for _, s := range stylists {
			colors[s.ID] = s.Color
		}
	}

	out := make([]dto.ReservationListDTO, 0, len(reservations))
	for _, r := range reservations {
		d := dto.ReservationListDTO{
			ID:            r.ID,
			Date:          r.Date,
			Time:          r.Time,
			Status:        r.Status,
			CustomerID:    r.CustomerID,
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			MenuName:      r.MenuName,
			StylistName:   r.StylistName,
		}
		if r.StylistID != nil {
			d.StylistColor = colors[*r.StylistID]
		}
		out = append(out, d)
	}
	return out
}

// writeBusiness maps a usecase error to an HTTP response. Business
// errors carry their machine code; anything else is a 500.
func writeBusiness(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		status := http.StatusBadRequest
		switch be.Code {
		case "reservation_not_found", "customer_not_found", "menu_not_found", "stylist_not_found":
			status = http.StatusNotFound
		}
		httperr.Write(c, status, be.Code, be.Code)
		return
	}
	httperr.Internal(c, "internal_error", "unexpected error")
}
