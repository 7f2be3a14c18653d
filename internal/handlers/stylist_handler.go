package handlers

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/httpresp"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
)

// stylistColors is the calendar palette. A color is picked at creation
// and kept for the stylist's lifetime.
var stylistColors = []string{
	"#8b5cf6", "#ec4899", "#f59e0b", "#10b981", "#3b82f6", "#6366f1",
}

type StylistHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStylistHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *StylistHandler {
	return &StylistHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type StylistRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// --------- Handlers ---------

func (h *StylistHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var stylists []models.Stylist
	if err := h.db.Where("user_id = ?", userID).Order("name ASC").Find(&stylists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_stylists"})
		return
	}

	httpresp.List(c, stylists)
}

func (h *StylistHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req StylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name is required")
		return
	}

	stylist := models.Stylist{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Color:  stylistColors[rand.Intn(len(stylistColors))],
	}

	if err := h.db.Create(&stylist).Error; err != nil {
		httperr.Internal(c, "create_failed", "failed to create stylist")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "stylist_created",
		Entity:   "stylist",
		EntityID: &stylist.ID,
	})

	c.JSON(http.StatusCreated, stylist)
}

func (h *StylistHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid stylist id")
		return
	}

	var req StylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name is required")
		return
	}

	var stylist models.Stylist
	if err := h.db.Where("user_id = ?", userID).First(&stylist, id).Error; err != nil {
		httperr.NotFound(c, "stylist_not_found", "stylist not found")
		return
	}

	stylist.Name = strings.TrimSpace(req.Name)
	stylist.Phone = strings.TrimSpace(req.Phone)

	if err := h.db.Save(&stylist).Error; err != nil {
		httperr.Internal(c, "update_failed", "failed to update stylist")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "stylist_updated",
		Entity:   "stylist",
		EntityID: &stylist.ID,
	})

	c.JSON(http.StatusOK, stylist)
}

// Delete removes the stylist and clears the menu restriction rows that
// reference them. Records and reservations keep the captured name.
func (h *StylistHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid stylist id")
		return
	}

	var stylist models.Stylist
	if err := h.db.Where("user_id = ?", userID).First(&stylist, id).Error; err != nil {
		httperr.NotFound(c, "stylist_not_found", "stylist not found")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM menu_stylists WHERE stylist_id = ?", stylist.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&stylist).Error
	})
	if err != nil {
		httperr.Internal(c, "delete_failed", "failed to delete stylist")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "stylist_deleted",
		Entity:   "stylist",
		EntityID: &stylist.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}
