package handlers

import (
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

type MenuHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMenuHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *MenuHandler {
	return &MenuHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type MenuRequest struct {
	Name       string `json:"name" binding:"required"`
	Price      int64  `json:"price" binding:"required,gte=0"`
	StylistIDs []uint `json:"stylist_ids"`
}

// --------- Handlers ---------

func (h *MenuHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var menus []models.ServiceMenu
	if err := h.db.
		Preload("Stylists").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&menus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_menus"})
		return
	}

	httpresp.List(c, menus)
}

func (h *MenuHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name and non-negative price are required")
		return
	}

	stylists, err := h.loadStylists(userID, req.StylistIDs)
	if err != nil {
		httperr.BadRequest(c, "invalid_stylist", "one or more stylists do not exist")
		return
	}

	menu := models.ServiceMenu{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Stylists: stylists,
	}

	if err := h.db.Create(&menu).Error; err != nil {
		httperr.Internal(c, "create_failed", "failed to create menu")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "menu_created",
		Entity:   "menu",
		EntityID: &menu.ID,
	})

	c.JSON(http.StatusCreated, menu)
}

// Update replaces the menu fields and the stylist restriction set.
// Existing service records keep the name and price captured when they
// were created.
func (h *MenuHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid menu id")
		return
	}

	var req MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name and non-negative price are required")
		return
	}

	var menu models.ServiceMenu
	if err := h.db.Where("user_id = ?", userID).First(&menu, id).Error; err != nil {
		httperr.NotFound(c, "menu_not_found", "menu not found")
		return
	}

	stylists, err := h.loadStylists(userID, req.StylistIDs)
	if err != nil {
		httperr.BadRequest(c, "invalid_stylist", "one or more stylists do not exist")
		return
	}

	menu.Name = strings.TrimSpace(req.Name)
	menu.Price = req.Price

	if err := h.db.Save(&menu).Error; err != nil {
		httperr.Internal(c, "update_failed", "failed to update menu")
		return
	}
	if err := h.db.Model(&menu).Association("Stylists").Replace(stylists); err != nil {
		httperr.Internal(c, "update_failed", "failed to update menu stylists")
		return
	}
	menu.Stylists = stylists

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "menu_updated",
		Entity:   "menu",
		EntityID: &menu.ID,
	})

	c.JSON(http.StatusOK, menu)
}

// Delete removes the menu. Records and reservations that reference it
// keep their captured names; completing such a reservation afterwards
// silently skips record creation.
func (h *MenuHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid menu id")
		return
	}

	var menu models.ServiceMenu
	if err := h.db.Where("user_id = ?", userID).First(&menu, id).Error; err != nil {
		httperr.NotFound(c, "menu_not_found", "menu not found")
		return
	}

	if err := h.db.Select("Stylists").Delete(&menu).Error; err != nil {
		httperr.Internal(c, "delete_failed", "failed to delete menu")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "menu_deleted",
		Entity:   "menu",
		EntityID: &menu.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// loadStylists resolves the restriction set, rejecting ids that do not
// belong to the operator.
func (h *MenuHandler) loadStylists(userID uint, ids []uint) ([]models.Stylist, error) {
	if len(ids) == 0 {
		return []models.Stylist{}, nil
	}

	var stylists []models.Stylist
	if err := h.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&stylists).Error; err != nil {
		return nil, err
	}
	if len(stylists) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return stylists, nil
}
