package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/cache"
	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/httpresp"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/plan"
	"github.com/pocketsalon/salon-manager/internal/storage"
	"github.com/pocketsalon/salon-manager/internal/timezone"
)

// maxPhotoUploadBytes caps the raw upload before re-encoding.
const maxPhotoUploadBytes = 5 << 20

type RecordHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
	cache  *cache.Cache
	photos *storage.PhotoStore
}

func NewRecordHandler(
	db *gorm.DB,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
	c *cache.Cache,
	photos *storage.PhotoStore,
) *RecordHandler {
	return &RecordHandler{db: db, config: cfg, audit: dispatcher, cache: c, photos: photos}
}

// --------- Requests ---------

type RecordCreateRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	MenuID     uint   `json:"menu_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Memo       string `json:"memo"`
	StylistID  *uint  `json:"stylist_id"`
}

type RecordUpdateRequest struct {
	Date      string `json:"date" binding:"required"`
	Memo      string `json:"memo"`
	StylistID *uint  `json:"stylist_id"`
}

// --------- Handlers ---------

// List returns service records, optionally scoped to one customer and a
// named date range.
func (h *RecordHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	query := h.db.Preload("Photos").Where("user_id = ?", userID)

	if cid := c.Query("customer_id"); cid != "" {
		id, err := strconv.ParseUint(cid, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_customer_id", "invalid customer id")
			return
		}
		query = query.Where("customer_id = ?", id)
	}

	if c.Query("range") != "" {
		_, start, end, ok := resolveRangeQuery(c, h.config.Timezone)
		if !ok {
			return
		}
		query = query.Where("date BETWEEN ? AND ?", start, end)
	}

	var records []models.ServiceRecord
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		httperr.Internal(c, "list_failed", "failed to list records")
		return
	}

	httpresp.List(c, records)
}

// Create stores a manual service record. The menu's current name and
// price are captured onto the record, and the customer's last visit date
// is overwritten with the record date regardless of which is later.
func (h *RecordHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req RecordCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "customer_id, menu_id and date are required")
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	var customer models.Customer
	if err := h.db.Where("user_id = ?", userID).First(&customer, req.CustomerID).Error; err != nil {
		httperr.NotFound(c, "customer_not_found", "customer not found")
		return
	}

	var menu models.ServiceMenu
	if err := h.db.Where("user_id = ?", userID).First(&menu, req.MenuID).Error; err != nil {
		httperr.NotFound(c, "menu_not_found", "menu not found")
		return
	}

	record := models.ServiceRecord{
		UserID:     userID,
		CustomerID: customer.ID,
		MenuID:     menu.ID,
		MenuName:   menu.Name,
		Price:      menu.Price,
		Date:       date,
		Memo:       req.Memo,
	}

	if req.StylistID != nil {
		var stylist models.Stylist
		if err := h.db.Where("user_id = ?", userID).First(&stylist, *req.StylistID).Error; err != nil {
			httperr.NotFound(c, "stylist_not_found", "stylist not found")
			return
		}
		record.StylistID = &stylist.ID
		record.StylistName = stylist.Name
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("last_visit_date", record.Date).Error
	})
	if err != nil {
		httperr.Internal(c, "create_failed", "failed to create record")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "record_created",
		Entity:   "service_record",
		EntityID: &record.ID,
	})
	h.cache.InvalidateDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusCreated, record)
}

// Update edits date, memo and stylist. Menu name and price stay as
// captured; the customer's last visit date is not recomputed.
func (h *RecordHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	record, ok := h.findRecord(c, userID)
	if !ok {
		return
	}

	var req RecordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "date is required")
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	record.Date = date
	record.Memo = req.Memo
	record.StylistID = nil
	record.StylistName = ""

	if req.StylistID != nil {
		var stylist models.Stylist
		if err := h.db.Where("user_id = ?", userID).First(&stylist, *req.StylistID).Error; err != nil {
			httperr.NotFound(c, "stylist_not_found", "stylist not found")
			return
		}
		record.StylistID = &stylist.ID
		record.StylistName = stylist.Name
	}

	if err := h.db.Save(record).Error; err != nil {
		httperr.Internal(c, "update_failed", "failed to update record")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "record_updated",
		Entity:   "service_record",
		EntityID: &record.ID,
	})
	h.cache.InvalidateDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusOK, record)
}

// Delete removes the record and its photo rows. The customer's last
// visit date is left as is.
func (h *RecordHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	record, ok := h.findRecord(c, userID)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_record_id = ?", record.ID).Delete(&models.RecordPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(record).Error
	})
	if err != nil {
		httperr.Internal(c, "delete_failed", "failed to delete record")
		return
	}

	for _, p := range record.Photos {
		if err := h.photos.DeleteByURL(c.Request.Context(), p.URL); err != nil {
			// Blob cleanup is best effort; the row is already gone.
			continue
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "record_deleted",
		Entity:   "service_record",
		EntityID: &record.ID,
	})
	h.cache.InvalidateDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadPhoto attaches a photo to a record. Premium only. The image is
// re-encoded to WebP and downscaled before storage.
func (h *RecordHandler) UploadPhoto(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if !h.premiumPhotoAllowed(c, userID) {
		return
	}

	record, ok := h.findRecord(c, userID)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "photo file is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoUploadBytes {
		httperr.BadRequest(c, "file_too_large", "photo must be 5MB or smaller")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes+1))
	if err != nil || len(raw) > maxPhotoUploadBytes {
		httperr.BadRequest(c, "file_too_large", "photo must be 5MB or smaller")
		return
	}

	encoded, err := storage.EncodePhoto(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "photo must be a JPEG or PNG image")
		return
	}

	url, err := h.photos.Upload(c.Request.Context(), userID, record.CustomerID, encoded)
	if err != nil {
		httperr.Internal(c, "upload_failed", "failed to store photo")
		return
	}

	photo := models.RecordPhoto{
		ServiceRecordID: record.ID,
		URL:             url,
	}
	if err := h.db.Create(&photo).Error; err != nil {
		httperr.Internal(c, "upload_failed", "failed to save photo")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "photo_uploaded",
		Entity:   "service_record",
		EntityID: &record.ID,
	})

	c.JSON(http.StatusCreated, photo)
}

func (h *RecordHandler) DeletePhoto(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	record, ok := h.findRecord(c, userID)
	if !ok {
		return
	}

	photoID, err := strconv.ParseUint(c.Param("photoId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid photo id")
		return
	}

	var photo models.RecordPhoto
	if err := h.db.Where("service_record_id = ?", record.ID).First(&photo, photoID).Error; err != nil {
		httperr.NotFound(c, "photo_not_found", "photo not found")
		return
	}

	if err := h.db.Delete(&photo).Error; err != nil {
		httperr.Internal(c, "delete_failed", "failed to delete photo")
		return
	}

	// Blob cleanup is best effort.
	_ = h.photos.DeleteByURL(c.Request.Context(), photo.URL)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------- Helpers ---------

func (h *RecordHandler) parseDate(s string) (time.Time, error) {
	loc := timezone.Location(h.config.Timezone)
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return timezone.StartOfDay(t), nil
}

func (h *RecordHandler) findRecord(c *gin.Context, userID uint) (*models.ServiceRecord, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid record id")
		return nil, false
	}

	var record models.ServiceRecord
	if err := h.db.Preload("Photos").Where("user_id = ?", userID).First(&record, id).Error; err != nil {
		httperr.NotFound(c, "record_not_found", "record not found")
		return nil, false
	}
	return &record, true
}

func (h *RecordHandler) premiumPhotoAllowed(c *gin.Context, userID uint) bool {
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "failed to load account")
		return false
	}
	if !plan.LimitsFor(plan.Parse(user.Plan)).CanUploadPhoto {
		httperr.Forbidden(c, "premium_required", "photo upload requires the premium plan")
		return false
	}
	return true
}
