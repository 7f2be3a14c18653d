package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/export"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/plan"
	"github.com/pocketsalon/salon-manager/internal/stats"
	"github.com/pocketsalon/salon-manager/internal/timezone"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewExportHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *ExportHandler {
	return &ExportHandler{db: db, config: cfg, audit: dispatcher}
}

// --------- Handlers ---------

// Customers exports the full customer list. Premium only; exports
// ignore the range parameter since customers are not dated events.
func (h *ExportHandler) Customers(c *gin.Context) {
	userID, ok := h.exportAllowed(c)
	if !ok {
		return
	}

	var customers []models.Customer
	if err := h.db.Where("user_id = ?", userID).Order("name ASC").Find(&customers).Error; err != nil {
		httperr.Internal(c, "export_failed", "failed to load customers")
		return
	}

	now := timezone.NowIn(h.config.Timezone)
	h.write(c, userID, "customers", stats.RangeAll, now,
		[]export.Sheet{export.BuildCustomerList(customers)})
}

// Records exports service records inside the named range.
func (h *ExportHandler) Records(c *gin.Context) {
	userID, ok := h.exportAllowed(c)
	if !ok {
		return
	}

	rt, start, end, ok := resolveRangeQuery(c, h.config.Timezone)
	if !ok {
		return
	}

	records, err := h.loadRecords(userID, start, end)
	if err != nil {
		httperr.Internal(c, "export_failed", "failed to load records")
		return
	}

	var customers []models.Customer
	if err := h.db.Where("user_id = ?", userID).Find(&customers).Error; err != nil {
		httperr.Internal(c, "export_failed", "failed to load customers")
		return
	}

	h.write(c, userID, "records", rt, timezone.NowIn(h.config.Timezone),
		[]export.Sheet{export.BuildRecordList(records, customers)})
}

// Revenue exports the month-by-month revenue summary.
func (h *ExportHandler) Revenue(c *gin.Context) {
	userID, ok := h.exportAllowed(c)
	if !ok {
		return
	}

	rt, start, end, ok := resolveRangeQuery(c, h.config.Timezone)
	if !ok {
		return
	}

	records, err := h.loadRecords(userID, start, end)
	if err != nil {
		httperr.Internal(c, "export_failed", "failed to load records")
		return
	}

	h.write(c, userID, "revenue", rt, timezone.NowIn(h.config.Timezone),
		[]export.Sheet{export.BuildMonthlyRevenue(records)})
}

// Stylists exports the per-stylist performance report, one summary
// sheet plus a menu breakdown.
func (h *ExportHandler) Stylists(c *gin.Context) {
	userID, ok := h.exportAllowed(c)
	if !ok {
		return
	}

	rt, start, end, ok := resolveRangeQuery(c, h.config.Timezone)
	if !ok {
		return
	}

	records, err := h.loadRecords(userID, start, end)
	if err != nil {
		httperr.Internal(c, "export_failed", "failed to load records")
		return
	}

	h.write(c, userID, "stylists", rt, timezone.NowIn(h.config.Timezone), export.BuildStylistReport(records))
}

// --------- Helpers ---------

func (h *ExportHandler) exportAllowed(c *gin.Context) (uint, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "failed to load account")
		return 0, false
	}
	if !plan.LimitsFor(plan.Parse(user.Plan)).CanExportExcel {
		httperr.Forbidden(c, "premium_required", "excel export requires the premium plan")
		return 0, false
	}
	return userID, true
}

func (h *ExportHandler) loadRecords(userID uint, start, end time.Time) ([]models.ServiceRecord, error) {
	var records []models.ServiceRecord
	err := h.db.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (h *ExportHandler) write(
	c *gin.Context,
	userID uint,
	prefix string,
	rt stats.RangeType,
	now time.Time,
	sheets []export.Sheet,
) {
	data, err := export.WriteWorkbook(sheets)
	if err != nil {
		httperr.Internal(c, "export_failed", "failed to build workbook")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: userID,
		Action: "export_" + prefix,
		Entity: "export",
	})

	filename := export.Filename(prefix, rt, now)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
