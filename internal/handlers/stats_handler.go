package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/cache"
	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/dto"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/stats"
	"github.com/pocketsalon/salon-manager/internal/timezone"
)

// dashboardMonths is how far back the home-screen revenue chart reaches.
const dashboardMonths = 6

type StatsHandler struct {
	db     *gorm.DB
	config *config.Config
	cache  *cache.Cache
}

func NewStatsHandler(db *gorm.DB, cfg *config.Config, c *cache.Cache) *StatsHandler {
	return &StatsHandler{db: db, config: cfg, cache: c}
}

// --------- Responses ---------

type DashboardResponse struct {
	Today   []dto.ReservationListDTO `json:"today"`
	Revenue []stats.MonthBucket      `json:"revenue"`
}

// --------- Handlers ---------

// Dashboard returns today's reservations and the trailing six-month
// revenue series. The result is cached for a few minutes per operator;
// record and reservation mutations invalidate it.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	ctx := c.Request.Context()

	var cached DashboardResponse
	if h.cache.GetDashboard(ctx, userID, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	now := timezone.NowIn(h.config.Timezone)
	today := timezone.StartOfDay(now)

	var reservations []models.Reservation
	if err := h.db.
		Where("user_id = ? AND date = ?", userID, today).
		Order("time ASC").
		Find(&reservations).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "failed to load reservations")
		return
	}

	// Load from the oldest bucket's first day; stepping back from a
	// month-end date would normalize past short months.
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(dashboardMonths - 1), 0)
	var records []models.ServiceRecord
	if err := h.db.
		Where("user_id = ? AND date >= ?", userID, since).
		Find(&records).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "failed to load records")
		return
	}

	resp := DashboardResponse{
		Today:   reservationListDTOs(h.db, userID, reservations),
		Revenue: stats.MonthlyRevenue(records, dashboardMonths, now),
	}

	h.cache.SetDashboard(ctx, userID, resp)

	c.JSON(http.StatusOK, resp)
}

// Monthly returns revenue grouped by month over a named range, plus the
// per-menu and per-stylist breakdowns for the same window.
func (h *StatsHandler) Monthly(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	rt, start, end, ok := resolveRangeQuery(c, h.config.Timezone)
	if !ok {
		return
	}

	var records []models.ServiceRecord
	if err := h.db.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Find(&records).Error; err != nil {
		httperr.Internal(c, "stats_failed", "failed to load records")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"range":         rt,
		"months":        stats.GroupByMonth(records),
		"stylists":      stats.GroupByStylist(records),
		"total_revenue": stats.TotalRevenue(records),
		"total_visits":  len(records),
	})
}

