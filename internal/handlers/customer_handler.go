package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/httpresp"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/plan"
	"github.com/pocketsalon/salon-manager/internal/stats"
	"github.com/pocketsalon/salon-manager/internal/timezone"
)

type CustomerHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewCustomerHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{db: db, config: cfg, audit: dispatcher}
}

// --------- Requests ---------

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Memo  string `json:"memo"`
}

// --------- Handlers ---------

// List returns the operator's customers with derived visit stats. An
// optional ?q= substring-matches name or phone; ?regular=true keeps only
// customers with three or more visits.
func (h *CustomerHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var customers []models.Customer
	query := h.db.Where("user_id = ?", userID)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_customers"})
		return
	}

	var records []models.ServiceRecord
	if err := h.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_load_records"})
		return
	}

	now := timezone.NowIn(h.config.Timezone)
	regularOnly := c.Query("regular") == "true"

	type customerWithStats struct {
		models.Customer
		Stats   stats.CustomerStats `json:"stats"`
		Message string              `json:"message"`
	}

	out := make([]customerWithStats, 0, len(customers))
	for _, cust := range customers {
		s := stats.Compute(records, cust.ID, now)
		if regularOnly && !s.IsRegular {
			continue
		}
		out = append(out, customerWithStats{
			Customer: cust,
			Stats:    s,
			Message:  stats.VisitMessage(s),
		})
	}

	httpresp.List(c, out)
}

// Create registers a customer after checking the plan limit against the
// current count. The count and the insert are not atomic; a concurrent
// pair of creates can land one past the free cap.
func (h *CustomerHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name and phone are required")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "failed to load account")
		return
	}

	var count int64
	if err := h.db.Model(&models.Customer{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		httperr.Internal(c, "count_failed", "failed to count customers")
		return
	}

	limits := plan.LimitsFor(plan.Parse(user.Plan))
	if !limits.AllowsCustomerCount(int(count)) {
		httperr.Forbidden(c, "customer_limit_reached",
			"free plan allows up to "+strconv.Itoa(limits.MaxCustomers)+" customers")
		return
	}

	customer := models.Customer{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Memo:   req.Memo,
	}

	if err := h.db.Create(&customer).Error; err != nil {
		httperr.Internal(c, "create_failed", "failed to create customer")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "customer_created",
		Entity:   "customer",
		EntityID: &customer.ID,
	})

	c.JSON(http.StatusCreated, customer)
}

// Get returns one customer with full visit history and derived stats.
func (h *CustomerHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid customer id")
		return
	}

	var customer models.Customer
	if err := h.db.Where("user_id = ?", userID).First(&customer, id).Error; err != nil {
		httperr.NotFound(c, "customer_not_found", "customer not found")
		return
	}

	var records []models.ServiceRecord
	if err := h.db.
		Preload("Photos").
		Where("user_id = ? AND customer_id = ?", userID, customer.ID).
		Order("date DESC").
		Find(&records).Error; err != nil {
		httperr.Internal(c, "records_failed", "failed to load service records")
		return
	}

	now := timezone.NowIn(h.config.Timezone)
	s := stats.Compute(records, customer.ID, now)

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
		"records":  records,
		"stats":    s,
		"message":  stats.VisitMessage(s),
	})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid customer id")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name and phone are required")
		return
	}

	var customer models.Customer
	if err := h.db.Where("user_id = ?", userID).First(&customer, id).Error; err != nil {
		httperr.NotFound(c, "customer_not_found", "customer not found")
		return
	}

	customer.Name = strings.TrimSpace(req.Name)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Memo = req.Memo

	if err := h.db.Save(&customer).Error; err != nil {
		httperr.Internal(c, "update_failed", "failed to update customer")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "customer_updated",
		Entity:   "customer",
		EntityID: &customer.ID,
	})

	c.JSON(http.StatusOK, customer)
}

// Delete removes the customer together with their service records and
// reservations. Photos stay in blob storage.
func (h *CustomerHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid customer id")
		return
	}

	var customer models.Customer
	if err := h.db.Where("user_id = ?", userID).First(&customer, id).Error; err != nil {
		httperr.NotFound(c, "customer_not_found", "customer not found")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_record_id IN (?)",
				tx.Model(&models.ServiceRecord{}).Select("id").
					Where("user_id = ? AND customer_id = ?", userID, customer.ID),
			).
			Delete(&models.RecordPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND customer_id = ?", userID, customer.ID).
			Delete(&models.ServiceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND customer_id = ?", userID, customer.ID).
			Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		httperr.Internal(c, "delete_failed", "failed to delete customer")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "customer_deleted",
		Entity:   "customer",
		EntityID: &customer.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}
