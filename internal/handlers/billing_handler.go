package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/billing"
	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
)

type BillingHandler struct {
	db       *gorm.DB
	checkout *billing.Checkout
	audit    *audit.Dispatcher
}

func NewBillingHandler(db *gorm.DB, checkout *billing.Checkout, dispatcher *audit.Dispatcher) *BillingHandler {
	return &BillingHandler{db: db, checkout: checkout, audit: dispatcher}
}

// --------- Requests ---------

type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// --------- Handlers ---------

// CreateCheckout opens a payment preference for the premium upgrade and
// returns the redirect URL.
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if h.checkout == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "billing_unavailable", "billing is not configured")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "failed to load account")
		return
	}
	if user.Plan == "premium" {
		httperr.BadRequest(c, "already_premium", "account is already on the premium plan")
		return
	}

	pref, err := h.checkout.CreateUpgradePreference(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "checkout_failed", "failed to create checkout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preference_id": pref.ID,
		"init_point":    pref.InitPoint,
	})
}

// Webhook processes payment notifications. An approved payment whose
// external reference names a user upgrades that user to premium. The
// endpoint always answers 200 for notification types it does not
// handle so the provider stops retrying.
func (h *BillingHandler) Webhook(c *gin.Context) {
	if h.checkout == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var notif webhookNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_notification"})
		return
	}

	if notif.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	paymentID, err := strconv.Atoi(notif.Data.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payment_id"})
		return
	}

	ref, approved, err := h.checkout.PaymentApproved(c.Request.Context(), paymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment_lookup_failed"})
		return
	}
	if !approved {
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
		return
	}

	userID, ok := billing.ParseUserReference(ref)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("plan", "premium").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upgrade_failed"})
		return
	}

	uid := userID
	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "plan_upgraded",
		Entity:   "user",
		EntityID: &uid,
	})

	c.JSON(http.StatusOK, gin.H{"status": "upgraded"})
}
