package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/plan"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	limits := plan.LimitsFor(plan.Parse(user.Plan))

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"plan":  user.Plan,
		},
		"limits": gin.H{
			"max_customers":    limits.MaxCustomers,
			"can_export_excel": limits.CanExportExcel,
			"can_upload_photo": limits.CanUploadPhoto,
		},
	})
}

// DeleteAccount removes the operator and every row they own. Photos in
// blob storage are left behind.
func (h *MeHandler) DeleteAccount(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_record_id IN (?)",
				tx.Model(&models.ServiceRecord{}).Select("id").Where("user_id = ?", userID),
			).
			Delete(&models.RecordPhoto{}).Error; err != nil {
			return err
		}

		for _, m := range []any{
			&models.ServiceRecord{},
			&models.Reservation{},
			&models.ServiceMenu{},
			&models.Stylist{},
			&models.Customer{},
			&models.AuditLog{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, userID).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
