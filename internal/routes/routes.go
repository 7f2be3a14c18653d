package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pocketsalon/salon-manager/internal/audit"
	"github.com/pocketsalon/salon-manager/internal/billing"
	"github.com/pocketsalon/salon-manager/internal/cache"
	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/handlers"
	infraRepo "github.com/pocketsalon/salon-manager/internal/infra/repository"
	"github.com/pocketsalon/salon-manager/internal/middleware"
	"github.com/pocketsalon/salon-manager/internal/storage"
	ucReservation "github.com/pocketsalon/salon-manager/internal/usecase/reservation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	dashboardCache := cache.New(cfg)
	photoStore := storage.NewPhotoStore(cfg)

	checkout, err := billing.NewCheckout(cfg)
	if err != nil {
		log.Printf("billing disabled: %v", err)
	}

	// ======================================================
	// USE CASES: RESERVATIONS
	// ======================================================
	createReservationUC := ucReservation.NewCreateReservation(
		reservationRepo,
		auditDispatcher,
	)

	saveReservationUC := ucReservation.NewSaveReservation(
		reservationRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	customerHandler := handlers.NewCustomerHandler(db, cfg, auditDispatcher)
	menuHandler := handlers.NewMenuHandler(db, auditDispatcher)
	stylistHandler := handlers.NewStylistHandler(db, auditDispatcher)
	recordHandler := handlers.NewRecordHandler(db, cfg, auditDispatcher, dashboardCache, photoStore)

	reservationHandler := handlers.NewReservationHandler(
		db,
		cfg,
		auditDispatcher,
		dashboardCache,
		createReservationUC,
		saveReservationUC,
	)

	statsHandler := handlers.NewStatsHandler(db, cfg, dashboardCache)
	exportHandler := handlers.NewExportHandler(db, cfg, auditDispatcher)
	billingHandler := handlers.NewBillingHandler(db, checkout, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)

		// ------------------------------
		// WEBHOOKS
		// ------------------------------
		api.POST("/webhooks/payments", billingHandler.Webhook)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.DELETE("/me", meHandler.DeleteAccount)

			secured.GET("/me/customers", customerHandler.List)
			secured.POST("/me/customers", customerHandler.Create)
			secured.GET("/me/customers/:id", customerHandler.Get)
			secured.PATCH("/me/customers/:id", customerHandler.Update)
			secured.DELETE("/me/customers/:id", customerHandler.Delete)

			secured.GET("/me/menus", menuHandler.List)
			secured.POST("/me/menus", menuHandler.Create)
			secured.PATCH("/me/menus/:id", menuHandler.Update)
			secured.DELETE("/me/menus/:id", menuHandler.Delete)

			secured.GET("/me/stylists", stylistHandler.List)
			secured.POST("/me/stylists", stylistHandler.Create)
			secured.PATCH("/me/stylists/:id", stylistHandler.Update)
			secured.DELETE("/me/stylists/:id", stylistHandler.Delete)

			// ------------------------------
			// SERVICE RECORDS
			// ------------------------------
			secured.GET("/me/records", recordHandler.List)
			secured.POST("/me/records", recordHandler.Create)
			secured.PATCH("/me/records/:id", recordHandler.Update)
			secured.DELETE("/me/records/:id", recordHandler.Delete)
			secured.POST("/me/records/:id/photos", recordHandler.UploadPhoto)
			secured.DELETE("/me/records/:id/photos/:photoId", recordHandler.DeletePhoto)

			// ------------------------------
			// RESERVATIONS
			// ------------------------------
			secured.GET("/me/reservations", reservationHandler.ListByDay)
			secured.GET("/me/reservations/month", reservationHandler.ListByMonth)
			secured.POST("/me/reservations", reservationHandler.Create)
			secured.PUT("/me/reservations/:id", reservationHandler.Update)
			secured.DELETE("/me/reservations/:id", reservationHandler.Delete)

			// ------------------------------
			// STATS & EXPORT
			// ------------------------------
			secured.GET("/me/dashboard", statsHandler.Dashboard)
			secured.GET("/me/stats/monthly", statsHandler.Monthly)

			secured.GET("/me/export/customers", exportHandler.Customers)
			secured.GET("/me/export/records", exportHandler.Records)
			secured.GET("/me/export/revenue", exportHandler.Revenue)
			secured.GET("/me/export/stylists", exportHandler.Stylists)

			// ------------------------------
			// BILLING
			// ------------------------------
			secured.POST("/me/billing/checkout", billingHandler.CreateCheckout)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
