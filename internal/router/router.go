package router

import (
	"time"

	"github.com/sime65123/gym-project/internal/config"
	"github.com/sime65123/gym-project/internal/handler"
	"github.com/sime65123/gym-project/internal/infra"
	"github.com/sime65123/gym-project/internal/middleware"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/service"
	"github.com/sime65123/gym-project/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, gatewayCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	gateway := infra.NewCinetPayClient(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	planSvc := service.NewPlanService(planRepo)
	reservationSvc := service.NewReservationService(reservationRepo, paymentRepo, planRepo, invoiceRepo, userRepo, membershipRepo, dispatcher)
	paymentSvc := service.NewPaymentService(paymentRepo, userRepo, invoiceRepo, gateway, gatewayCB, dispatcher)
	sessionSvc := service.NewSessionService(sessionRepo, staffRepo, paymentRepo, invoiceRepo, userRepo, dispatcher)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)
	membershipSvc := service.NewMembershipService(membershipRepo, planRepo, userRepo, paymentRepo, invoiceRepo, dispatcher)
	staffSvc := service.NewStaffService(staffRepo, attendanceRepo)
	chargeSvc := service.NewChargeService(chargeRepo)
	reportSvc := service.NewReportService(reportRepo, userRepo, sessionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	plansH := handler.NewPlansHandler(planSvc)
	reservationsH := handler.NewReservationsHandler(reservationSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	membershipsH := handler.NewMembershipsHandler(membershipSvc)
	staffH := handler.NewStaffHandler(staffSvc)
	chargesH := handler.NewChargesHandler(chargeSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/api/register", authH.Register)
	r.POST("/api/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/api/token/refresh", authH.Refresh)

	// Gateway webhook — CinetPay posts here, no JWT. The handler queries the
	// gateway back for the authoritative status, so the endpoint is safe open.
	r.POST("/api/cinetpay/notify", paymentsH.Webhook)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		staffOnly := middleware.RequireRole("ADMIN", "EMPLOYE")
		adminOnly := middleware.RequireRole("ADMIN")
		clientOnly := middleware.RequireRole("CLIENT")

		// Profile — any authenticated user
		api.GET("/profile", authH.Profile)
		api.PUT("/profile", authH.UpdateProfile)

		// Users — staff manages accounts, deactivation stays admin
		users := api.Group("/users", staffOnly)
		{
			// Only admins can mint accounts: the request may carry any role.
			users.POST("", adminOnly, usersH.Create)
			users.GET("", usersH.List)
			users.GET("/:id", usersH.Get)
			users.GET("/:id/reservations", adminOnly, reservationsH.ByClient)
			users.DELETE("/:id", adminOnly, usersH.Deactivate)
		}

		// Plans — everyone reads the catalog, admin writes
		api.GET("/abonnements", plansH.List)
		api.GET("/abonnements/:id", plansH.Get)
		api.GET("/abonnements/:id/clients", staffOnly, membershipsH.ByPlan)
		plans := api.Group("/abonnements", adminOnly)
		{
			plans.POST("", plansH.Create)
			plans.PUT("/:id", plansH.Update)
			plans.DELETE("/:id", plansH.Delete)
		}

		// Reservations
		api.POST("/reservations", reservationsH.Create)
		api.GET("/reservations", staffOnly, reservationsH.List)
		api.GET("/mes-reservations", clientOnly, reservationsH.Mine)
		api.GET("/reservations/:id", reservationsH.Get)
		api.POST("/reservations/:id/valider", staffOnly, reservationsH.Validate)
		api.POST("/reservations/:id/annuler", reservationsH.Cancel)
		api.POST("/reservations/:id/terminer", staffOnly, reservationsH.MarkDone)
		api.DELETE("/reservations/:id", adminOnly, reservationsH.Delete)

		// Payments
		api.POST("/init-paiement", clientOnly, paymentsH.InitPayment)
		api.POST("/recharge-compte", clientOnly, paymentsH.Recharge)
		api.POST("/paiement-direct", staffOnly, paymentsH.DirectPayment)
		api.GET("/paiements", staffOnly, paymentsH.List)
		api.GET("/paiements/:id", staffOnly, paymentsH.Get)
		api.POST("/paiements/:id/valider", staffOnly, paymentsH.Validate)
		api.GET("/mes-paiements", clientOnly, paymentsH.Mine)

		// Invoices — PDF download open to any authenticated user holding the id
		api.GET("/factures", staffOnly, invoicesH.List)
		api.GET("/factures/:id", invoicesH.Get)
		api.GET("/factures/:id/pdf", invoicesH.DownloadPDF)
		api.GET("/mes-factures", clientOnly, invoicesH.Mine)

		// Walk-in sessions
		seances := api.Group("/seances", staffOnly)
		{
			seances.POST("", sessionsH.Create)
			seances.GET("", sessionsH.List)
			seances.GET("/:id", sessionsH.Get)
			seances.PUT("/:id", sessionsH.Update)
			seances.DELETE("/:id", sessionsH.Delete)
			seances.POST("/paiement-direct", sessionsH.DirectSale)
		}

		// Memberships
		api.GET("/mes-abonnements", clientOnly, membershipsH.Mine)
		memberships := api.Group("/abonnements-clients", staffOnly)
		{
			memberships.POST("/paiement-direct", membershipsH.DirectSale)
			memberships.GET("", membershipsH.List)
			memberships.GET("/:id", membershipsH.Get)
		}
		api.POST("/abonnements-clients/expirer", adminOnly, membershipsH.ExpireOverdue)

		// Staff registry and attendance
		personnel := api.Group("/personnel", adminOnly)
		{
			personnel.POST("", staffH.Create)
			personnel.PUT("/:id", staffH.Update)
			personnel.DELETE("/:id", staffH.Delete)
		}
		api.GET("/personnel", staffOnly, staffH.List)
		api.GET("/personnel/:id", staffOnly, staffH.Get)

		presences := api.Group("/presences", staffOnly)
		{
			presences.POST("", staffH.CheckIn)
			presences.GET("", staffH.ListAttendance)
			presences.PUT("/:id", staffH.UpdateAttendance)
			presences.DELETE("/:id", staffH.DeleteAttendance)
		}
		api.GET("/presences/rapport-journalier", adminOnly, staffH.DailyReport)

		// Charges are staff-entered expenses; the report stays admin only
		charges := api.Group("/charges", staffOnly)
		{
			charges.POST("", chargesH.Create)
			charges.GET("", chargesH.List)
			charges.GET("/:id", chargesH.Get)
			charges.PUT("/:id", chargesH.Update)
			charges.DELETE("/:id", chargesH.Delete)
		}
		api.GET("/financial-report", adminOnly, reportsH.Financial)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
