package routes

import (
	"acem-epargne/internal/adapters/http/handlers"
	"acem-epargne/internal/adapters/http/middleware"
	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Services groups the wired service layer so main can share it with the
// background scheduler.
type Services struct {
	Members  *services.MemberService
	Deposits *services.DepositService
	Ledger   *services.LedgerService
	Payouts  *services.PayoutService
	Notifier *services.NotifierService
	Reports  *services.ReportService
}

// BuildServices wires the service layer on top of the record store
func BuildServices(store repositories.RecordStore) *Services {
	notifier := services.NewNotifierService(store)
	memberService := services.NewMemberService(store, notifier)

	return &Services{
		Members:  memberService,
		Deposits: services.NewDepositService(store, memberService, notifier),
		Ledger:   services.NewLedgerService(store),
		Payouts:  services.NewPayoutService(store, notifier),
		Notifier: notifier,
		Reports:  services.NewReportService(store),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, store repositories.RecordStore, svc *Services) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store)
	memberHandler := handlers.NewMemberHandler(svc.Members)
	depositHandler := handlers.NewDepositHandler(svc.Deposits)
	payoutHandler := handlers.NewPayoutHandler(svc.Ledger, svc.Payouts)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifier)
	reportHandler := handlers.NewReportHandler(svc.Reports)

	// Health endpoints
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	v1 := app.Group("/api/v1")
	v1.Get("/", healthHandler.APIInfo)

	// Members
	members := v1.Group("/members")
	members.Get("/", memberHandler.List)
	members.Get("/search", memberHandler.Search)
	members.Get("/:code", memberHandler.Get)
	members.Post("/", memberHandler.Create)

	// Deposits
	deposits := v1.Group("/deposits")
	deposits.Get("/", depositHandler.List)
	deposits.Post("/", depositHandler.Create)

	// Payouts and eligibility
	payouts := v1.Group("/payouts")
	payouts.Get("/", payoutHandler.List)
	payouts.Get("/eligibility", payoutHandler.Eligibility)
	payouts.Get("/pending", payoutHandler.Pending)
	payouts.Post("/settle/:code", middleware.SettleRateLimiter(), payoutHandler.Settle)
	payouts.Post("/settle-all", middleware.SettleRateLimiter(), payoutHandler.SettleAll)

	// Notifications
	notifications := v1.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/", notificationHandler.Push)
	notifications.Post("/scan", notificationHandler.Scan)

	// Reports
	reports := v1.Group("/reports")
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/members/:code/balance", reportHandler.MemberBalance)
}
