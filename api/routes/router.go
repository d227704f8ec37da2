package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/townkart/townkart-backend/api/controllers"
	"github.com/townkart/townkart-backend/api/middleware"
	"github.com/townkart/townkart-backend/internal/address"
	"github.com/townkart/townkart-backend/internal/assignments"
	"github.com/townkart/townkart-backend/internal/auth"
	"github.com/townkart/townkart-backend/internal/notifications"
	"github.com/townkart/townkart-backend/internal/partners"
	"github.com/townkart/townkart-backend/pkg/auth/session"
	"github.com/townkart/townkart-backend/pkg/config"
	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/logger"
	"github.com/townkart/townkart-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pinger,
	redisClient *redis.Client,
	sessionMgr sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	adminRegisterService auth.AdminRegisterService,
	partnersService partners.Service,
	assignmentsService assignments.Service,
	notificationsService notifications.Service,
	addressService address.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	roleAdmin := string(enums.UserRoleAdmin)
	rolePartner := string(enums.UserRoleDeliveryPartner)
	roleShopOwner := string(enums.UserRoleShopOwner)
	roleCustomer := string(enums.UserRoleCustomer)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionMgr, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionMgr, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(adminRegisterService, authService, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionMgr, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/v1/address", func(r chi.Router) {
			r.Get("/suggest", controllers.AddressSuggest(addressService, logg))
			r.Get("/resolve", controllers.AddressResolve(addressService, logg))
		})

		r.Route("/v1/partner", func(r chi.Router) {
			r.Use(middleware.RequireRole(rolePartner, logg))
			r.Get("/ping", controllers.PartnerPing())
			r.Post("/online", controllers.PartnerOnline(partnersService, logg))
			r.Post("/offline", controllers.PartnerOffline(partnersService, logg))
			r.Put("/location", controllers.PartnerLocation(partnersService, logg))
			r.Get("/settings", controllers.PartnerSettingsGet(partnersService, logg))
			r.Put("/settings", controllers.PartnerSettingsUpdate(partnersService, logg))
		})

		r.Route("/v1/assignments", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(rolePartner, logg))
				r.Get("/current", controllers.CurrentAssignment(assignmentsService, logg))
				r.Get("/history", controllers.AssignmentHistory(assignmentsService, logg))
				r.Get("/stats", controllers.PartnerAssignmentStats(assignmentsService, logg))
				r.Post("/{assignmentId}/accept", controllers.AcceptAssignment(assignmentsService, logg))
				r.Post("/{assignmentId}/reject", controllers.RejectAssignment(assignmentsService, logg))
				r.Post("/{assignmentId}/pickup", controllers.PickupAssignment(assignmentsService, logg))
				r.Post("/{assignmentId}/deliver", controllers.DeliverAssignment(assignmentsService, logg))
			})
			r.With(middleware.RequireRole(roleCustomer, logg)).Post("/{assignmentId}/rate", controllers.RateAssignment(assignmentsService, logg))
		})

		r.Route("/v1/orders/{orderId}", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, roleAdmin, roleShopOwner))
			r.Post("/assign", controllers.AutoAssignOrder(assignmentsService, logg))
			r.Post("/assign/manual", controllers.ManualAssignOrder(assignmentsService, logg))
			r.Get("/assignments", controllers.OrderAssignments(assignmentsService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionMgr, logg))
		r.Use(middleware.RequireRole(roleAdmin, logg))
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1/partners", func(r chi.Router) {
			r.Get("/availability", controllers.PartnerAvailability(partnersService, logg))
		})
	})

	return r
}
