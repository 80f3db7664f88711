package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/config"
	adminsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/admin"
	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	couponsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/coupons"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	ordersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/orders"
	teamsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/teams"
	usersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/users"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService     *authsvc.Service
	TeamService     *teamsvc.Service
	MatchingService *matchingsvc.Service
	CouponService   *couponsvc.Service
	OrderService    *ordersvc.Service
	UserService     *usersvc.Service
	AdminService    *adminsvc.Service
	Logger          *zap.Logger
	Config          config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	teamHandler := handlers.NewTeamHandler(deps.TeamService)
	matchingHandler := handlers.NewMatchingHandler(deps.MatchingService)
	orderHandler := handlers.NewOrderHandler(deps.OrderService)
	userHandler := handlers.NewUserHandler(deps.UserService, deps.CouponService, deps.MatchingService)
	adminHandler := handlers.NewAdminHandler(deps.AdminService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminRoleMW := RequireRole("admin")

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/kakao", authHandler.Kakao)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/signout", authHandler.SignOut)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/counts", teamHandler.Counts)
		r.With(authMW).Post("/", teamHandler.Register)
		r.With(authMW).Get("/{teamId}", teamHandler.Get)
	})

	r.Route("/matchings", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/{matchingId}", matchingHandler.GetInfo)
		r.Put("/{matchingId}/teams/{teamId}/accept", matchingHandler.Accept)
		r.Put("/{matchingId}/teams/{teamId}/refuse", matchingHandler.Refuse)
		r.Post("/{matchingId}/teams/{teamId}/refuse-reason", matchingHandler.CreateRefuseReason)
	})

	r.With(authMW).Post("/orders", orderHandler.Create)

	r.Route("/users/me", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", userHandler.MyInfo)
		r.Get("/team-id", userHandler.TeamID)
		r.Get("/matching-id", userHandler.MatchingID)
		r.Get("/tickets/count", userHandler.TicketCount)
		r.Get("/coupons/count", userHandler.CouponCount)
		r.Get("/coupons", userHandler.Coupons)
		r.Post("/coupons", userHandler.RegisterCoupon)
		r.Get("/orders", userHandler.Orders)
		r.Get("/teams", userHandler.TeamHistory)
		r.Get("/invitations", userHandler.InvitationInfo)
		r.Get("/agreements", userHandler.Agreements)
		r.Post("/agreements", userHandler.SaveAgreements)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW, adminRoleMW)
		r.Get("/matchings", adminHandler.Matchings)
		r.Delete("/matchings/{matchingId}", adminHandler.DeleteMatching)
		r.Put("/matchings/{matchingId}/chat", adminHandler.SaveChatCreatedAt)
		r.Get("/refuse-reasons", adminHandler.RefuseReasons)
		r.Get("/teams/counts", adminHandler.TeamCounts)
		r.Put("/users/{userId}/blacklist", adminHandler.SetBlacklisted)
	})
}
