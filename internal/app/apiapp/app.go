package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/config"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/infra/httpclient"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
	redrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/redis"
	adminsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/admin"
	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	couponsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/coupons"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	ordersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/orders"
	paymentsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/payments"
	teamsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/teams"
	ticketsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/tickets"
	usersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	matchings  *matchingsvc.Service
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	teamRepo := pgrepo.NewTeamRepo(pool)
	matchingRepo := pgrepo.NewMatchingRepo(pool)
	ticketRepo := pgrepo.NewTicketRepo(pool)
	couponRepo := pgrepo.NewCouponRepo(pool)
	orderRepo := pgrepo.NewOrderRepo(pool)
	refuseReasonRepo := pgrepo.NewRefuseReasonRepo(pool)
	agreementRepo := pgrepo.NewAgreementRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	kakaoClient := authsvc.NewHTTPKakaoClient(httpclient.New(10*time.Second), cfg.Kakao.ProfileURL)
	authService := authsvc.NewService(authsvc.Dependencies{
		JWT:        jwtManager,
		Sessions:   sessionRepo,
		Users:      userRepo,
		Kakao:      kakaoClient,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})

	ticketService := ticketsvc.NewService(ticketsvc.Dependencies{
		Pool:  pool,
		Store: ticketRepo,
	})
	teamService := teamsvc.NewService(teamsvc.Dependencies{
		Pool:  pool,
		Store: teamRepo,
	})
	matchingService := matchingsvc.NewService(matchingsvc.Dependencies{
		Pool:          pool,
		Matchings:     matchingRepo,
		Teams:         teamRepo,
		Tickets:       ticketRepo,
		RefuseReasons: refuseReasonRepo,
	})
	couponService := couponsvc.NewService(couponsvc.Dependencies{
		Store: couponRepo,
	})
	tossClient := paymentsvc.NewTossClient(httpclient.New(15*time.Second), cfg.Toss.BaseURL, cfg.Toss.SecretKey)
	orderService := ordersvc.NewService(ordersvc.Dependencies{
		Pool:      pool,
		Orders:    orderRepo,
		Coupons:   couponService,
		Tickets:   ticketService,
		Confirmer: tossClient,
	})
	userService := usersvc.NewService(usersvc.Dependencies{
		Users:      userRepo,
		Teams:      teamService,
		Tickets:    ticketService,
		Coupons:    couponService,
		Orders:     orderService,
		Agreements: agreementRepo,
	})
	adminService := adminsvc.NewService(adminsvc.Dependencies{
		Matchings: matchingService,
		Teams:     teamService,
		Users:     userService,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:     authService,
		TeamService:     teamService,
		MatchingService: matchingService,
		CouponService:   couponService,
		OrderService:    orderService,
		UserService:     userService,
		AdminService:    adminService,
		Logger:          log,
		Config:          cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		matchings:  matchingService,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

// MatchingService exposes the matching service so the round scheduler can
// share the wired instance.
func (a *App) MatchingService() *matchingsvc.Service {
	return a.matchings
}
