package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/auth"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/booking"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/catalog"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/class"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/clock"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/config"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/notify"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/subscription"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(database *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	RegisterValidations()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	clk := clock.Real{}

	userRepo := user.NewRepository(database)
	catalogRepo := catalog.NewRepository(database)
	classRepo := class.NewRepository(database)
	subscriptionRepo := subscription.NewRepository(database)
	bookingRepo := booking.NewRepository(database)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	catalogHandler := catalog.NewHandler(catalogRepo)
	classHandler := class.NewHandler(class.NewService(classRepo, clk))
	subscriptionHandler := subscription.NewHandler(
		subscription.NewService(subscriptionRepo, catalogRepo, userRepo, notifier, clk))

	gate := booking.NewGate(subscriptionRepo, classRepo)
	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, gate, userRepo, notifier, clk))

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.Middleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/subscription", subscriptionHandler.MySubscription)
		protected.GET("/packages", catalogHandler.ListPackages)
		protected.GET("/classes", classHandler.ListClasses)
		protected.POST("/classes/:classID/book", bookingHandler.BookClass)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(user.RoleAdmin))
	{
		admin.GET("/students", userHandler.ListStudents)
		admin.POST("/classes", classHandler.CreateClass)
		admin.PUT("/classes/:classID", classHandler.UpdateClass)
		admin.DELETE("/classes/:classID", classHandler.RemoveClass)
		admin.GET("/classes/:classID/bookings", bookingHandler.ListBookingsByClass)
		admin.POST("/subscriptions", subscriptionHandler.Activate)
		admin.POST("/subscriptions/:subscriptionID/payment", subscriptionHandler.RecordPayment)
		admin.GET("/users/:userID/subscriptions", subscriptionHandler.ListForUser)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     database,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
