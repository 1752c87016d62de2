package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"travelnest/internal/domain/user"
	"travelnest/internal/handler/api"
	"travelnest/internal/handler/middleware"
	"travelnest/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth     *api.AuthHandler
	Property *api.PropertyHandler
	Booking  *api.BookingHandler
	Payment  *api.PaymentHandler
	Review   *api.ReviewHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		properties := apiGroup.Group("/properties")
		{
			addRoutes(properties, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Property.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Property.Get},
				{Method: http.MethodGet, Path: "/:id/reviews", Handler: h.Review.ListByProperty},
				{Method: http.MethodGet, Path: "/:id/rating", Handler: h.Review.GetRatingStats},
			})

			authRequired := properties.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Property.Create,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleHost)}},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Property.Update,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleHost)}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Property.Delete,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleHost)}},
				{Method: http.MethodGet, Path: "/:id/bookings", Handler: h.Booking.ListByProperty},
				{Method: http.MethodPost, Path: "/:id/reviews", Handler: h.Review.Create},
			})
		}

		host := apiGroup.Group("/host")
		host.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleHost))
		{
			addRoutes(host, []route{
				{Method: http.MethodGet, Path: "/properties", Handler: h.Property.ListMine},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPatch, Path: "/:id/dates", Handler: h.Booking.UpdateDates},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Payment.Initiate},
				{Method: http.MethodGet, Path: "/:id/payment", Handler: h.Payment.GetByBooking},
			})
		}

		// The gateway calls back server-to-server and carries no session, so
		// these routes stay outside RequireAuth. The tx_ref acts as the
		// capability token.
		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "/callback", Handler: h.Payment.Callback},
				{Method: http.MethodPost, Path: "/callback", Handler: h.Payment.Callback},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
