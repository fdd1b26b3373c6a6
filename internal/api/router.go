package api

import (
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig carries what the router needs beyond the handlers
type RouterConfig struct {
	AllowedOrigins []string
	Tokens         *session.TokenService
	Hub            *Hub
	Logger         *zap.Logger
}

func NewRouter(h *Handlers, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader},
		ExposeHeaders:    []string{middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", h.Health)

	// Catalog routes
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)

	// Session-scoped routes
	s := r.Group("/")
	s.Use(middleware.Session(cfg.Tokens, logger))
	{
		s.GET("/cart", h.GetCart)
		s.POST("/cart/items", h.AddToCart)
		s.POST("/cart/quick-add", h.QuickAdd)
		s.PATCH("/cart/items", h.UpdateQuantity)
		s.DELETE("/cart/items", h.RemoveFromCart)
		s.DELETE("/cart", h.ClearCart)

		s.GET("/checkout/quote", h.Quote)
		s.POST("/checkout", h.PlaceOrder)

		if cfg.Hub != nil {
			s.GET("/ws", cfg.Hub.Serve)
		}
	}

	return r
}
