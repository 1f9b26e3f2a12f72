// Package api exposes the kiosk over HTTP: order processing, menu and
// recommendation endpoints, a websocket order-event stream, and a
// JWT-protected admin surface.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cafekiosk/internal/agent"
	"cafekiosk/internal/config"
	"cafekiosk/internal/menu"
	"cafekiosk/internal/order"
)

// Server wires the order agent, recommender, and store into a gin router.
type Server struct {
	engine      *gin.Engine
	agent       *agent.OrderAgent
	recommender *agent.Recommender
	store       *order.Store
	catalog     *menu.Catalog
	hub         *Hub
	settings    config.Settings
	log         zerolog.Logger
}

// NewServer builds the router with all routes registered.
func NewServer(
	orderAgent *agent.OrderAgent,
	recommender *agent.Recommender,
	store *order.Store,
	catalog *menu.Catalog,
	settings config.Settings,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		engine:      gin.Default(),
		agent:       orderAgent,
		recommender: recommender,
		store:       store,
		catalog:     catalog,
		hub:         NewHub(logger),
		settings:    settings,
		log:         logger.With().Str("component", "api").Logger(),
	}
	s.setupRoutes()
	return s
}

// Router returns the underlying gin engine, for http.Server and tests.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Hub returns the websocket broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/ws", s.handleWebSocket)

	v1 := s.engine.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", s.handleCreateOrder)
			orders.POST("/batch", s.handleBatchOrders)
			orders.GET("", s.handleListOrders)
			orders.GET("/:id", s.handleGetOrder)
			orders.PUT("/:id/status", s.handleUpdateStatus)
			orders.DELETE("/:id", s.handleCancelOrder)
			orders.GET("/:id/receipt", s.handleReceipt)
		}

		v1.GET("/menu", s.handleMenu)
		v1.GET("/menu/search", s.handleMenuSearch)

		if s.settings.EnableRecommendations {
			rec := v1.Group("/recommend")
			{
				rec.GET("/time", s.handleRecommendTime)
				rec.GET("/weather/:weather", s.handleRecommendWeather)
				rec.GET("/popular", s.handleRecommendPopular)
				rec.POST("/complementary", s.handleRecommendComplementary)
				rec.GET("/combos", s.handleRecommendCombos)
			}
		}

		v1.POST("/query", s.handleQuery)
	}

	admin := s.engine.Group("/admin", authMiddleware(s.settings.AdminSecret))
	{
		admin.GET("/stats", s.handleAdminStats)
		admin.POST("/history/purge", s.handleAdminPurge)
	}
}
