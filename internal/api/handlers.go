package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cafekiosk/internal/agent"
	"cafekiosk/internal/menu"
	"cafekiosk/internal/order"
)

type createOrderRequest struct {
	Text  string `json:"text" binding:"required"`
	Notes string `json:"notes"`
}

type batchOrderRequest struct {
	Texts []string `json:"texts" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type complementaryRequest struct {
	Items []order.ItemRequest `json:"items" binding:"required"`
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

type purgeRequest struct {
	Days int `json:"days" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	active, history := s.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"active_orders":  active,
		"history_orders": history,
		"ws_clients":     s.hub.ClientCount(),
	})
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.agent.Process(c.Request.Context(), req.Text, req.Notes)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	s.hub.Broadcast("order_created", result.Order.ID, result.Order)
	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleBatchOrders(c *gin.Context) {
	var req batchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Texts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texts must not be empty"})
		return
	}

	results := s.agent.ProcessBatch(c.Request.Context(), req.Texts)
	for _, r := range results {
		if r.Success {
			s.hub.Broadcast("order_created", r.Order.ID, r.Order)
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": s.store.ListActive()})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	o, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := order.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	id := c.Param("id")
	if !s.store.UpdateStatus(id, status) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	s.hub.Broadcast("status_changed", id, gin.H{"status": status})
	c.JSON(http.StatusOK, gin.H{"order_id": id, "status": status})
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	id := c.Param("id")
	result := s.agent.Cancel(id)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}

	s.hub.Broadcast("order_cancelled", id, nil)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleReceipt(c *gin.Context) {
	receipt, ok := s.agent.Receipt(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.String(http.StatusOK, receipt)
}

func (s *Server) handleMenu(c *gin.Context) {
	raw := c.Query("category")
	if raw == "" {
		items := make([]menu.Item, 0)
		for _, cat := range menu.Categories() {
			items = append(items, s.catalog.ByCategory(cat)...)
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
		return
	}

	cat, ok := parseCategory(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": s.catalog.ByCategory(cat)})
}

func (s *Server) handleMenuSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": s.catalog.Search(q)})
}

func (s *Server) handleRecommendTime(c *gin.Context) {
	count := queryInt(c, "count", 3)
	rec := s.recommender.ByTime(time.Now(), count)
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleRecommendWeather(c *gin.Context) {
	weather, ok := agent.ParseWeather(c.Param("weather"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown weather"})
		return
	}
	c.JSON(http.StatusOK, s.recommender.ByWeather(weather, queryInt(c, "count", 3)))
}

func (s *Server) handleRecommendPopular(c *gin.Context) {
	var cat menu.Category
	if raw := c.Query("category"); raw != "" {
		parsed, ok := parseCategory(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		cat = parsed
	}
	c.JSON(http.StatusOK, s.recommender.Popular(queryInt(c, "count", 3), cat))
}

func (s *Server) handleRecommendComplementary(c *gin.Context) {
	var req complementaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := s.recommender.Complementary(c.Request.Context(), req.Items, queryInt(c, "count", 2))
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleRecommendCombos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"combos": s.recommender.Combos(queryInt(c, "count", 2))})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.agent.Query(c.Request.Context(), req.Query)
	if err != nil {
		s.log.Error().Err(err).Msg("query failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAdminStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.agent.Stats())
}

func (s *Server) handleAdminPurge(c *gin.Context) {
	var req purgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be positive"})
		return
	}

	purged := s.store.PurgeHistoryOlderThan(req.Days)
	s.log.Info().Int("purged", purged).Int("days", req.Days).Msg("history purged")
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

func parseCategory(raw string) (menu.Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "음료", "beverage":
		return menu.CategoryBeverage, true
	case "디저트", "dessert":
		return menu.CategoryDessert, true
	case "식사", "meal":
		return menu.CategoryMeal, true
	}
	return "", false
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
