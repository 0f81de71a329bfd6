package api

import (
	"errors"
	"net/http"
	"strconv"

	"concierge/internal/concierge"
	"concierge/internal/inventory"
	"concierge/internal/models"

	"github.com/gin-gonic/gin"
)

// PlanRequest is the body of POST /api/v1/plan
type PlanRequest struct {
	Days        int      `json:"days" binding:"min=0,max=30"`
	Preferences []string `json:"preferences"`
	AutoOrder   bool     `json:"auto_order"`
}

// AddItemRequest is the body of POST /api/v1/inventory
type AddItemRequest struct {
	Name       string      `json:"name" binding:"required"`
	Quantity   int         `json:"quantity" binding:"required,min=1"`
	Unit       string      `json:"unit"`
	ExpiryDate models.Date `json:"expiry_date"`
	Category   string      `json:"category"`
}

// RemoveItemRequest is the body of POST /api/v1/inventory/remove
type RemoveItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
}

// Workflow handlers

func (s *Server) DailyCheck(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.concierge.DailyCheck())
}

func (s *Server) PlanAndOrder(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.concierge.PlanAndOrder(c.Request.Context(), req.Days, req.Preferences, req.AutoOrder)
	c.JSON(http.StatusOK, result)
}

func (s *Server) SystemStatus(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.concierge.SystemStatus())
}

// Inventory handlers

func (s *Server) GetInventory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.concierge.Inventory().Items()
	c.JSON(http.StatusOK, gin.H{"items": items, "total_items": len(items)})
}

func (s *Server) GetInventorySummary(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.concierge.Inventory().SummaryByCategory())
}

func (s *Server) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ExpiryDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date is required"})
		return
	}

	line := models.InventoryLine{
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		ExpiryDate: req.ExpiryDate,
		Category:   req.Category,
	}
	if line.Category == "" {
		line.Category = models.CategoryMisc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.concierge.Inventory().Add(line); err != nil {
		writeInventoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": line, "total_items": s.concierge.Inventory().Len()})
}

func (s *Server) RemoveItem(c *gin.Context) {
	var req RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.concierge.Inventory().Remove(req.Name, req.Quantity); err != nil {
		writeInventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": req.Name, "quantity": req.Quantity})
}

func writeInventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrInsufficientQuantity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Calendar and order handlers

func (s *Server) GetEvents(c *gin.Context) {
	days := concierge.UpcomingWindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.concierge.UpcomingEvents(days)
	c.JSON(http.StatusOK, gin.H{"events": events, "days": days})
}

func (s *Server) GetOrderStatus(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.concierge.OrderStatus(c.Param("id")))
}
