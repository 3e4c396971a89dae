package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-bot/internal/engine"
	"storefront-bot/internal/models"
	"storefront-bot/internal/service"
	"storefront-bot/internal/store"
	"storefront-bot/internal/util"
	"storefront-bot/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Conversations consumes inbound chat events.
type Conversations interface {
	HandleEvent(ctx context.Context, ev engine.Event) error
}

// OrderReader exposes stored orders to the ops API.
type OrderReader interface {
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	GetOrderItems(ctx context.Context, number string) ([]models.OrderItem, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// StatusUpdater changes an order's fulfillment status.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, number, status string) (*models.Order, error)
}

// WebhookConfig holds the Meta webhook secrets. An empty AppSecret disables
// signature checks.
type WebhookConfig struct {
	VerifyToken string
	AppSecret   string
}

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	conversations Conversations
	orders        OrderReader
	fulfillment   StatusUpdater
	webhook       WebhookConfig
	checks        []ReadinessCheck
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	conversations Conversations,
	orders OrderReader,
	fulfillment StatusUpdater,
	webhook WebhookConfig,
	checks ...ReadinessCheck,
) *Handler {
	return &Handler{
		conversations: conversations,
		orders:        orders,
		fulfillment:   fulfillment,
		webhook:       webhook,
		checks:        checks,
		logger:        util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(h.requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/webhook", h.verifyWebhook)
	router.POST("/webhook", h.receiveWebhook)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders/:number", h.getOrder)
		v1.PATCH("/orders/:number/status", h.updateOrderStatus)
		v1.GET("/customers/:phone/orders", h.listCustomerOrders)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency and reports the failing ones.
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			failed[check.Name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// verifyWebhook answers Meta's subscription handshake.
func (h *Handler) verifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")

	if !whatsapp.VerifySubscription(mode, token, h.webhook.VerifyToken) {
		h.logger.Warn("Webhook verification rejected", zap.String("mode", mode))
		c.Status(http.StatusForbidden)
		return
	}

	h.logger.Info("Webhook verified")
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

// receiveWebhook processes inbound messages in delivery order before
// acknowledging. Unsupported message types are acknowledged and dropped.
func (h *Handler) receiveWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if h.webhook.AppSecret != "" &&
		!whatsapp.VerifySignature(h.webhook.AppSecret, body, c.GetHeader(whatsapp.SignatureHeader)) {
		h.logger.Warn("Webhook signature mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var payload whatsapp.WebhookPayload
	if err := binding.JSON.BindBody(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	events, skipped := payload.Events()
	for _, m := range skipped {
		util.MessagesIgnoredTotal.WithLabelValues(m.Type).Inc()
		h.logger.Info("Ignoring unsupported message",
			zap.String("type", m.Type),
			zap.String("message_id", m.ID))
	}

	for _, ev := range events {
		if err := h.conversations.HandleEvent(c.Request.Context(), ev); err != nil {
			h.logger.Warn("Failed to handle inbound message",
				zap.String("message_id", ev.MessageID),
				zap.Error(err))
		}
	}

	c.Status(http.StatusOK)
}

// getOrder returns an order with its items
func (h *Handler) getOrder(c *gin.Context) {
	number := c.Param("number")

	order, err := h.orders.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		h.orderError(c, err)
		return
	}

	items, err := h.orders.GetOrderItems(c.Request.Context(), number)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus is the ops entry point for fulfillment changes
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.fulfillment.UpdateStatus(c.Request.Context(), c.Param("number"), req.Status)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) listCustomerOrders(c *gin.Context) {
	orders, err := h.orders.ListOrdersByUser(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.orderError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid order status",
			"details": err.Error(),
			"allowed": models.OrderStatuses,
		})
	default:
		h.logger.Error("Order request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// requestLogger logs one line per request through zap
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
