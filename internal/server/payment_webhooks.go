package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/aktiva/internal/observability/logger"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"go.uber.org/zap"
)

// HandlePaymentWebhook consumes the gateway's form-encoded postback. The
// gateway retries on any non-200, so processing failures are logged and
// acknowledged rather than surfaced.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	notification := paymentdomain.GatewayNotification{
		ResponseCode:        strings.TrimSpace(c.PostForm("ResponseCode")),
		ResponseDescription: strings.TrimSpace(c.PostForm("ResponseDescription")),
		TransactionNumber:   strings.TrimSpace(c.PostForm("TransactionNumber")),
		OrderID:             strings.TrimSpace(c.PostForm("order_id")),
	}

	if _, err := s.paymentSvc.HandleNotification(c.Request.Context(), notification); err != nil {
		logger.FromContext(c.Request.Context()).Warn("payment webhook not applied",
			zap.String("order_id", notification.OrderID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) PaymentReturn(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "received",
		"order_id": strings.TrimSpace(c.Query("order_id")),
	})
}

func (s *Server) PaymentCancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "cancelled",
		"order_id": strings.TrimSpace(c.Query("order_id")),
	})
}
