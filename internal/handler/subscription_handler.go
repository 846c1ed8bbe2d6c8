package handler

import (
	"net/http"

	"voltwise-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubscriptionHandler fronts the payment provider. Checkout is mocked: no
// real Stripe call is made and no tier change happens here.
type SubscriptionHandler struct{}

func NewSubscriptionHandler() *SubscriptionHandler {
	return &SubscriptionHandler{}
}

func (h *SubscriptionHandler) CreateCheckoutSession(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		PriceID string `json:"priceId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	log.Info("Checkout session requested", zap.String("price_id", req.PriceID))
	return c.JSON(http.StatusOK, echo.Map{"url": "https://checkout.stripe.com/mock-session"})
}
