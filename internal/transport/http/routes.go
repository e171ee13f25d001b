package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *PaymentHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	h.router.GET("/ready", h.readyHandler)

	// The gateway posts here without credentials; the signature is the auth.
	h.router.POST("/callback/gateway", h.gatewayCallbackHandler)

	api := h.router.Group("/api/v1", h.authMiddleware())
	{
		api.POST("/payments/charge", h.authorize(ActionCharge), h.chargeHandler)
		api.GET("/payments/:order_number", h.authorize(ActionViewPayment), h.getPaymentHandler)

		api.POST("/payment-links", h.authorize(ActionCreateLink), h.createLinkHandler)
		api.DELETE("/payment-links/:order_number", h.authorize(ActionDeleteLink), h.deleteLinkHandler)

		admin := api.Group("/admin/payments")
		{
			admin.GET("/unfulfilled", h.authorize(ActionListUnfulfilled), h.listUnfulfilledHandler)
			admin.POST("/:order_number/fulfill", h.authorize(ActionFulfill), h.fulfillHandler)
		}
	}
}
