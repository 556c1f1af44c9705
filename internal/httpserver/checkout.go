package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	checkoutsvc "paintshop/internal/service/checkout"
)

func checkoutHandler(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form checkoutsvc.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		order, err := svc.Checkout(c.Request.Context(), actorFrom(c), form)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderView(*order))
	}
}

func listOrdersHandler(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context(), actorFrom(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderViews(orders)})
	}
}

func getOrderHandler(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.GetOrder(c.Request.Context(), actorFrom(c), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderView(*order))
	}
}
